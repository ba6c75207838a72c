package db

import (
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"github.com/samber/oops"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"signin/internal/user"
)

// Connect opens a gorm handle. driver selects the database/sql driver:
// "pgx" (default) or "postgres" for lib/pq.
func Connect(dsn, driver string) (*gorm.DB, error) {
	dialCfg := postgres.Config{DSN: dsn}
	if driver == "postgres" {
		dialCfg.DriverName = "postgres"
	}

	gdb, err := gorm.Open(postgres.New(dialCfg), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("driver", driver).
			Wrap(err)
	}
	return gdb, nil
}

// Close releases the connection pool behind gdb.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return oops.Code("DB_CLOSE_FAILED").Wrap(err)
	}
	if err := sqlDB.Close(); err != nil {
		return oops.Code("DB_CLOSE_FAILED").Wrap(err)
	}
	return nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&user.User{}); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto migrate").Wrap(err)
	}

	// One row per email. user.GormStore looks emails up by lower(email),
	// so this index serves those lookups too.
	stmts := []string{
		`create unique index if not exists uq_users_email on users (lower(email));`,
		`create index if not exists idx_users_registered_at on users (registered_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return oops.Code("MIGRATION_FAILED").Wrap(fmt.Errorf("index exec failed: %w (sql=%s)", err, s))
		}
	}
	return nil
}
