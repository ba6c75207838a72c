package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newStoreWithMock(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return NewGormStore(gdb), mock
}

var userColumns = []string{"id", "email", "first_name", "last_name", "password_hash", "date_of_birth", "registered_at"}

func TestFindByEmail_Found(t *testing.T) {
	store, mock := newStoreWithMock(t)
	dob := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(7, "a@x.com", "Alice", "Doe", "$2a$12$hash", dob, time.Now()))

	u, err := store.FindByEmail(context.Background(), "  A@X.com ")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, dob, u.DateOfBirth)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := store.FindByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByEmail_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE lower\(email\) = \$1`).
		WillReturnError(errors.New("db down"))

	_, err := store.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
}

func TestFindByID(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(3, "b@x.com", "Bob", "Roe", "$2a$12$hash", time.Now(), time.Now()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	u, err := store.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", u.Email)

	_, err = store.FindByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmailExists(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE lower\(email\) = \$1`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE lower\(email\) = \$1`).
		WithArgs("new@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := store.EmailExists(context.Background(), "A@x.COM")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.EmailExists(context.Background(), "new@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Success(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	u := &User{
		Email:        "a@x.com",
		FirstName:    "Alice",
		LastName:     "Doe",
		PasswordHash: "$2a$12$hash",
		DateOfBirth:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		RegisteredAt: time.Now(),
	}
	require.NoError(t, store.Create(context.Background(), u))
	assert.Equal(t, uint64(42), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"pgx", &pgconn.PgError{Code: pgerrcode.UniqueViolation}},
		{"lib/pq", &pq.Error{Code: pgerrcode.UniqueViolation}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newStoreWithMock(t)
			mock.ExpectQuery(`INSERT INTO "users"`).WillReturnError(tc.err)

			err := store.Create(context.Background(), &User{Email: "a@x.com", RegisteredAt: time.Now()})
			assert.ErrorIs(t, err, ErrEmailTaken)
		})
	}
}

func TestCreate_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})

	err := store.Create(context.Background(), &User{Email: "a@x.com", RegisteredAt: time.Now()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}
