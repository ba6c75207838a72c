package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"signin/internal/config"
	"signin/internal/db"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table and its indexes",
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cmd.Println("Connecting to database...")
	gdb, err := db.Connect(cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	cmd.Println("Running migrations...")
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return oops.With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migrations completed successfully")
	return nil
}
