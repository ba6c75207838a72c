package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the signin CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "signin - account registration and login server",
		Long: `signin serves HTML registration and login forms backed by
PostgreSQL, with signed cookie sessions.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
