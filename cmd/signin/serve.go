package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"signin/internal/config"
	"signin/internal/db"
	httpx "signin/internal/http"
	"signin/internal/logging"
	"signin/internal/metrics"
	"signin/internal/session"
	"signin/internal/user"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on startup")

	return cmd
}

func runServe(ctx context.Context, skipMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup("signin", version, cfg.LogFormat, os.Stderr)

	gdb, err := db.Connect(cfg.DatabaseURL, cfg.DBDriver)
	if err != nil {
		logging.LogError(logger, "database connect failed", err)
		return err
	}
	defer func() { _ = db.Close(gdb) }()
	if !skipMigrate {
		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			logging.LogError(logger, "migration failed", err)
			return err
		}
	}

	sessions, err := session.NewManager(session.Options{
		Secrets: cfg.SessionSecrets,
		TTL:     cfg.SessionTTL,
		Secure:  cfg.CookieSecure,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	r, err := httpx.NewRouter(cfg, user.NewGormStore(gdb), sessions, metrics.New(), logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("HTTP_SERVE_FAILED").With("addr", cfg.HTTPAddr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return oops.Code("HTTP_SHUTDOWN_FAILED").Wrap(err)
	}
	return nil
}
