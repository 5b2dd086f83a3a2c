package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/resource-feed/internal/adapters/store/sqlstore"
	"github.com/jsamuelsen/resource-feed/internal/platform/config"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

type rootOptions struct {
	profile  string
	driver   string
	dsn      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "feedctl",
		Short:         "Administer the resource feed store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.profile, "profile", envOr("APP_ENVIRONMENT", "local"), "config profile to load")
	cmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "store driver (sqlite or postgres), overrides config")
	cmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "store DSN, overrides config")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")

	cmd.AddCommand(
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newSubmissionsCmd(opts),
	)

	return cmd
}

// openStore loads the profile, applies flag overrides and connects.
func (o *rootOptions) openStore(ctx context.Context) (*sqlstore.Store, *slog.Logger, error) {
	cfg, err := config.Load(o.profile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	driver, dsn := cfg.Store.Driver, cfg.Store.DSN
	if o.driver != "" {
		driver = o.driver
	}

	if o.dsn != "" {
		dsn = o.dsn
	}

	if driver == config.StoreDriverPostgREST {
		return nil, nil, fmt.Errorf("feedctl needs a SQL store, got driver %q", driver)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   o.logLevel,
		Format:  "pretty",
		Service: "feedctl",
		Version: cfg.App.Version,
	}, os.Stderr)

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver: driver,
		DSN:    dsn,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}

	return store, logger, nil
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, logger, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			logger.Info("schema up to date")

			return nil
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
