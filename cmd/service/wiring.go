package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
	"github.com/jsamuelsen/resource-feed/internal/adapters/clients/acl"
	"github.com/jsamuelsen/resource-feed/internal/adapters/events"
	"github.com/jsamuelsen/resource-feed/internal/adapters/session"
	"github.com/jsamuelsen/resource-feed/internal/adapters/store/sqlstore"
	"github.com/jsamuelsen/resource-feed/internal/platform/config"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

// backend is whichever store serves both resources and submissions.
type backend struct {
	ports.ResourceStore
	ports.SubmissionStore
	ports.HealthChecker

	close func()
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgREST:
		client, err := supabaseClient(cfg, "postgrest", acl.PostgRESTPath, logger)
		if err != nil {
			return nil, err
		}

		store := acl.NewPostgRESTStore(client, logger)

		return &backend{ResourceStore: store, SubmissionStore: store, HealthChecker: store, close: func() {}}, nil

	default:
		store, err := sqlstore.Open(ctx, sqlstore.Options{
			Driver:          cfg.Store.Driver,
			DSN:             cfg.Store.DSN,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
			Logger:          logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}

		if cfg.Store.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()

				return nil, fmt.Errorf("migrating store: %w", err)
			}
		}

		closeStore := func() {
			if err := store.Close(); err != nil {
				logger.Error("store close error", slog.Any("error", err))
			}
		}

		return &backend{ResourceStore: store, SubmissionStore: store, HealthChecker: store, close: closeStore}, nil
	}
}

// newSessionProvider returns nil when sign-in is disabled.
func newSessionProvider(cfg *config.Config, logger *slog.Logger) (ports.SessionProvider, error) {
	switch cfg.Session.Provider {
	case config.SessionProviderJWT:
		provider, err := session.NewJWT(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, logger)
		if err != nil {
			return nil, fmt.Errorf("creating jwt session provider: %w", err)
		}

		return provider, nil

	case config.SessionProviderRemote:
		client, err := supabaseClient(cfg, "supabase-auth", "", logger)
		if err != nil {
			return nil, err
		}

		return acl.NewSupabaseSession(client, logger), nil

	default:
		return nil, nil
	}
}

func supabaseClient(cfg *config.Config, service, path string, logger *slog.Logger) (*clients.Client, error) {
	if cfg.Supabase.URL == "" {
		return nil, errors.New("supabase.url is required for " + service)
	}

	clientCfg := clients.FromAppConfig(cfg.Client, service, cfg.Supabase.URL+path)
	clientCfg.Headers = acl.SupabaseHeaders(cfg.Supabase.AnonKey)
	clientCfg.Logger = logger

	client, err := clients.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", service, err)
	}

	return client, nil
}

// publisher is the configured event sink plus its health check.
type publisher struct {
	ports.EventPublisher
	ports.HealthChecker

	close func()
}

func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*publisher, error) {
	if cfg.Events.Provider != config.EventsProviderRedis {
		p := events.NewLogPublisher()

		return &publisher{EventPublisher: p, HealthChecker: p, close: func() {}}, nil
	}

	p, err := events.NewRedisPublisher(ctx, events.RedisOptions{
		Addr:     cfg.Events.Redis.Addr,
		Password: cfg.Events.Redis.Password,
		DB:       cfg.Events.Redis.DB,
		Stream:   cfg.Events.Redis.Stream,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	closePublisher := func() {
		if err := p.Close(); err != nil {
			logger.Error("redis close error", slog.Any("error", err))
		}
	}

	return &publisher{EventPublisher: p, HealthChecker: p, close: closePublisher}, nil
}
