// Package main is the entry point for the resource feed server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/resource-feed/internal/adapters/flags"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/platform/config"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
	"github.com/jsamuelsen/resource-feed/internal/platform/ratelimit"
	"github.com/jsamuelsen/resource-feed/internal/platform/telemetry"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// limiterIdleTTL is how long a submitter's bucket survives without use.
const limiterIdleTTL = 10 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
		slog.String("session", cfg.Session.Provider),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry(ports.DefaultCheckTimeout)

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	sessions, err := newSessionProvider(cfg, logger)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.close()

	if err := healthRegistry.Register(publisher); err != nil {
		return fmt.Errorf("registering events health check: %w", err)
	}

	metrics, err := telemetry.NewFeedMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	featureFlags := flags.NewStatic(cfg.Features, logger)

	limiter := ratelimit.New(ratelimit.PerMinute(cfg.Submissions.RatePerMinute), cfg.Submissions.Burst, limiterIdleTTL)
	defer limiter.Stop()

	feed := app.NewFeedService(app.FeedServiceConfig{
		Store:   store,
		Flags:   featureFlags,
		Metrics: metrics,
		Logger:  logger,
	})

	var submissions handlers.Submitter
	if sessions != nil {
		submissions = app.NewSubmissionService(app.SubmissionServiceConfig{
			Store:   store,
			Events:  publisher,
			Flags:   featureFlags,
			Limiter: limiter,
			Metrics: metrics,
			Logger:  logger,
		})
	}

	site := views.Site{
		Title:       cfg.Site.Title,
		BaseURL:     cfg.Site.BaseURL,
		AnalyticsID: cfg.Site.AnalyticsID,
		SignInURL:   cfg.Session.SignInURL,
		Taglines:    cfg.Site.Taglines,
	}

	renderer, err := views.New(site, views.NewMarkdown())
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	buildInfo := handlers.NewBuildInfo(cfg.App.Name, Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:        logger,
		ServiceName:   cfg.App.Name,
		Renderer:      renderer,
		Site:          site,
		Feed:          feed,
		Submissions:   submissions,
		Sessions:      sessions,
		SessionCookie: cfg.Session.CookieName,
		Health:        handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		Timeout:       cfg.Server.RequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// waitForShutdown blocks until a signal arrives or the server fails, then
// drains in-flight requests.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
