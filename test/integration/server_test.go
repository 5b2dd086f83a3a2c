//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/resource-feed/internal/adapters/events"
	"github.com/jsamuelsen/resource-feed/internal/adapters/flags"
	feedhttp "github.com/jsamuelsen/resource-feed/internal/adapters/http"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/adapters/session"
	"github.com/jsamuelsen/resource-feed/internal/adapters/store/sqlstore"
	"github.com/jsamuelsen/resource-feed/internal/app"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/config"
	"github.com/jsamuelsen/resource-feed/internal/platform/ratelimit"
	"github.com/jsamuelsen/resource-feed/internal/platform/telemetry"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

const jwtSecret = "integration-secret"

// submissionBurst is how many submissions one user gets before being limited.
const submissionBurst = 2

type seedResource struct {
	title, url, description string
	day                     int
	tags                    []string
}

var (
	seedTags = map[string]string{
		"official":  "Official",
		"tutorials": "Tutorials",
		"packages":  "Packages",
	}

	seedResources = []seedResource{
		{"Go documentation", "https://go.dev/doc", "The **official** docs.", 1, []string{"official"}},
		{"Tour of Go", "https://go.dev/tour", "", 2, []string{"official", "tutorials"}},
		{"Testify", "https://github.com/stretchr/testify", "Assertions and mocks.", 3, []string{"packages"}},
		{"Broken link", "not a url", "", 4, []string{"tutorials"}},
	}
)

// feedServer is the whole application on a seeded SQLite file.
type feedServer struct {
	*httptest.Server

	store *sqlstore.Store
	jwt   *session.JWT
	dir   string
}

func newFeedServer(ctx context.Context, dir string) (*feedServer, error) {
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlstore.Open(ctx, sqlstore.Options{
		Driver: sqlstore.DriverSQLite,
		DSN:    "file:" + filepath.Join(dir, "feed.db"),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}

	if err := seed(ctx, store); err != nil {
		return nil, err
	}

	verifier, err := session.NewJWT(jwtSecret, "", logger)
	if err != nil {
		return nil, err
	}

	metrics, err := telemetry.NewFeedMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}

	featureFlags := flags.NewStatic(map[string]any{"submissions": true}, logger)

	feed := app.NewFeedService(app.FeedServiceConfig{Store: store, Flags: featureFlags, Metrics: metrics, Logger: logger})
	submissions := app.NewSubmissionService(app.SubmissionServiceConfig{
		Store:   store,
		Events:  events.NewLogPublisher(),
		Flags:   featureFlags,
		Limiter: ratelimit.New(ratelimit.PerMinute(1), submissionBurst, 0),
		Metrics: metrics,
		Logger:  logger,
	})

	site := views.Site{Title: "Resource Feed", Taglines: []string{"Pick something to read."}}

	renderer, err := views.New(site, nil)
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry(time.Second)
	if err := registry.Register(store); err != nil {
		return nil, err
	}

	engine := gin.New()
	feedhttp.SetupRouter(engine, feedhttp.RouterConfig{
		Logger:        logger,
		ServiceName:   "resource-feed-integration",
		Renderer:      renderer,
		Site:          site,
		Feed:          feed,
		Submissions:   submissions,
		Sessions:      verifier,
		SessionCookie: config.DefaultSessionCookie,
		Health:        handlers.NewHealthHandler(registry, handlers.NewBuildInfo("resource-feed", "test", "", ""), prometheus.NewRegistry()),
		Timeout:       5 * time.Second,
	})

	return &feedServer{Server: httptest.NewServer(engine), store: store, jwt: verifier, dir: dir}, nil
}

func seed(ctx context.Context, store *sqlstore.Store) error {
	tagIDs := make(map[string]int64, len(seedTags))

	for slug, name := range seedTags {
		id, err := store.UpsertTag(ctx, slug, name)
		if err != nil {
			return err
		}

		tagIDs[slug] = id
	}

	for _, r := range seedResources {
		ids := make([]int64, len(r.tags))
		for i, slug := range r.tags {
			ids[i] = tagIDs[slug]
		}

		err := store.CreateResource(ctx, &domain.Resource{
			Title:       r.title,
			Description: r.description,
			URL:         r.url,
			CreatedAt:   time.Date(2025, 3, r.day, 9, 0, 0, 0, time.UTC),
		}, ids)
		if err != nil {
			return err
		}
	}

	return nil
}

// token signs a session for a user named after id.
func (s *feedServer) token(id string) (string, error) {
	return s.jwt.Sign(domain.User{ID: id, Name: id, Email: id + "@example.com"}, time.Hour)
}

func (s *feedServer) Close() {
	s.Server.Close()
	_ = s.store.Close()
	_ = os.RemoveAll(s.dir)
}

// startFeedServer is the testing.T flavour used by plain tests.
func startFeedServer(t *testing.T) *feedServer {
	t.Helper()

	srv, err := newFeedServer(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("starting feed server: %v", err)
	}

	t.Cleanup(srv.Close)

	return srv
}
