package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/handlers"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/middleware"
	"github.com/jsamuelsen/resource-feed/internal/adapters/http/views"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/telemetry"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

// DefaultRequestTimeout applies when RouterConfig.Timeout is zero.
const DefaultRequestTimeout = 30 * time.Second

// APIPrefix is where the JSON API is mounted.
const APIPrefix = "/api/v1"

var errRouteNotFound = domain.NewNotFoundError("route", "")

// RouterConfig wires the handlers and middleware of the feed.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	Renderer *views.Renderer
	Site     views.Site

	Feed        handlers.FeedQueries
	Submissions handlers.Submitter

	// Sessions may be nil, in which case every visitor is anonymous.
	Sessions      ports.SessionProvider
	SessionCookie string

	Health *handlers.HealthHandler

	// Timeout is the per-request deadline. Operational endpoints have none.
	Timeout time.Duration
}

// SetupRouter installs the middleware chain and every route on engine.
// Middleware order, first to last:
//  1. Recovery
//  2. context logger, request ID, correlation ID
//  3. OpenTelemetry tracing and HTTP metrics
//  4. request logging (skips /-/)
//  5. timeout
//  6. request scope and session token
//
// Errors raised by middleware render an HTML page, except under APIPrefix
// where they use the JSON envelope.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}

	engine.HTMLRender = cfg.Renderer

	pages := handlers.NewPagesHandler(cfg.Feed, cfg.Submissions, cfg.Site)
	respond := errorResponder(pages)

	engine.Use(
		middleware.Recovery(respond),
		middleware.ContextLogger(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(
		middleware.Logging("/favicon.ico"),
		middleware.Timeout(cfg.Timeout, respond, middleware.OperationalPrefix),
		middleware.RequestScope(),
		middleware.Session(cfg.Sessions, cfg.SessionCookie),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine.Group("/-"))
	}

	pages.RegisterRoutes(engine)
	handlers.NewAPIHandler(cfg.Feed, cfg.Submissions).RegisterRoutes(engine.Group(APIPrefix))

	engine.NoRoute(func(c *gin.Context) {
		if isAPI(c) {
			middleware.JSONErrors(c, errRouteNotFound)

			return
		}

		pages.NotFound(c)
	})
}

func errorResponder(pages *handlers.PagesHandler) middleware.ErrorResponder {
	return func(c *gin.Context, err error) {
		if isAPI(c) {
			middleware.JSONErrors(c, err)

			return
		}

		pages.RenderError(c, err)
	}
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, APIPrefix+"/")
}
