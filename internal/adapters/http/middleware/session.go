package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/app/scope"
	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
	"github.com/jsamuelsen/resource-feed/internal/ports"
)

const (
	contextKeySessionToken    = "session_token"
	contextKeySessionProvider = "session_provider"
	contextKeyUserLogged      = "session_user_logged"

	userScopeKey = "session.user"
)

// RequestScope attaches a request scope to the context. Lookups memoized
// through the scope (session user, sidebar tags) run once per request.
func RequestScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := scope.New(c.Request.Context())
		c.Request = c.Request.WithContext(scope.WithContext(c.Request.Context(), s))
		c.Next()
	}
}

// Session records the visitor's session token. The token comes from the
// named cookie, else from an "Authorization: Bearer" header. The user is
// resolved lazily by CurrentUser, so pages that never ask cost nothing.
func Session(provider ports.SessionProvider, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider != nil {
			c.Set(contextKeySessionProvider, provider)
			c.Set(contextKeySessionToken, sessionToken(c, cookieName))
		}

		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v
		}
	}

	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// CurrentUser returns the signed-in visitor, or nil for anonymous visitors.
// The provider is asked at most once per request when RequestScope runs.
func CurrentUser(c *gin.Context) (*domain.User, error) {
	v, ok := c.Get(contextKeySessionProvider)
	if !ok {
		return nil, nil
	}

	provider, _ := v.(ports.SessionProvider)
	token := c.GetString(contextKeySessionToken)

	if provider == nil || token == "" {
		return nil, nil
	}

	ctx := c.Request.Context()

	user, err := scope.Memo(ctx, scope.FromContext(ctx), userScopeKey,
		func(ctx context.Context) (*domain.User, error) {
			return provider.CurrentUser(ctx, token)
		})
	if err != nil {
		return nil, err
	}

	if user != nil && !c.GetBool(contextKeyUserLogged) {
		c.Set(contextKeyUserLogged, true)
		c.Request = c.Request.WithContext(logging.WithUserID(c.Request.Context(), user.ID))
	}

	return user, nil
}

// OptionalUser is CurrentUser for pages: a provider failure is logged and
// the visitor is shown the anonymous page.
func OptionalUser(c *gin.Context) *domain.User {
	user, err := CurrentUser(c)
	if err != nil {
		logging.FromContext(c.Request.Context()).Warn("session lookup failed", slog.Any("error", err))

		return nil
	}

	return user
}

// RequireUser aborts with an unauthorized error unless someone is signed in.
func RequireUser(operation string, respond ErrorResponder) gin.HandlerFunc {
	respond = orJSON(respond)

	return func(c *gin.Context) {
		user, err := CurrentUser(c)

		switch {
		case err != nil:
			respond(c, err)
		case user == nil:
			respond(c, domain.NewUnauthorizedError(operation))
		default:
			c.Next()
		}
	}
}
