package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// Timeout puts a deadline on the request context. Handlers stop at the
// deadline by honoring ctx; when one returns without writing a response
// after the deadline passed, respond writes a timeout error (JSON when nil).
// Paths starting with one of skipPrefixes get no deadline.
func Timeout(timeout time.Duration, respond ErrorResponder, skipPrefixes ...string) gin.HandlerFunc {
	respond = orJSON(respond)

	return func(c *gin.Context) {
		if timeout <= 0 || hasAnyPrefix(c.Request.URL.Path, skipPrefixes) {
			c.Next()

			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return
		}

		logging.FromContext(ctx).Warn("request timeout",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("timeout", timeout),
		)

		if !c.Writer.Written() {
			respond(c, context.DeadlineExceeded)
		}
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
