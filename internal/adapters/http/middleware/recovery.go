package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// Recovery turns a panic into a 500 response written by respond (JSON when
// nil). The panic is logged with its stack trace on the request logger.
// It must run before every other middleware.
func Recovery(respond ErrorResponder) gin.HandlerFunc {
	respond = orJSON(respond)

	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			logging.FromContext(c.Request.Context()).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
			)

			if c.Writer.Written() {
				c.Abort()

				return
			}

			respond(c, fmt.Errorf("panic: %v", r))
		}()

		c.Next()
	}
}
