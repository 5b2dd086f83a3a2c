package middleware

import (
	"context"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/dto"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one request; it is echoed on every response.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID carries a business transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key for the request id. Error
	// responses read it as their trace id.
	ContextKeyRequestID = dto.ContextKeyRequestID

	// ContextKeyCorrelationID is the gin context key for the correlation id.
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds inbound ids so clients cannot flood logs.
const maxIDLength = 128

type idKind struct {
	header string
	key    string

	// enrich copies the id into the request context for the logger and
	// for outbound calls.
	enrich []func(ctx context.Context, id string) context.Context
}

var (
	requestIDs = idKind{
		header: HeaderRequestID,
		key:    ContextKeyRequestID,
		enrich: []func(context.Context, string) context.Context{logging.WithRequestID, ContextWithRequestID},
	}
	correlationIDs = idKind{
		header: HeaderCorrelationID,
		key:    ContextKeyCorrelationID,
		enrich: []func(context.Context, string) context.Context{logging.WithCorrelationID, ContextWithCorrelationID},
	}
)

// RequestID reuses a well-formed inbound X-Request-ID or generates a UUID.
func RequestID() gin.HandlerFunc {
	return requestIDs.middleware()
}

// CorrelationID propagates X-Correlation-ID from upstream or starts a new one.
func CorrelationID() gin.HandlerFunc {
	return correlationIDs.middleware()
}

// GetRequestID returns the request id, or "" outside the middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation id, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if !usableID(id) {
			id = uuid.NewString()
		}

		c.Set(k.key, id)
		c.Header(k.header, id)

		ctx := c.Request.Context()
		for _, enrich := range k.enrich {
			ctx = enrich(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// usableID accepts printable ASCII up to maxIDLength.
func usableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for _, r := range id {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return false
		}
	}

	return true
}
