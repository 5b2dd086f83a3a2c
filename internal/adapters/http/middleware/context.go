// Package middleware holds the gin middleware of the feed: request and
// correlation ids, logging, panic recovery, deadlines and sessions.
package middleware

import "context"

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// ContextWithRequestID stores the request id for code that only sees a
// context.Context, such as downstream HTTP clients.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID is ContextWithRequestID for the correlation id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// RequestIDFromContext returns the request id, or "" for a nil or bare context.
func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationIDKey)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
