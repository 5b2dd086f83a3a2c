// Package dto holds the JSON shapes of the API and the error envelope
// shared by the API and the HTML pages.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/resource-feed/internal/domain"
	"github.com/jsamuelsen/resource-feed/internal/platform/logging"
)

// ErrorResponse is the error envelope of every API error.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code such as "NOT_FOUND".
	Code string `json:"code"`

	// Message is safe to show to visitors.
	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeNotFound     = "NOT_FOUND"
	ErrorCodeConflict     = "CONFLICT"
	ErrorCodeValidation   = "VALIDATION_ERROR"
	ErrorCodeUnauthorized = "UNAUTHORIZED"
	ErrorCodeRateLimited  = "RATE_LIMITED"
	ErrorCodeUnavailable  = "SERVICE_UNAVAILABLE"
	ErrorCodeInternal     = "INTERNAL_ERROR"
	ErrorCodeTimeout      = "TIMEOUT"
	ErrorCodeBadRequest   = "BAD_REQUEST"
)

// Messages for errors whose details must not reach visitors.
const (
	MessageInternal    = "an internal error occurred"
	MessageUnavailable = "the service is temporarily unavailable"
	MessageRateLimited = "too many submissions, please try again later"
	MessageTimeout     = "request timeout exceeded"
)

// Gin context keys GetTraceID reads.
const (
	ContextKeyTraceID   = "trace_id"
	ContextKeyRequestID = "request_id"
)

// NewErrorResponse creates an error envelope.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// NewErrorResponseWithDetails creates an error envelope with field details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorDetail{Code: code, Message: message, Details: details}}
}

// WithTraceID sets the trace ID and returns the response for chaining.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID

	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps an error to an HTTP status and envelope. Messages come
// from the innermost domain error so wrapping never leaks into responses.
// Errors that are not domain errors become a generic 500.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var (
		notFound     *domain.NotFoundError
		conflict     *domain.ConflictError
		validation   *domain.ValidationError
		unauthorized *domain.UnauthorizedError
	)

	switch {
	case isRequestError(err):
		return http.StatusBadRequest, NewErrorResponseWithDetails(ErrorCodeValidation, "invalid request", ValidationErrors(err))

	case errors.As(err, &notFound):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, notFound.Error())

	case errors.As(err, &conflict):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, conflict.Error())

	case errors.As(err, &validation):
		resp := NewErrorResponse(ErrorCodeValidation, validation.Error())
		if validation.Field != "" {
			resp.Error.Details = map[string]string{validation.Field: validation.Message}
		}

		return http.StatusBadRequest, resp

	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, NewErrorResponse(ErrorCodeUnauthorized, unauthorized.Error())

	case domain.IsRateLimited(err):
		return http.StatusTooManyRequests, NewErrorResponse(ErrorCodeRateLimited, MessageRateLimited)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(ErrorCodeUnavailable, MessageUnavailable)

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, "not found")

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, MessageTimeout)

	default:
		return http.StatusInternalServerError, NewErrorResponse(ErrorCodeInternal, MessageInternal)
	}
}

// GetTraceID returns the trace ID for error envelopes: the trace_id set on
// the gin context, then the active span's trace, then the request ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(ContextKeyTraceID); ok {
		s, _ := v.(string)

		return s
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}

	return c.GetHeader("X-Request-ID")
}

// HandleError writes err as a JSON error envelope. Server-side failures are
// logged with the request logger.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.AbortWithStatusJSON(status, resp)
}
