package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/resource-feed/internal/adapters/clients"
	"github.com/jsamuelsen/resource-feed/internal/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// pgUniqueViolation is the SQLSTATE PostgREST passes through for duplicate keys.
const pgUniqueViolation = "23505"

// ErrorResponse is the union of the PostgREST and GoTrue error bodies.
//
//	PostgREST: {"code":"23505","message":"...","details":"...","hint":null}
//	GoTrue:    {"error":"invalid_grant","error_description":"..."} or {"code":401,"msg":"..."}
type ErrorResponse struct {
	Code             json.RawMessage `json:"code,omitempty"`
	Message          string          `json:"message,omitempty"`
	Details          string          `json:"details,omitempty"`
	Hint             string          `json:"hint,omitempty"`
	Error            string          `json:"error,omitempty"`
	ErrorDescription string          `json:"error_description,omitempty"`
	Msg              string          `json:"msg,omitempty"`
}

// GetCode returns the code as a string whether it was sent as text or a number.
func (e *ErrorResponse) GetCode() string {
	if len(e.Code) == 0 {
		return e.Error
	}

	var s string
	if err := json.Unmarshal(e.Code, &s); err == nil {
		return s
	}

	return string(e.Code)
}

// GetMessage returns the most descriptive message present.
func (e *ErrorResponse) GetMessage() string {
	for _, m := range []string{e.Message, e.ErrorDescription, e.Msg, e.Details} {
		if m != "" {
			return m
		}
	}

	return ""
}

// ParseErrorResponse decodes an error body. It returns nil when the body is
// empty or not one of the known shapes.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&errResp); err != nil {
		return nil
	}

	if errResp.GetCode() == "" && errResp.GetMessage() == "" {
		return nil
	}

	return &errResp
}

// Target names what a failed call was operating on, for error messages.
type Target struct {
	Service   string
	Operation string
	Entity    string
	ID        string
}

// MapHTTPError converts a failed call into a domain error. clientErr takes
// precedence; otherwise resp must carry a non-2xx status. The body of resp
// is read but not closed.
func MapHTTPError(resp *http.Response, clientErr error, target Target) error {
	if clientErr != nil {
		return mapClientError(clientErr, target)
	}

	if resp == nil {
		return domain.NewUnavailableError(target.Service, "no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return mapStatusCode(resp.StatusCode, ParseErrorResponse(resp.Body), target)
}

func mapClientError(err error, target Target) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(target.Service,
			fmt.Sprintf("circuit breaker open during %s", target.Operation))
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(target.Service,
			fmt.Sprintf("max retries exceeded during %s", target.Operation))
	default:
		return domain.NewUnavailableError(target.Service,
			fmt.Sprintf("%s failed: %v", target.Operation, err))
	}
}

func mapStatusCode(status int, errResp *ErrorResponse, target Target) error {
	message := fmt.Sprintf("%s failed with status %d", target.Operation, status)
	if errResp != nil && errResp.GetMessage() != "" {
		message = errResp.GetMessage()
	}

	if errResp != nil && errResp.GetCode() == pgUniqueViolation {
		return domain.NewConflictError(target.Entity, message)
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusNotAcceptable:
		// PostgREST answers 406 when a single object was requested and none matched.
		return domain.NewNotFoundError(target.Entity, target.ID)
	case status == http.StatusConflict:
		return domain.NewConflictError(target.Entity, message)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewUnauthorizedError(target.Operation)
	case status == http.StatusTooManyRequests:
		return domain.NewRateLimitedError(target.Service)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.NewValidationError("", message)
	default:
		return domain.NewUnavailableError(target.Service, message)
	}
}
