// Package clients provides the instrumented HTTP client used by adapters
// that talk to downstream services.
package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// Client errors are infrastructure failures. Adapters translate them into
// domain errors before they leave the adapter layer.
var (
	// ErrCircuitOpen is returned while the circuit breaker blocks requests.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last attempt's error once retries run out.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError records a server error response that exhausted the retries.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}

	return 0
}
