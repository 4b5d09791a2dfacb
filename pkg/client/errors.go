package client

import (
	"errors"
	"fmt"
)

// ErrContextCancelled is returned when the context is cancelled while
// waiting out a retry backoff or a shared in-flight request.
var ErrContextCancelled = errors.New("context cancelled")

// TransportError is returned by the transport for non-2xx responses and
// network failures. The client treats any transport error as retryable
// until the configured attempts are exhausted.
type TransportError struct {
	// StatusCode is the HTTP status code, 0 for network failures.
	StatusCode int

	// Endpoint is the requested API path.
	Endpoint string

	// Message is a short human-readable description.
	Message string

	// Body is the error response body, if one was read.
	Body []byte

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}
