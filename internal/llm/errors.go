package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrMissingCredential indicates no API key is configured for the selected
// provider. No request is attempted.
var ErrMissingCredential = errors.New("missing API credential")

// TransportError indicates a non-2xx response or a network failure. For a
// network failure StatusCode is 0 and Err holds the cause.
type TransportError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport error: %v", e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("transport error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("transport error: HTTP %d: %s", e.StatusCode, truncateBody(e.Body, 200))
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth retrying: network errors,
// 429 and 5xx.
func (e *TransportError) Retryable() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}

// UnexpectedShapeError indicates a success response without the expected
// nested text.
type UnexpectedShapeError struct {
	Raw json.RawMessage
	Err error
}

func (e *UnexpectedShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: %v", e.Err)
}

func (e *UnexpectedShapeError) Unwrap() error { return e.Err }

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncateBody(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
