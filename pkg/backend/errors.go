package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingSession indicates no auth session is available. Identity loss
	// is not a connectivity problem, so this is always terminal.
	ErrMissingSession = errors.New("no active session")

	// ErrEmptyResponse indicates the backend reported success but omitted the
	// created workout entity.
	ErrEmptyResponse = errors.New("backend response missing workout entity")
)

// RequestError wraps a failed backend call. The transient flag is attached
// here, at the point the failure is produced, so the classifier does not have
// to guess from message text for errors that stay inside typed boundaries.
type RequestError struct {
	Op         string // Operation being performed (e.g., "CreateWorkout", "Upload")
	StatusCode int    // HTTP status, 0 for transport-level failures
	Body       string // Response body excerpt for status failures
	Transient  bool   // True for connectivity failures, safe to retry
	Err        error  // Underlying error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure is attributable to connectivity.
func (e *RequestError) IsTransient() bool {
	return e.Transient
}

// NewTransportError creates a transient request error for a failure that
// happened before any HTTP response arrived.
func NewTransportError(op string, err error) *RequestError {
	return &RequestError{
		Op:        op,
		Transient: true,
		Err:       err,
	}
}

// NewStatusError creates a terminal request error for a non-2xx response.
func NewStatusError(op string, statusCode int, body string) *RequestError {
	return &RequestError{
		Op:         op,
		StatusCode: statusCode,
		Body:       body,
	}
}
