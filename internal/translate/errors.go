package translate

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the API answered with a body that
// does not have the expected shape. Retrying the same request does not help.
var ErrMalformedResponse = errors.New("malformed response")

// TransientError wraps a failure that may succeed when the request is retried,
// such as a network error or a 5xx response.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError
func Transient(statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{StatusCode: statusCode, Err: err}
}

// Malformed wraps a description of the unexpected response with ErrMalformedResponse
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// IsTransient reports whether err should trigger a retry.
// A cancelled caller is never transient even when the cancellation surfaced
// through the HTTP client.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) || errors.Is(err, context.Canceled) {
		return false
	}
	var transient *TransientError
	return errors.As(err, &transient)
}
