package api

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned when the server rejects the access token.
// Callers should refresh the session and retry.
var ErrAuthExpired = errors.New("access token expired")

// TransientError wraps failures worth retrying: network errors,
// timeouts and 5xx responses.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// ValidationError is returned for 400/422 responses. Retrying the same
// request will not help.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}
