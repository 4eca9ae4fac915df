package circuitbreaker

import (
	"errors"
	"fmt"
	"time"
)

// OpenError is returned when a call is rejected without being attempted
// because the breaker is open. The call may be retried after RetryAt.
type OpenError struct {
	Name    string
	RetryAt time.Time
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker %q is open, retry after %s", e.Name, e.RetryAt.Format(time.RFC3339))
}

// TimeoutError is returned when the wrapped operation did not complete
// within the breaker's operation timeout. The attempt was made; whether it
// is retryable is up to the caller.
type TimeoutError struct {
	Name    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("circuit breaker %q: operation timed out after %s", e.Name, e.Timeout)
}

// OperationError wraps the operation's own failure with the breaker name
// and observed duration. The inner error is reachable through errors.Is
// and errors.As.
type OperationError struct {
	Name     string
	Duration time.Duration
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("circuit breaker %q: operation failed after %s: %v", e.Name, e.Duration, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// IsOpen reports whether err is a breaker-open rejection.
func IsOpen(err error) bool {
	var oe *OpenError
	return errors.As(err, &oe)
}

// IsTimeout reports whether err is an operation timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
