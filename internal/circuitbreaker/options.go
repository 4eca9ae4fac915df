package circuitbreaker

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Settings holds the tunable thresholds and timeouts of one breaker.
type Settings struct {
	FailureThreshold int           `json:"failure_threshold"`
	SuccessThreshold int           `json:"success_threshold"`
	ResetTimeout     time.Duration `json:"reset_timeout"`
	OperationTimeout time.Duration `json:"operation_timeout"`
}

func (s Settings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.FailureThreshold, validation.Required, validation.Min(1)),
		validation.Field(&s.SuccessThreshold, validation.Required, validation.Min(1)),
		validation.Field(&s.ResetTimeout, validation.Min(time.Duration(0))),
		validation.Field(&s.OperationTimeout, validation.Min(time.Duration(0))),
	)
}

// Option overrides one construction default.
type Option func(*CircuitBreaker)

func WithFailureThreshold(n int) Option {
	return func(cb *CircuitBreaker) { cb.settings.FailureThreshold = n }
}

func WithSuccessThreshold(n int) Option {
	return func(cb *CircuitBreaker) { cb.settings.SuccessThreshold = n }
}

func WithResetTimeout(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.settings.ResetTimeout = d }
}

func WithOperationTimeout(d time.Duration) Option {
	return func(cb *CircuitBreaker) { cb.settings.OperationTimeout = d }
}

func WithSettings(s Settings) Option {
	return func(cb *CircuitBreaker) { cb.settings = s }
}

// WithObserver attaches an additional state change listener.
func WithObserver(o Observer) Option {
	return func(cb *CircuitBreaker) { cb.observers = append(cb.observers, o) }
}

// WithReporter wires call outcomes into a metric service.
func WithReporter(r Reporter) Option {
	return func(cb *CircuitBreaker) { cb.reporter = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(cb *CircuitBreaker) {
		if l != nil {
			cb.logger = l
		}
	}
}
