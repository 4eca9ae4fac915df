package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Blocking requests
	StateHalfOpen              // Testing recovery
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Metrics holds a breaker's request bookkeeping.
type Metrics struct {
	TotalRequests      int64     `json:"total_requests"`
	SuccessfulRequests int64     `json:"successful_requests"`
	FailedRequests     int64     `json:"failed_requests"`
	RejectedRequests   int64     `json:"rejected_requests"`
	LastFailureAt      time.Time `json:"last_failure_at"`
	LastSuccessAt      time.Time `json:"last_success_at"`
}

// StateChange describes one transition, delivered to observers.
type StateChange struct {
	Name    string
	From    State
	To      State
	Metrics Metrics
}

// Observer receives state transitions. Observer panics are recovered and
// logged, never propagated to the caller of Execute.
type Observer interface {
	OnStateChange(StateChange)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(StateChange)

func (f ObserverFunc) OnStateChange(c StateChange) { f(c) }

// Reporter receives per-call outcomes keyed by breaker name. The metrics
// Collector satisfies this; reported data never feeds back into gating.
type Reporter interface {
	RecordSuccess(name string, latency time.Duration)
	RecordFailure(name string, latency time.Duration)
}

// Operation is a call protected by a breaker. It must honor ctx, which
// carries the operation timeout.
type Operation func(ctx context.Context) error

// CircuitBreaker gates calls to one protected operation. Each instance has
// its own lock; breakers for different services never block each other.
type CircuitBreaker struct {
	name     string
	settings Settings

	mutex         sync.Mutex
	state         State
	failureCount  int
	successCount  int
	nextAttemptAt time.Time
	metrics       Metrics
	recoveryTimer *time.Timer

	observers []Observer
	reporter  Reporter
	logger    *slog.Logger
}

// New creates a closed breaker with the given name. Defaults match the HTTP
// service preset; options override them. Invalid settings are rejected.
func New(name string, opts ...Option) (*CircuitBreaker, error) {
	cb := &CircuitBreaker{
		name:     name,
		settings: httpPreset,
		state:    StateClosed,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(cb)
	}
	if err := cb.settings.Validate(); err != nil {
		return nil, err
	}
	return cb, nil
}

func (cb *CircuitBreaker) Name() string { return cb.name }

// Settings returns the effective configuration. Settings are fixed at
// construction, so no lock is needed.
func (cb *CircuitBreaker) Settings() Settings { return cb.settings }

func (cb *CircuitBreaker) State() State {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Healthy reports whether the breaker is closed.
func (cb *CircuitBreaker) Healthy() bool {
	return cb.State() == StateClosed
}

// SuccessRate returns the percentage of attempted calls that succeeded,
// 100 when nothing has been attempted yet.
func (cb *CircuitBreaker) SuccessRate() float64 {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return successRate(cb.metrics)
}

func (cb *CircuitBreaker) Metrics() Metrics {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.metrics
}

// Execute runs op under the breaker's protection: it rejects while open,
// races op against the operation timeout, records the outcome, and
// re-raises the failure. Errors are one of *OpenError, *TimeoutError or
// *OperationError.
func (cb *CircuitBreaker) Execute(ctx context.Context, op Operation) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	start := time.Now()
	err := cb.run(ctx, op)
	elapsed := time.Since(start)

	cb.afterCall(err, elapsed)

	if err == nil {
		return nil
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return err
	}
	return &OperationError{Name: cb.name, Duration: elapsed, Err: err}
}

// Do runs a value-returning operation under cb's protection.
func Do[T any](ctx context.Context, cb *CircuitBreaker, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.metrics.TotalRequests++

	if cb.state == StateOpen {
		if time.Now().Before(cb.nextAttemptAt) {
			cb.metrics.RejectedRequests++
			return &OpenError{Name: cb.name, RetryAt: cb.nextAttemptAt}
		}
		// Reset window elapsed: let this call probe the dependency.
		cb.transition(StateHalfOpen)
	}
	return nil
}

func (cb *CircuitBreaker) run(ctx context.Context, op Operation) error {
	opCtx := ctx
	cancel := context.CancelFunc(func() {})
	if cb.settings.OperationTimeout > 0 {
		opCtx, cancel = context.WithTimeout(ctx, cb.settings.OperationTimeout)
	}
	defer cancel()

	// Buffered so a completed-but-late operation result is discarded
	// instead of being applied after the timeout path already recorded
	// a failure.
	done := make(chan error, 1)
	go func() { done <- op(opCtx) }()

	select {
	case err := <-done:
		return err
	case <-opCtx.Done():
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Name: cb.name, Timeout: cb.settings.OperationTimeout}
		}
		return opCtx.Err()
	}
}

func (cb *CircuitBreaker) afterCall(err error, elapsed time.Duration) {
	cb.mutex.Lock()

	if err == nil {
		cb.metrics.SuccessfulRequests++
		cb.metrics.LastSuccessAt = time.Now()
		cb.onSuccess()
	} else {
		cb.metrics.FailedRequests++
		cb.metrics.LastFailureAt = time.Now()
		cb.onFailure()
	}

	reporter := cb.reporter
	cb.mutex.Unlock()

	if reporter == nil {
		return
	}
	if err == nil {
		reporter.RecordSuccess(cb.name, elapsed)
	} else {
		reporter.RecordFailure(cb.name, elapsed)
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		// Threshold counts failures since the last success.
		cb.failureCount = 0
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.settings.SuccessThreshold {
			cb.transition(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.settings.FailureThreshold {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		// One failure ends the probe; accumulated successes are lost.
		cb.transition(StateOpen)
	}
}

// transition moves the breaker to a new state, resets both counters,
// schedules the next attempt when opening, and notifies observers. Callers
// must hold the mutex.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	cb.state = to
	cb.failureCount = 0
	cb.successCount = 0

	if cb.recoveryTimer != nil {
		cb.recoveryTimer.Stop()
		cb.recoveryTimer = nil
	}

	if to == StateOpen {
		cb.nextAttemptAt = time.Now().Add(cb.settings.ResetTimeout)
		// Informational only; the OPEN to HALF_OPEN move happens lazily
		// on the next call.
		cb.recoveryTimer = time.AfterFunc(cb.settings.ResetTimeout, func() {
			cb.logger.Debug("reset window elapsed", slog.String("breaker", cb.name))
		})
	}

	cb.logger.Info("circuit breaker state change",
		slog.String("breaker", cb.name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))

	change := StateChange{Name: cb.name, From: from, To: to, Metrics: cb.metrics}
	for _, o := range cb.observers {
		cb.notify(o, change)
	}
}

func (cb *CircuitBreaker) notify(o Observer, change StateChange) {
	defer func() {
		if r := recover(); r != nil {
			cb.logger.Error("state change observer panicked",
				slog.String("breaker", cb.name),
				slog.Any("panic", r))
		}
	}()
	o.OnStateChange(change)
}

// ForceOpen opens the breaker regardless of recorded outcomes. Transition
// side effects still run.
func (cb *CircuitBreaker) ForceOpen() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.transition(StateOpen)
}

// ForceClose closes the breaker regardless of recorded outcomes. Transition
// side effects still run.
func (cb *CircuitBreaker) ForceClose() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.transition(StateClosed)
}

// Reset returns the breaker to CLOSED and zeroes all counters and metrics.
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.state != StateClosed {
		cb.transition(StateClosed)
	}
	cb.failureCount = 0
	cb.successCount = 0
	cb.nextAttemptAt = time.Time{}
	cb.metrics = Metrics{}
	if cb.recoveryTimer != nil {
		cb.recoveryTimer.Stop()
		cb.recoveryTimer = nil
	}
}

// Close cancels any pending recovery timer. Call on shutdown.
func (cb *CircuitBreaker) Close() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if cb.recoveryTimer != nil {
		cb.recoveryTimer.Stop()
		cb.recoveryTimer = nil
	}
}

// Snapshot is the read-only operator view of one breaker.
type Snapshot struct {
	Name        string  `json:"name"`
	State       string  `json:"state"`
	SuccessRate float64 `json:"success_rate"`
	Metrics     Metrics `json:"metrics"`
}

func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return Snapshot{
		Name:        cb.name,
		State:       cb.state.String(),
		SuccessRate: successRate(cb.metrics),
		Metrics:     cb.metrics,
	}
}

func successRate(m Metrics) float64 {
	attempted := m.SuccessfulRequests + m.FailedRequests
	if attempted == 0 {
		return 100
	}
	return float64(m.SuccessfulRequests) / float64(attempted) * 100
}
