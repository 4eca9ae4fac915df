package circuitbreaker

import "sync"

// Registry hands out one breaker per protected operation name. Defaults
// given at construction (logger, reporter, observers) apply to every
// breaker it creates.
type Registry struct {
	mutex    sync.RWMutex
	breakers map[string]*CircuitBreaker
	defaults []Option
}

func NewRegistry(defaults ...Option) *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		defaults: defaults,
	}
}

// GetBreaker returns the breaker for name, creating it with the registry
// defaults plus opts on first access.
func (r *Registry) GetBreaker(name string, opts ...Option) (*CircuitBreaker, error) {
	r.mutex.RLock()
	cb, exists := r.breakers[name]
	r.mutex.RUnlock()

	if exists {
		return cb, nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double-check: another goroutine may have created it
	if cb, exists = r.breakers[name]; exists {
		return cb, nil
	}

	cb, err := New(name, append(append([]Option{}, r.defaults...), opts...)...)
	if err != nil {
		return nil, err
	}
	r.breakers[name] = cb
	return cb, nil
}

// Get returns the breaker for name without creating one.
func (r *Registry) Get(name string) (*CircuitBreaker, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	cb, exists := r.breakers[name]
	return cb, exists
}

// Stats returns a snapshot of every registered breaker, keyed by name.
func (r *Registry) Stats() map[string]Snapshot {
	stats := make(map[string]Snapshot)
	for _, cb := range r.all() {
		stats[cb.Name()] = cb.Snapshot()
	}
	return stats
}

// ResetAll resets every registered breaker to CLOSED.
func (r *Registry) ResetAll() {
	for _, cb := range r.all() {
		cb.Reset()
	}
}

// Close cancels the recovery timers of every registered breaker.
func (r *Registry) Close() {
	for _, cb := range r.all() {
		cb.Close()
	}
}

func (r *Registry) all() []*CircuitBreaker {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	out := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		out = append(out, cb)
	}
	return out
}
