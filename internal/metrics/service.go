package metrics

import (
	"sync"
	"time"
)

// Window labels, in reporting order.
const (
	WindowOneMinute  = "1m"
	WindowFiveMinute = "5m"
	WindowOneHour    = "1h"
)

var windowDurations = []struct {
	label    string
	duration time.Duration
}{
	{WindowOneMinute, time.Minute},
	{WindowFiveMinute, 5 * time.Minute},
	{WindowOneHour, time.Hour},
}

// ServiceMetrics aggregates everything recorded for one named service:
// success/failure totals, a sliding latency tracker, and the 1m/5m/1h
// windows. Each instance has its own lock so different services never
// block each other.
type ServiceMetrics struct {
	mu      sync.Mutex
	name    string
	counter Counter
	latency *LatencyTracker
	windows []*Window
}

func NewServiceMetrics(name string, latencyCapacity, windowCapacity int, latencyWindow time.Duration) *ServiceMetrics {
	sm := &ServiceMetrics{
		name:    name,
		latency: NewLatencyTracker(latencyCapacity, latencyWindow),
	}
	for _, wd := range windowDurations {
		sm.windows = append(sm.windows, NewWindow(wd.duration, windowCapacity))
	}
	return sm
}

func (sm *ServiceMetrics) Name() string { return sm.name }

// RecordSuccess counts one successful operation. The latency sample is
// stored only when positive.
func (sm *ServiceMetrics) RecordSuccess(latency time.Duration) {
	sm.record(latency, true)
}

// RecordFailure counts one failed operation. The latency sample is stored
// only when positive.
func (sm *ServiceMetrics) RecordFailure(latency time.Duration) {
	sm.record(latency, false)
}

func (sm *ServiceMetrics) record(latency time.Duration, success bool) {
	now := time.Now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if success {
		sm.counter.RecordSuccess()
	} else {
		sm.counter.RecordFailure()
	}

	if latency <= 0 {
		return
	}

	ms := float64(latency) / float64(time.Millisecond)
	sm.latency.Record(ms, now)
	for _, w := range sm.windows {
		w.Record(ms, now)
	}
}

// ServiceSnapshot is the full JSON view of one service's metrics.
type ServiceSnapshot struct {
	Name     string                  `json:"name"`
	Requests CounterSnapshot         `json:"requests"`
	Latency  LatencyStats            `json:"latency"`
	Windows  map[string]LatencyStats `json:"windows"`
}

func (sm *ServiceMetrics) Snapshot() ServiceSnapshot {
	now := time.Now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	snap := ServiceSnapshot{
		Name:     sm.name,
		Requests: sm.counter.Snapshot(),
		Latency:  sm.latency.Stats(now),
		Windows:  make(map[string]LatencyStats, len(sm.windows)),
	}
	for i, wd := range windowDurations {
		snap.Windows[wd.label] = sm.windows[i].Stats(now)
	}
	return snap
}

// Reset replaces counters and rings while preserving the instance's
// registry identity.
func (sm *ServiceMetrics) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.counter.Reset()
	sm.latency.Reset()
	for _, w := range sm.windows {
		w.Reset()
	}
}
