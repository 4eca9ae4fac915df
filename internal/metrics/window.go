package metrics

import (
	"time"

	"github.com/angeloszaimis/mediaguard/internal/ring"
)

// cleanupInterval bounds how often a window physically evicts expired
// samples. Reads always filter by age, so eviction timing never affects
// reported statistics.
const cleanupInterval = 10 * time.Second

// Window aggregates latency samples over one rolling duration (e.g. the
// last 5 minutes). Eviction of expired samples is lazy and batched.
// Not safe for concurrent use; ServiceMetrics guards it.
type Window struct {
	duration    time.Duration
	ring        *ring.Ring
	lastCleanup time.Time
}

func NewWindow(duration time.Duration, capacity int) *Window {
	return &Window{
		duration: duration,
		ring:     ring.New(capacity),
	}
}

func (w *Window) Duration() time.Duration { return w.duration }

// Record stores one latency sample taken at now.
func (w *Window) Record(latencyMs float64, now time.Time) {
	w.maybeCleanup(now)
	w.ring.Push(ring.Sample{Value: latencyMs, At: now})
}

// Stats computes statistics over samples no older than the window's
// duration relative to now.
func (w *Window) Stats(now time.Time) LatencyStats {
	w.maybeCleanup(now)

	cutoff := now.Add(-w.duration)
	var values []float64
	for _, s := range w.ring.Samples() {
		if s.At.After(cutoff) {
			values = append(values, s.Value)
		}
	}
	return computeStats(values)
}

func (w *Window) Reset() {
	w.ring.Reset()
	w.lastCleanup = time.Time{}
}

func (w *Window) maybeCleanup(now time.Time) {
	if now.Sub(w.lastCleanup) <= cleanupInterval {
		return
	}
	cutoff := now.Add(-w.duration)
	w.ring.Filter(func(s ring.Sample) bool { return s.At.After(cutoff) })
	w.lastCleanup = now
}
