package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/angeloszaimis/mediaguard/internal/ring"
)

// LatencyStats summarizes the still-valid latency samples of a tracker or
// window. All latency values are milliseconds.
type LatencyStats struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// LatencyTracker keeps recent latency samples in a bounded ring and computes
// statistics over a sliding time window. Not safe for concurrent use;
// ServiceMetrics guards it.
type LatencyTracker struct {
	ring   *ring.Ring
	maxAge time.Duration
}

func NewLatencyTracker(capacity int, maxAge time.Duration) *LatencyTracker {
	return &LatencyTracker{
		ring:   ring.New(capacity),
		maxAge: maxAge,
	}
}

// Record stores one latency sample taken at now.
func (t *LatencyTracker) Record(latencyMs float64, now time.Time) {
	t.ring.Push(ring.Sample{Value: latencyMs, At: now})
}

// Stats computes min/max/avg and p50/p95/p99 over samples no older than the
// tracker's window relative to now.
func (t *LatencyTracker) Stats(now time.Time) LatencyStats {
	cutoff := now.Add(-t.maxAge)
	var values []float64
	for _, s := range t.ring.Samples() {
		if s.At.After(cutoff) {
			values = append(values, s.Value)
		}
	}
	return computeStats(values)
}

func (t *LatencyTracker) Reset() {
	t.ring.Reset()
}

func computeStats(values []float64) LatencyStats {
	if len(values) == 0 {
		return LatencyStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Avg:   round2(sum / float64(len(sorted))),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		P99:   percentile(sorted, 99),
	}
}

// percentile picks sorted[ceil(p/100*n)-1], clamped to the first element
// for small n.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	return sorted[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
