package metrics

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Thresholds holds the alerting limits. ErrorRate is a percentage;
// the latency limits are milliseconds.
type Thresholds struct {
	ErrorRate  float64 `json:"error_rate"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyP99 float64 `json:"latency_p99"`
}

// ThresholdOverrides is a partial update for SetThresholds; nil fields are
// left unchanged.
type ThresholdOverrides struct {
	ErrorRate  *float64 `json:"error_rate"`
	LatencyP95 *float64 `json:"latency_p95"`
	LatencyP99 *float64 `json:"latency_p99"`
}

// Options configures a Collector. Zero fields fall back to defaults.
type Options struct {
	LatencyCapacity int
	WindowCapacity  int
	AlertCapacity   int
	LatencyWindow   time.Duration
	Thresholds      Thresholds
}

const (
	defaultLatencyCapacity = 1000
	defaultWindowCapacity  = 1000
	defaultAlertCapacity   = 100
	defaultLatencyWindow   = 5 * time.Minute

	defaultErrorRate  = 10
	defaultLatencyP95 = 5000
	defaultLatencyP99 = 10000
)

func (o Options) withDefaults() Options {
	if o.LatencyCapacity <= 0 {
		o.LatencyCapacity = defaultLatencyCapacity
	}
	if o.WindowCapacity <= 0 {
		o.WindowCapacity = defaultWindowCapacity
	}
	if o.AlertCapacity <= 0 {
		o.AlertCapacity = defaultAlertCapacity
	}
	if o.LatencyWindow <= 0 {
		o.LatencyWindow = defaultLatencyWindow
	}
	if o.Thresholds.ErrorRate <= 0 {
		o.Thresholds.ErrorRate = defaultErrorRate
	}
	if o.Thresholds.LatencyP95 <= 0 {
		o.Thresholds.LatencyP95 = defaultLatencyP95
	}
	if o.Thresholds.LatencyP99 <= 0 {
		o.Thresholds.LatencyP99 = defaultLatencyP99
	}
	return o
}

// Collector is the metric service: a registry of per-service metrics plus
// threshold alerting and the reporting surface. It is constructed explicitly
// and passed to every call site; there is no package-level singleton.
type Collector struct {
	mu         sync.RWMutex
	services   map[string]*ServiceMetrics
	thresholds Thresholds
	opts       Options
	alerts     *alertLog
	logger     *slog.Logger
	startTime  time.Time
}

func NewCollector(opts Options, logger *slog.Logger) *Collector {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		services:   make(map[string]*ServiceMetrics),
		thresholds: opts.Thresholds,
		opts:       opts,
		alerts:     newAlertLog(opts.AlertCapacity),
		logger:     logger,
		startTime:  time.Now(),
	}
}

// GetOrCreate returns the metrics for name, creating them on first access.
// Safe under concurrent first-access from multiple call sites.
func (c *Collector) GetOrCreate(name string) *ServiceMetrics {
	c.mu.RLock()
	sm, exists := c.services[name]
	c.mu.RUnlock()

	if exists {
		return sm
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check: another goroutine may have created it
	if sm, exists = c.services[name]; exists {
		return sm
	}

	sm = NewServiceMetrics(name, c.opts.LatencyCapacity, c.opts.WindowCapacity, c.opts.LatencyWindow)
	c.services[name] = sm
	return sm
}

// RecordSuccess records one successful operation for name and evaluates
// alert thresholds.
func (c *Collector) RecordSuccess(name string, latency time.Duration) {
	sm := c.GetOrCreate(name)
	sm.RecordSuccess(latency)
	c.checkThresholds(sm)
}

// RecordFailure records one failed operation for name and evaluates alert
// thresholds.
func (c *Collector) RecordFailure(name string, latency time.Duration) {
	sm := c.GetOrCreate(name)
	sm.RecordFailure(latency)
	c.checkThresholds(sm)
}

func (c *Collector) checkThresholds(sm *ServiceMetrics) {
	c.mu.RLock()
	t := c.thresholds
	c.mu.RUnlock()

	snap := sm.Snapshot()

	if snap.Requests.FailureRate > t.ErrorRate {
		c.raise(Alert{
			Severity:  SeverityHigh,
			Service:   snap.Name,
			Type:      AlertErrorRate,
			Message:   fmt.Sprintf("error rate %.2f%% exceeds threshold %.2f%%", snap.Requests.FailureRate, t.ErrorRate),
			Threshold: t.ErrorRate,
			Actual:    snap.Requests.FailureRate,
		})
	}

	if snap.Latency.Count > 0 && snap.Latency.P95 > t.LatencyP95 {
		c.raise(Alert{
			Severity:  SeverityMedium,
			Service:   snap.Name,
			Type:      AlertLatencyP95,
			Message:   fmt.Sprintf("p95 latency %.0fms exceeds threshold %.0fms", snap.Latency.P95, t.LatencyP95),
			Threshold: t.LatencyP95,
			Actual:    snap.Latency.P95,
		})
	}

	if snap.Latency.Count > 0 && snap.Latency.P99 > t.LatencyP99 {
		c.raise(Alert{
			Severity:  SeverityHigh,
			Service:   snap.Name,
			Type:      AlertLatencyP99,
			Message:   fmt.Sprintf("p99 latency %.0fms exceeds threshold %.0fms", snap.Latency.P99, t.LatencyP99),
			Threshold: t.LatencyP99,
			Actual:    snap.Latency.P99,
		})
	}
}

func (c *Collector) raise(a Alert) {
	a.Timestamp = time.Now()
	c.alerts.add(a)

	c.logger.Warn("alert threshold breached",
		slog.String("service", a.Service),
		slog.String("type", string(a.Type)),
		slog.String("severity", string(a.Severity)),
		slog.Float64("threshold", a.Threshold),
		slog.Float64("actual", a.Actual))
}

// Alerts returns up to limit alerts, newest first. A non-positive limit
// returns the whole log.
func (c *Collector) Alerts(limit int) []Alert {
	return c.alerts.recent(limit)
}

func (c *Collector) ClearAlerts() {
	c.alerts.clear()
}

// SetThresholds merges the non-nil fields of o into the current thresholds
// and returns the result.
func (c *Collector) SetThresholds(o ThresholdOverrides) Thresholds {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.ErrorRate != nil {
		c.thresholds.ErrorRate = *o.ErrorRate
	}
	if o.LatencyP95 != nil {
		c.thresholds.LatencyP95 = *o.LatencyP95
	}
	if o.LatencyP99 != nil {
		c.thresholds.LatencyP99 = *o.LatencyP99
	}
	return c.thresholds
}

func (c *Collector) Thresholds() Thresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.thresholds
}

// ResetService resets the metrics for name, preserving registry identity.
// Returns false when the service is unknown.
func (c *Collector) ResetService(name string) bool {
	c.mu.RLock()
	sm, exists := c.services[name]
	c.mu.RUnlock()

	if !exists {
		return false
	}
	sm.Reset()
	return true
}

// ResetAll resets every registered service.
func (c *Collector) ResetAll() {
	for _, sm := range c.snapshotServices() {
		sm.Reset()
	}
}

// AllMetrics returns the full per-service detail.
func (c *Collector) AllMetrics() map[string]ServiceSnapshot {
	services := c.snapshotServices()
	out := make(map[string]ServiceSnapshot, len(services))
	for _, sm := range services {
		out[sm.Name()] = sm.Snapshot()
	}
	return out
}

func (c *Collector) snapshotServices() []*ServiceMetrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := make([]*ServiceMetrics, 0, len(c.services))
	for _, sm := range c.services {
		services = append(services, sm)
	}
	return services
}
