// Package metrics provides real-time health metrics for protected services.
//
// Each named service gets its own bounded aggregate:
//   - Success/failure counters with derived rates
//   - Latency samples with min/max/avg and P50, P95, P99 percentiles
//   - Rolling 1-minute, 5-minute and 1-hour windows
//
// The Collector owns one aggregate per service name, evaluates alert
// thresholds after every record, and keeps a bounded most-recent-first alert
// log. It also renders the operator surfaces: a JSON summary, full
// per-service detail, a Prometheus text endpoint and a health check.
//
// Example usage:
//
//	collector := metrics.NewCollector(metrics.Options{}, logger)
//
//	// Record outcomes during request handling
//	collector.RecordSuccess("media-upload", 150*time.Millisecond)
//	collector.RecordFailure("media-upload", 6*time.Second)
//
//	// Operator surfaces
//	summary := collector.Summary()
//	text := collector.Prometheus()
//
// Every aggregate is guarded by its own mutex, so recording against one
// service never blocks another. Alerting is informational only: threshold
// breaches are logged and listed, they never gate calls.
package metrics
