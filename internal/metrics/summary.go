package metrics

import "time"

// recentAlertCount is how many alerts the summary includes.
const recentAlertCount = 10

// healthySuccessRate is the global success percentage a deployment must
// exceed to report healthy.
const healthySuccessRate = 90

// ServiceSummary is the per-service line in the global summary.
type ServiceSummary struct {
	Requests    int64   `json:"requests"`
	SuccessRate float64 `json:"success_rate"`
	AvgLatency  float64 `json:"avg_latency"`
	P95Latency  float64 `json:"p95_latency"`
}

// Summary is the global rollup across all services.
type Summary struct {
	Uptime        time.Duration             `json:"uptime"`
	TotalRequests int64                     `json:"total_requests"`
	TotalSuccess  int64                     `json:"total_success"`
	TotalFailure  int64                     `json:"total_failure"`
	SuccessRate   float64                   `json:"success_rate"`
	Healthy       bool                      `json:"healthy"`
	Services      map[string]ServiceSummary `json:"services"`
	RecentAlerts  []Alert                   `json:"recent_alerts"`
}

// Summary aggregates every registered service plus the newest alerts.
func (c *Collector) Summary() Summary {
	snapshots := c.AllMetrics()

	sum := Summary{
		Uptime:       time.Since(c.startTime),
		Services:     make(map[string]ServiceSummary, len(snapshots)),
		RecentAlerts: c.alerts.recent(recentAlertCount),
	}

	for name, snap := range snapshots {
		sum.TotalRequests += snap.Requests.Total
		sum.TotalSuccess += snap.Requests.Success
		sum.TotalFailure += snap.Requests.Failure

		sum.Services[name] = ServiceSummary{
			Requests:    snap.Requests.Total,
			SuccessRate: snap.Requests.SuccessRate,
			AvgLatency:  snap.Latency.Avg,
			P95Latency:  snap.Latency.P95,
		}
	}

	sum.SuccessRate = globalSuccessRate(sum.TotalSuccess, sum.TotalRequests)
	sum.Healthy = sum.SuccessRate > healthySuccessRate && !c.alerts.hasHigh()
	return sum
}

// Healthy reports whether the global success rate exceeds 90% and no
// high-severity alert is in the log.
func (c *Collector) Healthy() bool {
	var total, success int64
	for _, snap := range c.AllMetrics() {
		total += snap.Requests.Total
		success += snap.Requests.Success
	}
	return globalSuccessRate(success, total) > healthySuccessRate && !c.alerts.hasHigh()
}

func globalSuccessRate(success, total int64) float64 {
	if total == 0 {
		return 100
	}
	return round2(float64(success) / float64(total) * 100)
}
