package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Prometheus renders the text exposition format: success/failure/total
// counters and avg/p95/p99 latency gauges, one line per service, services
// in stable alphabetical order.
func (c *Collector) Prometheus() string {
	snapshots := c.AllMetrics()

	names := make([]string, 0, len(snapshots))
	for name := range snapshots {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder

	writeMetric := func(metric, help, kind string, value func(ServiceSnapshot) float64) {
		fmt.Fprintf(&b, "# HELP %s %s\n", metric, help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", metric, kind)
		for _, name := range names {
			fmt.Fprintf(&b, "%s{service=%q} %g\n", metric, name, value(snapshots[name]))
		}
	}

	writeMetric("mediaguard_requests_total", "Total operations recorded per service.", "counter",
		func(s ServiceSnapshot) float64 { return float64(s.Requests.Total) })
	writeMetric("mediaguard_requests_success_total", "Successful operations per service.", "counter",
		func(s ServiceSnapshot) float64 { return float64(s.Requests.Success) })
	writeMetric("mediaguard_requests_failure_total", "Failed operations per service.", "counter",
		func(s ServiceSnapshot) float64 { return float64(s.Requests.Failure) })
	writeMetric("mediaguard_latency_avg_ms", "Average latency in milliseconds.", "gauge",
		func(s ServiceSnapshot) float64 { return s.Latency.Avg })
	writeMetric("mediaguard_latency_p95_ms", "95th percentile latency in milliseconds.", "gauge",
		func(s ServiceSnapshot) float64 { return s.Latency.P95 })
	writeMetric("mediaguard_latency_p99_ms", "99th percentile latency in milliseconds.", "gauge",
		func(s ServiceSnapshot) float64 { return s.Latency.P99 })

	return b.String()
}
