package metrics_test

import (
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/mediaguard/internal/metrics"
)

func alertsOfType(alerts []metrics.Alert, t metrics.AlertType) []metrics.Alert {
	var out []metrics.Alert
	for _, a := range alerts {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

var _ = Describe("Collector", func() {
	var collector *metrics.Collector

	BeforeEach(func() {
		collector = metrics.NewCollector(metrics.Options{}, nil)
	})

	Describe("GetOrCreate", func() {
		It("should create service metrics on first access", func() {
			sm := collector.GetOrCreate("media-upload")
			Expect(sm).NotTo(BeNil())
			Expect(sm.Name()).To(Equal("media-upload"))
		})

		It("should return the same instance for the same name", func() {
			Expect(collector.GetOrCreate("x")).To(BeIdenticalTo(collector.GetOrCreate("x")))
		})

		It("should be safe under concurrent first access", func() {
			const goroutines = 32
			results := make([]*metrics.ServiceMetrics, goroutines)

			var wg sync.WaitGroup
			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i] = collector.GetOrCreate("shared")
				}(i)
			}
			wg.Wait()

			for _, sm := range results {
				Expect(sm).To(BeIdenticalTo(results[0]))
			}
		})
	})

	Describe("recording", func() {
		It("should count successes and failures per service", func() {
			collector.RecordSuccess("a", 10*time.Millisecond)
			collector.RecordSuccess("a", 20*time.Millisecond)
			collector.RecordFailure("a", 30*time.Millisecond)
			collector.RecordSuccess("b", 5*time.Millisecond)

			all := collector.AllMetrics()
			Expect(all).To(HaveLen(2))
			Expect(all["a"].Requests.Total).To(Equal(int64(3)))
			Expect(all["a"].Requests.Success).To(Equal(int64(2)))
			Expect(all["b"].Requests.Total).To(Equal(int64(1)))
		})

		It("should store latency samples in every window", func() {
			collector.RecordSuccess("a", 100*time.Millisecond)

			snap := collector.AllMetrics()["a"]
			Expect(snap.Latency.Count).To(Equal(1))
			Expect(snap.Windows["1m"].Count).To(Equal(1))
			Expect(snap.Windows["5m"].Count).To(Equal(1))
			Expect(snap.Windows["1h"].Count).To(Equal(1))
			Expect(snap.Latency.Avg).To(Equal(float64(100)))
		})

		It("should skip non-positive latencies but still count the operation", func() {
			collector.RecordFailure("a", 0)
			collector.RecordFailure("a", -time.Second)

			snap := collector.AllMetrics()["a"]
			Expect(snap.Requests.Failure).To(Equal(int64(2)))
			Expect(snap.Latency.Count).To(Equal(0))
		})
	})

	Describe("alerting", func() {
		It("should raise a high error_rate alert when the failure rate exceeds the threshold", func() {
			collector.RecordFailure("storage", 10*time.Millisecond)

			alerts := alertsOfType(collector.Alerts(0), metrics.AlertErrorRate)
			Expect(alerts).To(HaveLen(1))
			Expect(alerts[0].Severity).To(Equal(metrics.SeverityHigh))
			Expect(alerts[0].Service).To(Equal("storage"))
			Expect(alerts[0].Actual).To(Equal(float64(100)))
		})

		It("should raise exactly one latency_p95 alert for a single slow failure", func() {
			collector.RecordFailure("X", 6000*time.Millisecond)

			p95 := alertsOfType(collector.Alerts(0), metrics.AlertLatencyP95)
			Expect(p95).To(HaveLen(1))
			Expect(p95[0].Severity).To(Equal(metrics.SeverityMedium))
			Expect(p95[0].Service).To(Equal("X"))

			// 6000ms is below the p99 default of 10000ms.
			Expect(alertsOfType(collector.Alerts(0), metrics.AlertLatencyP99)).To(BeEmpty())
		})

		It("should raise a high latency_p99 alert past the p99 threshold", func() {
			collector.RecordSuccess("slow", 12*time.Second)

			p99 := alertsOfType(collector.Alerts(0), metrics.AlertLatencyP99)
			Expect(p99).To(HaveLen(1))
			Expect(p99[0].Severity).To(Equal(metrics.SeverityHigh))
		})

		It("should not raise latency alerts below the thresholds", func() {
			collector.RecordSuccess("fast", 50*time.Millisecond)
			Expect(collector.Alerts(0)).To(BeEmpty())
		})

		It("should keep the alert log bounded, evicting the oldest first", func() {
			small := metrics.NewCollector(metrics.Options{AlertCapacity: 5}, nil)
			for i := 0; i < 20; i++ {
				small.RecordFailure("flaky", time.Millisecond)
			}

			alerts := small.Alerts(0)
			Expect(alerts).To(HaveLen(5))
			// Newest first.
			Expect(alerts[0].Timestamp).To(BeTemporally(">=", alerts[4].Timestamp))
		})

		It("should honor the limit argument, newest first", func() {
			collector.RecordFailure("a", time.Millisecond)
			collector.RecordFailure("b", time.Millisecond)

			alerts := collector.Alerts(1)
			Expect(alerts).To(HaveLen(1))
			Expect(alerts[0].Service).To(Equal("b"))
		})

		It("should assign each alert a unique id", func() {
			collector.RecordFailure("a", time.Millisecond)
			collector.RecordFailure("a", time.Millisecond)

			alerts := collector.Alerts(0)
			Expect(len(alerts)).To(BeNumerically(">=", 2))
			Expect(alerts[0].ID).NotTo(BeEmpty())
			Expect(alerts[0].ID).NotTo(Equal(alerts[1].ID))
		})

		It("should clear the log on demand", func() {
			collector.RecordFailure("a", time.Millisecond)
			collector.ClearAlerts()
			Expect(collector.Alerts(0)).To(BeEmpty())
		})
	})

	Describe("SetThresholds", func() {
		It("should merge only the provided fields", func() {
			rate := float64(50)
			updated := collector.SetThresholds(metrics.ThresholdOverrides{ErrorRate: &rate})

			Expect(updated.ErrorRate).To(Equal(float64(50)))
			Expect(updated.LatencyP95).To(Equal(float64(5000)))
			Expect(updated.LatencyP99).To(Equal(float64(10000)))
		})

		It("should apply new thresholds to subsequent records", func() {
			rate := float64(50)
			collector.SetThresholds(metrics.ThresholdOverrides{ErrorRate: &rate})

			collector.RecordSuccess("a", time.Millisecond)
			collector.RecordFailure("a", time.Millisecond)

			// 50% failure rate is not above the 50% threshold.
			Expect(alertsOfType(collector.Alerts(0), metrics.AlertErrorRate)).To(BeEmpty())
		})
	})

	Describe("resetting", func() {
		It("should reset a single service and preserve its identity", func() {
			sm := collector.GetOrCreate("a")
			collector.RecordSuccess("a", time.Millisecond)

			Expect(collector.ResetService("a")).To(BeTrue())
			Expect(collector.GetOrCreate("a")).To(BeIdenticalTo(sm))
			Expect(collector.AllMetrics()["a"].Requests.Total).To(Equal(int64(0)))
		})

		It("should report false for an unknown service", func() {
			Expect(collector.ResetService("nope")).To(BeFalse())
		})

		It("should reset every service", func() {
			collector.RecordSuccess("a", time.Millisecond)
			collector.RecordSuccess("b", time.Millisecond)
			collector.ResetAll()

			for _, snap := range collector.AllMetrics() {
				Expect(snap.Requests.Total).To(Equal(int64(0)))
			}
		})
	})

	Describe("Summary", func() {
		It("should roll up totals across services", func() {
			collector.RecordSuccess("a", 10*time.Millisecond)
			collector.RecordSuccess("b", 10*time.Millisecond)
			collector.RecordFailure("b", 10*time.Millisecond)

			sum := collector.Summary()
			Expect(sum.TotalRequests).To(Equal(int64(3)))
			Expect(sum.TotalSuccess).To(Equal(int64(2)))
			Expect(sum.TotalFailure).To(Equal(int64(1)))
			Expect(sum.SuccessRate).To(Equal(66.67))
			Expect(sum.Services).To(HaveLen(2))
		})

		It("should report 100% success with no services", func() {
			sum := collector.Summary()
			Expect(sum.SuccessRate).To(Equal(float64(100)))
			Expect(sum.Healthy).To(BeTrue())
		})

		It("should include at most the ten newest alerts", func() {
			for i := 0; i < 15; i++ {
				collector.RecordFailure("flaky", time.Millisecond)
			}
			Expect(len(collector.Summary().RecentAlerts)).To(BeNumerically("<=", 10))
		})
	})

	Describe("Healthy", func() {
		It("should be healthy with a good success rate and no high alerts", func() {
			for i := 0; i < 20; i++ {
				collector.RecordSuccess("a", time.Millisecond)
			}
			Expect(collector.Healthy()).To(BeTrue())
		})

		It("should be degraded when high-severity alerts exist", func() {
			collector.RecordFailure("a", time.Millisecond)
			Expect(collector.Healthy()).To(BeFalse())
		})

		It("should become healthy again after alerts are cleared", func() {
			collector.RecordFailure("a", time.Millisecond)
			for i := 0; i < 20; i++ {
				collector.RecordSuccess("a", time.Millisecond)
			}
			collector.ClearAlerts()
			Expect(collector.Healthy()).To(BeTrue())
		})
	})
})

var _ = Describe("Prometheus rendering", func() {
	It("should render counters and gauges per service", func() {
		collector := metrics.NewCollector(metrics.Options{}, nil)
		collector.RecordSuccess("upload", 100*time.Millisecond)
		collector.RecordSuccess("upload", 200*time.Millisecond)
		collector.RecordFailure("upload", 300*time.Millisecond)

		text := collector.Prometheus()
		Expect(text).To(ContainSubstring("# TYPE mediaguard_requests_total counter"))
		Expect(text).To(ContainSubstring(`mediaguard_requests_total{service="upload"} 3`))
		Expect(text).To(ContainSubstring(`mediaguard_requests_success_total{service="upload"} 2`))
		Expect(text).To(ContainSubstring(`mediaguard_requests_failure_total{service="upload"} 1`))
		Expect(text).To(ContainSubstring("# TYPE mediaguard_latency_p95_ms gauge"))
		Expect(text).To(ContainSubstring(`mediaguard_latency_p95_ms{service="upload"} 300`))
	})

	It("should list services in stable order", func() {
		collector := metrics.NewCollector(metrics.Options{}, nil)
		collector.RecordSuccess("zeta", time.Millisecond)
		collector.RecordSuccess("alpha", time.Millisecond)

		text := collector.Prometheus()
		alphaIdx := strings.Index(text, `mediaguard_requests_total{service="alpha"}`)
		zetaIdx := strings.Index(text, `mediaguard_requests_total{service="zeta"}`)
		Expect(alphaIdx).To(BeNumerically(">=", 0))
		Expect(zetaIdx).To(BeNumerically(">", alphaIdx))
	})
})
