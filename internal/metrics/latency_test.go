package metrics_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/mediaguard/internal/metrics"
)

var _ = Describe("LatencyTracker", func() {
	var tracker *metrics.LatencyTracker

	BeforeEach(func() {
		tracker = metrics.NewLatencyTracker(100, 5*time.Minute)
	})

	record := func(values ...float64) {
		now := time.Now()
		for _, v := range values {
			tracker.Record(v, now)
		}
	}

	Describe("Stats", func() {
		It("should return zero stats with no samples", func() {
			stats := tracker.Stats(time.Now())
			Expect(stats.Count).To(Equal(0))
			Expect(stats.Avg).To(Equal(float64(0)))
		})

		It("should compute min, max and average", func() {
			record(10, 20, 30)
			stats := tracker.Stats(time.Now())
			Expect(stats.Count).To(Equal(3))
			Expect(stats.Min).To(Equal(float64(10)))
			Expect(stats.Max).To(Equal(float64(30)))
			Expect(stats.Avg).To(Equal(float64(20)))
		})

		It("should round the average to two decimals", func() {
			record(10, 10, 11)
			stats := tracker.Stats(time.Now())
			Expect(stats.Avg).To(Equal(10.33))
		})

		It("should exclude samples older than the sliding window", func() {
			old := time.Now().Add(-10 * time.Minute)
			tracker.Record(1000, old)
			record(10)

			stats := tracker.Stats(time.Now())
			Expect(stats.Count).To(Equal(1))
			Expect(stats.Max).To(Equal(float64(10)))
		})

		Describe("percentile index arithmetic", func() {
			// p-th percentile picks sorted[ceil(p/100*n)-1].

			It("n=1: every percentile is the single sample", func() {
				record(42)
				stats := tracker.Stats(time.Now())
				Expect(stats.P50).To(Equal(float64(42)))
				Expect(stats.P95).To(Equal(float64(42)))
				Expect(stats.P99).To(Equal(float64(42)))
			})

			It("n=2: p50 is the first value, p95 and p99 the second", func() {
				record(10, 20)
				stats := tracker.Stats(time.Now())
				Expect(stats.P50).To(Equal(float64(10)))
				Expect(stats.P95).To(Equal(float64(20)))
				Expect(stats.P99).To(Equal(float64(20)))
			})

			It("n=3: p50 is the second value, p95 and p99 the third", func() {
				record(10, 20, 30)
				stats := tracker.Stats(time.Now())
				Expect(stats.P50).To(Equal(float64(20)))
				Expect(stats.P95).To(Equal(float64(30)))
				Expect(stats.P99).To(Equal(float64(30)))
			})

			It("n=10: p95 of [10..100] is the 10th value", func() {
				record(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
				stats := tracker.Stats(time.Now())
				Expect(stats.P50).To(Equal(float64(50)))
				Expect(stats.P95).To(Equal(float64(100)))
				Expect(stats.P99).To(Equal(float64(100)))
			})

			It("n=17: p50 is the 9th value, p95 the 17th", func() {
				values := make([]float64, 17)
				for i := range values {
					values[i] = float64((i + 1) * 10)
				}
				record(values...)

				stats := tracker.Stats(time.Now())
				// ceil(0.50*17)=9, ceil(0.95*17)=17, ceil(0.99*17)=17
				Expect(stats.P50).To(Equal(float64(90)))
				Expect(stats.P95).To(Equal(float64(170)))
				Expect(stats.P99).To(Equal(float64(170)))
			})

			It("should sort before indexing", func() {
				record(30, 10, 20)
				stats := tracker.Stats(time.Now())
				Expect(stats.P50).To(Equal(float64(20)))
			})
		})
	})

	Describe("bounded memory", func() {
		It("should drop the oldest samples past capacity", func() {
			small := metrics.NewLatencyTracker(3, 5*time.Minute)
			now := time.Now()
			for i := 1; i <= 5; i++ {
				small.Record(float64(i*10), now)
			}
			stats := small.Stats(now.Add(time.Millisecond))
			Expect(stats.Count).To(Equal(3))
			Expect(stats.Min).To(Equal(float64(30)))
		})
	})
})
