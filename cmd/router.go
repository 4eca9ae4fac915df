package main

import (
	"net/http"

	"github.com/angeloszaimis/mediaguard/internal/circuitbreaker"
	"github.com/angeloszaimis/mediaguard/internal/metrics"
)

func setupRouter(collector *metrics.Collector, breakers *circuitbreaker.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/metrics", collector.MetricsHandler())
	mux.HandleFunc("/metrics/summary", collector.SummaryHandler())
	mux.HandleFunc("/metrics/prometheus", collector.PrometheusHandler())
	mux.HandleFunc("/metrics/reset", collector.ResetHandler())
	mux.HandleFunc("/alerts", collector.AlertsHandler())
	mux.HandleFunc("/thresholds", collector.ThresholdsHandler())
	mux.HandleFunc("/health", collector.HealthHandler())
	mux.HandleFunc("/breakers", breakers.StatsHandler())
	mux.HandleFunc("/breakers/reset", breakers.ResetHandler())

	return mux
}
