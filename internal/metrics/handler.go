package metrics

import (
	"encoding/json"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SummaryHandler serves the global rollup plus recent alerts.
func (c *Collector) SummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.Summary())
	}
}

// MetricsHandler serves the full per-service detail.
func (c *Collector) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.AllMetrics())
	}
}

// PrometheusHandler serves the text exposition format.
func (c *Collector) PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(c.Prometheus()))
	}
}

// HealthHandler reports healthy or degraded; degraded responds 503 so load
// balancers and probes can act on the status code alone.
func (c *Collector) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		healthy := c.Healthy()
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{
			"status":  statusLabel(healthy),
			"healthy": healthy,
		})
	}
}

// AlertsHandler serves the alert log (GET, optional ?limit=) and clears it
// (DELETE).
func (c *Collector) AlertsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			limit := 0
			if raw := r.URL.Query().Get("limit"); raw != "" {
				parsed, err := strconv.Atoi(raw)
				if err != nil || parsed < 0 {
					http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
					return
				}
				limit = parsed
			}
			writeJSON(w, http.StatusOK, map[string]any{"alerts": c.Alerts(limit)})
		case http.MethodDelete:
			c.ClearAlerts()
			writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// ResetHandler resets one service (?service=) or everything (POST).
func (c *Collector) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if name := r.URL.Query().Get("service"); name != "" {
			if !c.ResetService(name) {
				http.Error(w, "unknown service", http.StatusNotFound)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"reset": name})
			return
		}

		c.ResetAll()
		writeJSON(w, http.StatusOK, map[string]any{"reset": "all"})
	}
}

// ThresholdsHandler reads (GET) or partially updates (PUT) the alert
// thresholds.
func (c *Collector) ThresholdsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, c.Thresholds())
		case http.MethodPut:
			var overrides ThresholdOverrides
			if err := json.NewDecoder(r.Body).Decode(&overrides); err != nil {
				http.Error(w, "invalid threshold payload", http.StatusBadRequest)
				return
			}
			writeJSON(w, http.StatusOK, c.SetThresholds(overrides))
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func statusLabel(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "degraded"
}
