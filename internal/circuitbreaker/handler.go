package circuitbreaker

import (
	"encoding/json"
	"net/http"
)

// StatsHandler serves a JSON snapshot of every registered breaker.
func (r *Registry) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Stats()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// ResetHandler resets every breaker to CLOSED (POST only).
func (r *Registry) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		r.ResetAll()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reset":"all"}` + "\n"))
	}
}
