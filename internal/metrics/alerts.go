package metrics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type AlertType string

const (
	AlertErrorRate  AlertType = "error_rate"
	AlertLatencyP95 AlertType = "latency_p95"
	AlertLatencyP99 AlertType = "latency_p99"
)

// Alert records one threshold breach. Alerts are informational only; they
// never influence circuit breaker decisions.
type Alert struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Service   string    `json:"service"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Threshold float64   `json:"threshold"`
	Actual    float64   `json:"actual"`
	Timestamp time.Time `json:"timestamp"`
}

// alertLog is a bounded most-recent-first list. Inserting into a full log
// evicts the oldest entry.
type alertLog struct {
	mu      sync.Mutex
	cap     int
	entries []Alert
}

func newAlertLog(capacity int) *alertLog {
	if capacity < 1 {
		capacity = 1
	}
	return &alertLog{cap: capacity}
}

func (l *alertLog) add(a Alert) {
	a.ID = uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]Alert{a}, l.entries...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// recent returns up to limit alerts, newest first. A non-positive limit
// returns everything.
func (l *alertLog) recent(limit int) []Alert {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit <= 0 || limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]Alert, limit)
	copy(out, l.entries[:limit])
	return out
}

func (l *alertLog) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

func (l *alertLog) hasHigh() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.entries {
		if a.Severity == SeverityHigh {
			return true
		}
	}
	return false
}
