package metrics

// Counter keeps running success/failure totals for one service.
// It is not safe for concurrent use; ServiceMetrics guards it.
type Counter struct {
	total   int64
	success int64
	failure int64
}

func (c *Counter) RecordSuccess() {
	c.total++
	c.success++
}

func (c *Counter) RecordFailure() {
	c.total++
	c.failure++
}

func (c *Counter) Total() int64   { return c.total }
func (c *Counter) Success() int64 { return c.success }
func (c *Counter) Failure() int64 { return c.failure }

// SuccessRate returns the success percentage, 100 when nothing
// has been recorded yet.
func (c *Counter) SuccessRate() float64 {
	if c.total == 0 {
		return 100
	}
	return round2(float64(c.success) / float64(c.total) * 100)
}

// FailureRate returns the failure percentage, 0 when nothing
// has been recorded yet.
func (c *Counter) FailureRate() float64 {
	if c.total == 0 {
		return 0
	}
	return round2(float64(c.failure) / float64(c.total) * 100)
}

func (c *Counter) Reset() {
	c.total = 0
	c.success = 0
	c.failure = 0
}

// CounterSnapshot is the JSON view of a Counter.
type CounterSnapshot struct {
	Total       int64   `json:"total"`
	Success     int64   `json:"success"`
	Failure     int64   `json:"failure"`
	SuccessRate float64 `json:"success_rate"`
	FailureRate float64 `json:"failure_rate"`
}

func (c *Counter) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Total:       c.total,
		Success:     c.success,
		Failure:     c.failure,
		SuccessRate: c.SuccessRate(),
		FailureRate: c.FailureRate(),
	}
}
