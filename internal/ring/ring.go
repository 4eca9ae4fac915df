package ring

import "time"

// Sample is a single timestamped measurement.
type Sample struct {
	Value float64   `json:"value"`
	At    time.Time `json:"at"`
}

// Ring is a fixed-capacity buffer of samples. When full, a push overwrites
// the oldest entry. Ring is not safe for concurrent use; owners guard it
// with their own lock.
type Ring struct {
	buf  []Sample
	head int
	size int
}

// New creates a ring holding at most capacity samples.
// A capacity below 1 is treated as 1.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]Sample, capacity)}
}

// Push appends a sample, evicting the oldest when the ring is full.
func (r *Ring) Push(s Sample) {
	r.buf[(r.head+r.size)%len(r.buf)] = s
	if r.size < len(r.buf) {
		r.size++
		return
	}
	r.head = (r.head + 1) % len(r.buf)
}

// Samples returns the stored samples in insertion order, oldest first.
func (r *Ring) Samples() []Sample {
	out := make([]Sample, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Filter keeps only the samples for which keep returns true,
// preserving insertion order.
func (r *Ring) Filter(keep func(Sample) bool) {
	samples := r.Samples()
	kept := samples[:0]
	for _, s := range samples {
		if keep(s) {
			kept = append(kept, s)
		}
	}
	copy(r.buf, kept)
	r.head = 0
	r.size = len(kept)
}

// Len returns the number of stored samples.
func (r *Ring) Len() int { return r.size }

// Cap returns the ring's fixed capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Reset discards all samples, keeping the capacity.
func (r *Ring) Reset() {
	r.head = 0
	r.size = 0
}
