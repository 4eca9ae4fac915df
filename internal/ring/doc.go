// Package ring provides a fixed-capacity circular buffer of timestamped
// samples. It is the storage primitive behind latency tracking and
// time-windowed metrics.
//
// The buffer overwrites its oldest entry once full, so memory stays bounded
// regardless of traffic volume:
//
//	r := ring.New(1000)
//	r.Push(ring.Sample{Value: 12.5, At: time.Now()})
//	for _, s := range r.Samples() {
//	    // oldest first
//	}
//
// Ring performs no locking. Owners that share a ring across goroutines must
// hold their own mutex around every call.
package ring
