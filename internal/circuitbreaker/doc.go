// Package circuitbreaker implements the circuit breaker pattern for calls
// to unreliable external dependencies.
//
// A breaker prevents cascading failures by rejecting calls to a failing
// dependency and periodically probing recovery. It has three states:
//
//   - CLOSED: normal operation, calls pass through
//   - OPEN: dependency failing, calls rejected without execution
//   - HALF_OPEN: probing whether the dependency recovered
//
// Failure counting in CLOSED is failures-since-last-success: any success
// resets the count, so the threshold is not a sliding window over recent
// calls.
//
// Usage:
//
//	registry := circuitbreaker.NewRegistry(
//	    circuitbreaker.WithReporter(collector),
//	    circuitbreaker.WithLogger(log),
//	)
//	cb, err := registry.GetBreaker("media-upload",
//	    circuitbreaker.WithSettings(circuitbreaker.PresetSettings("upload")))
//	if err != nil {
//	    return err
//	}
//
//	err = cb.Execute(ctx, func(ctx context.Context) error {
//	    return storeMedia(ctx, payload)
//	})
//	if circuitbreaker.IsOpen(err) {
//	    // Rejected without an attempt; map to "try again later" upstream.
//	}
//
// Execute races the operation against the breaker's operation timeout and
// re-raises all failures after bookkeeping, so protection stays transparent
// to the caller.
package circuitbreaker
