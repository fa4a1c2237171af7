// Package ratelimit provides rate limiting for downloads from the target
// site.
//
// Available Implementations:
//
// Interval:
//   - Paces loop iterations to at most one per fixed interval
//   - Time spent processing an item counts toward the budget
//   - Used by the downloader (e.g. 340ms for ~3 downloads per second)
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Selected by the grab command when download.burst > 1: bursts of N
//     downloads per refill window at the same average pace
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// One download per 340ms, sequential loop
//	limiter := ratelimit.NewInterval(340 * time.Millisecond)
//	for _, item := range pending {
//	    limiter.Wait()
//	    // Fetch and save item
//	}
package ratelimit
