// Package downloader implements the resumable, rate-limited download loop.
//
// A run takes the discovered resource list and the loaded completion
// record, collapses duplicate names (first occurrence wins), skips anything
// already recorded, and fetches the rest strictly sequentially at the
// limiter's pace. Sequential processing is deliberate: the rate limit is a
// ceiling on requests against a third-party server, and one item at a time
// is the simplest mechanism that guarantees the ceiling regardless of fetch
// latency.
//
// Individual fetch or write failures are recorded in the run summary and
// never abort the run. The completion record is persisted after every
// successful save, so interrupting the process at any point loses at most
// the in-flight item. The only fatal error mid-run is a failure to persist
// the record itself.
package downloader
