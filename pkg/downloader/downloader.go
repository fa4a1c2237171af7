package downloader

import (
	"bytes"
	"context"
	"time"

	"boxart/pkg/catalog"
	"boxart/pkg/errors"
	"boxart/pkg/logger"
	"boxart/pkg/progress"
	"boxart/pkg/ratelimit"
)

// progressLogEvery controls how often cumulative progress is logged.
const progressLogEvery = 25

// Failure is one resource that could not be saved during a run
type Failure struct {
	Name   string
	URL    string
	Reason string
}

// Summary aggregates the outcome of a run
type Summary struct {
	Saved    int
	Skipped  int
	Failed   int
	Failures []Failure
	Elapsed  time.Duration
}

// Downloader drives sequential, throttled downloads of pending resources
type Downloader struct {
	fetcher Fetcher
	sink    Sink
	records RecordStore
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates a Downloader
func New(fetcher Fetcher, sink Sink, records RecordStore, limiter ratelimit.Limiter, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Downloader{
		fetcher: fetcher,
		sink:    sink,
		records: records,
		limiter: limiter,
		logger:  log,
	}
}

// Run reconciles the discovered resources against the completion record
// and fetches the pending subset, one at a time, at the limiter's pace.
//
// Duplicate names are collapsed first-seen-wins before any work happens.
// Per-resource fetch and write failures are folded into the summary and
// never abort the run. The record is persisted after every save, so the
// only fatal outcomes are a record persist failure and cancellation; both
// leave the record valid and the run resumable.
func (d *Downloader) Run(ctx context.Context, resources []catalog.Resource, record *progress.Record) (Summary, error) {
	start := time.Now()
	summary := Summary{}

	deduped := catalog.Dedupe(resources)
	if len(deduped) < len(resources) {
		d.logger.InfoWithFields("Collapsed duplicate resources", map[string]interface{}{
			"discovered": len(resources),
			"unique":     len(deduped),
		})
	}

	for _, res := range deduped {
		if record.IsCompleted(res.Name) {
			summary.Skipped++
			continue
		}

		// Clean interruption point: the record was persisted after the
		// previous save, so stopping here is always resumable.
		select {
		case <-ctx.Done():
			summary.Elapsed = time.Since(start)
			return summary, ctx.Err()
		default:
		}

		d.limiter.Wait()

		// The limiter sleeps without watching the context, so check again
		// before spending a request on a cancelled run.
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		data, contentType, err := d.fetcher.Fetch(ctx, res.URL)
		if err != nil {
			if ctx.Err() != nil {
				// Cancellation mid-fetch is not a resource failure.
				summary.Elapsed = time.Since(start)
				return summary, ctx.Err()
			}
			d.fail(&summary, record, res, err.Error())
			continue
		}

		ext := catalog.Extension(res.URL, contentType)
		filename, err := d.sink.Save(bytes.NewReader(data), res.Name, ext)
		if err != nil {
			d.fail(&summary, record, res, err.Error())
			continue
		}

		if err := d.records.MarkCompleted(record, res.Name, filename); err != nil {
			// Losing the record silently would defeat resumability.
			summary.Elapsed = time.Since(start)
			return summary, errors.Newf(errors.ErrorTypeRecord, "failed to persist completion record: %v", err)
		}

		summary.Saved++
		logger.LogDownload(res.Name, res.URL, true, nil)

		if done := summary.Saved + summary.Failed; done%progressLogEvery == 0 {
			logger.LogRunProgress(done+summary.Skipped, len(deduped))
		}
	}

	// Failures only live in memory during the loop; flush them so the
	// status command can report them. Losing this list is not fatal.
	if summary.Failed > 0 {
		if err := d.records.Save(record); err != nil {
			d.logger.WithError(err).Warn("Could not persist failure list")
		}
	}

	summary.Elapsed = time.Since(start)

	d.logger.InfoWithFields("Run finished", map[string]interface{}{
		"saved":   summary.Saved,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
		"elapsed": summary.Elapsed,
	})

	return summary, nil
}

// fail records a per-resource failure and moves on
func (d *Downloader) fail(summary *Summary, record *progress.Record, res catalog.Resource, reason string) {
	summary.Failed++
	summary.Failures = append(summary.Failures, Failure{Name: res.Name, URL: res.URL, Reason: reason})
	d.records.RecordFailure(record, res.Name, res.URL, reason)

	d.logger.WarnWithFields("Download failed, continuing", map[string]interface{}{
		"name":   res.Name,
		"url":    res.URL,
		"reason": reason,
	})
}
