package downloader

import (
	"context"
	"io"

	"boxart/pkg/progress"
)

// Fetcher retrieves the bytes of a single resource URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// Sink stores fetched image bytes under a resource name
type Sink interface {
	Save(r io.Reader, name, ext string) (filename string, err error)
}

// RecordStore persists completion record updates
type RecordStore interface {
	MarkCompleted(record *progress.Record, name, filename string) error
	RecordFailure(record *progress.Record, name, url, reason string)
	Save(record *progress.Record) error
}
