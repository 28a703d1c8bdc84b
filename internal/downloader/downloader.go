// Package downloader defines the downloader interface and the native
// implementation of the download pipeline.
package downloader

import (
	"context"
	"errors"
	"time"

	"bvget/internal/entity"
	"bvget/internal/storage"
)

const (
	defaultProgressFreq = 200 * time.Millisecond
	fullProgress        = 100
)

// Downloader processes a download job and reports status through the storer.
type Downloader interface {
	Process(ctx context.Context, job *entity.Job, storer storage.Storer) error
}

func classifyProcessingError(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "process"
	}
}
