package downloader

import (
	"context"
	"log/slog"
	"time"

	"bvget/internal/consts"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/storage"
)

const mockProgressSteps = 10

// Mock simulates a download without touching the network. Used in tests and
// for local development.
type Mock struct {
	log          *slog.Logger
	simulateTime time.Duration
}

// NewMock creates a mock downloader that finishes after simulateTime.
func NewMock(log *slog.Logger, simulateTime time.Duration) Downloader {
	if simulateTime <= 0 {
		simulateTime = consts.DefaultSimulateTime
	}

	return &Mock{
		log:          log.With(slog.String("package", "downloader"), slog.String("downloader", consts.DownloaderMock)),
		simulateTime: simulateTime,
	}
}

// Process walks the job through the status lifecycle in fixed steps.
func (m *Mock) Process(ctx context.Context, job *entity.Job, storer storage.Storer) error {
	if job == nil {
		return errs.ErrJobNil
	}

	m.log.InfoContext(ctx, "simulating download", "job", job)

	stepTime := m.simulateTime / mockProgressSteps

	for step := 1; step <= mockProgressSteps; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stepTime):
		}

		progress := step * fullProgress / mockProgressSteps

		status := entity.JobStatusDownloading
		if step == mockProgressSteps {
			status = entity.JobStatusFinished
		}

		storer.UpdateJobStatus(ctx, job, status, progress, "")
	}

	return nil
}
