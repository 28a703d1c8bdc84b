// Package storage provides the in-memory job and media store.
package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bvget/internal/config"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/observability"
	"bvget/pkg/calc"
	"bvget/pkg/gen"
	"bvget/pkg/urls"
)

// Storer defines the interface for storage operations.
type Storer interface {
	SetJob(ctx context.Context, job *entity.Job)
	GetJobByURLAndQuality(ctx context.Context, url string, qn int) *entity.Job
	GetJobByID(ctx context.Context, id string) *entity.Job
	GetJobs(ctx context.Context) ([]*entity.Job, error)
	UpdateJobStatus(ctx context.Context, job *entity.Job, status entity.JobStatus, progress int, errorMsg string)

	// AttachMedia records a finished download for a job.
	AttachMedia(ctx context.Context, jobID string, media *entity.Media) error
	GetMediaByID(ctx context.Context, id string) (*entity.Media, error)

	// CancelJob cancels a job by its ID.
	CancelJob(ctx context.Context, jobID string) error

	// RegisterCancelFunc stores a cancel function for a job.
	RegisterCancelFunc(jobID string, cancelFunc context.CancelFunc)

	// UnregisterCancelFunc removes the cancel function for a job.
	UnregisterCancelFunc(jobID string)

	CleanupExpiredJobs(ctx context.Context, interval time.Duration)
}

type storage struct {
	log     *slog.Logger
	cfg     *config.Config
	metrics *observability.Metrics

	mu    sync.RWMutex
	jobs  map[string]*entity.Job   // job UUID : job
	media map[string]*entity.Media // media UUID : media

	cancelMu    sync.RWMutex
	cancelFuncs map[string]context.CancelFunc // job UUID : cancel func
}

// New creates a new in-memory storage instance and starts the TTL cleanup
// loop.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config, metrics *observability.Metrics) Storer {
	stg := &storage{
		log:         log.With(slog.String("package", "storage")),
		cfg:         cfg,
		metrics:     metrics,
		jobs:        make(map[string]*entity.Job),
		media:       make(map[string]*entity.Media),
		cancelFuncs: make(map[string]context.CancelFunc),
	}

	go stg.CleanupExpiredJobs(ctx, cfg.Storage.CleanupInterval)

	return stg
}

func (stg *storage) SetJob(ctx context.Context, job *entity.Job) {
	if job == nil || job.UUID == "" {
		stg.log.ErrorContext(ctx, "set job: nil job or empty uuid")

		return
	}

	stg.mu.Lock()
	defer stg.mu.Unlock()

	stg.jobs[job.UUID] = job

	if stg.metrics != nil {
		stg.metrics.SetStoredJobs(len(stg.jobs))
	}
}

func (stg *storage) GetJobByURLAndQuality(_ context.Context, url string, qn int) *entity.Job {
	stg.mu.RLock()
	defer stg.mu.RUnlock()

	id := gen.JobUUID(urls.Normalize(url), qn)

	return stg.jobs[id]
}

func (stg *storage) GetJobByID(_ context.Context, id string) *entity.Job {
	stg.mu.RLock()
	defer stg.mu.RUnlock()

	return stg.jobs[id]
}

func (stg *storage) GetJobs(_ context.Context) ([]*entity.Job, error) {
	stg.mu.RLock()
	defer stg.mu.RUnlock()

	if len(stg.jobs) == 0 {
		return nil, errs.ErrNoJobs
	}

	jobs := make([]*entity.Job, 0, len(stg.jobs))
	for _, job := range stg.jobs {
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (stg *storage) UpdateJobStatus(ctx context.Context,
	job *entity.Job,
	status entity.JobStatus,
	progress int,
	errorMsg string) {
	if job == nil {
		stg.log.ErrorContext(ctx, "update job status: nil job")

		return
	}

	stg.mu.Lock()
	defer stg.mu.Unlock()

	job.Status = status
	job.UpdatedAt = time.Now()

	if progress != 0 {
		job.Progress = progress
	}

	if errorMsg != "" {
		job.Error = errorMsg
	}

	if job.Progress > 0 && job.Progress < 100 {
		job.EstimatedETA = calc.ETA(int64(job.Progress), 100, job.CreatedAt)
	}

	stg.log.DebugContext(ctx, "job status updated", "job", job)
}

func (stg *storage) AttachMedia(ctx context.Context, jobID string, media *entity.Media) error {
	if media == nil {
		return errs.ErrMediaNil
	}

	if jobID == "" {
		return errs.ErrJobNotFound
	}

	stg.mu.Lock()
	defer stg.mu.Unlock()

	job, exists := stg.jobs[jobID]
	if !exists {
		return errs.ErrJobNotFound
	}

	job.Media = append(job.Media, *media)
	stg.media[media.UUID] = media

	if stg.metrics != nil {
		stg.metrics.SetStoredMedia(len(stg.media))
	}

	stg.log.DebugContext(ctx, "media stored", "media", media)

	return nil
}

func (stg *storage) GetMediaByID(_ context.Context, id string) (*entity.Media, error) {
	stg.mu.RLock()
	defer stg.mu.RUnlock()

	media := stg.media[id]
	if media == nil {
		return nil, errs.ErrMediaNotFound
	}

	return media, nil
}

// CancelJob cancels a job by its ID by calling its cancel function.
func (stg *storage) CancelJob(ctx context.Context, jobID string) error {
	stg.mu.RLock()
	job := stg.jobs[jobID]
	stg.mu.RUnlock()

	if job == nil {
		return errs.ErrJobNotFound
	}

	if job.Status == entity.JobStatusFinished ||
		job.Status == entity.JobStatusError ||
		job.Status == entity.JobStatusCancelled {
		return errs.ErrJobCancelled
	}

	stg.cancelMu.RLock()
	cancelFunc := stg.cancelFuncs[jobID]
	stg.cancelMu.RUnlock()

	if cancelFunc == nil {
		stg.log.WarnContext(ctx, "no cancel func registered for job", slog.String("job_id", jobID))

		return errs.ErrJobCancelled
	}

	cancelFunc()

	stg.mu.Lock()
	job.Status = entity.JobStatusCancelled
	job.UpdatedAt = time.Now()
	stg.mu.Unlock()

	stg.log.InfoContext(ctx, "job cancelled", slog.String("job_id", jobID))

	return nil
}

// RegisterCancelFunc stores a cancel function for a job.
func (stg *storage) RegisterCancelFunc(jobID string, cancelFunc context.CancelFunc) {
	stg.cancelMu.Lock()
	defer stg.cancelMu.Unlock()

	stg.cancelFuncs[jobID] = cancelFunc
}

// UnregisterCancelFunc removes the cancel function for a job.
func (stg *storage) UnregisterCancelFunc(jobID string) {
	stg.cancelMu.Lock()
	defer stg.cancelMu.Unlock()

	delete(stg.cancelFuncs, jobID)
}
