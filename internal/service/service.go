// Package service runs the job queue and its worker pool.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"bvget/internal/config"
	"bvget/internal/consts"
	"bvget/internal/downloader"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/observability"
	"bvget/internal/storage"
	"bvget/pkg/gen"
	"bvget/pkg/urls"
)

// Job accepts download jobs and hands them to the worker pool.
type Job interface {
	Start(ctx context.Context)
	Enqueue(ctx context.Context, url string, qn int) (*entity.Job, error)
}

type job struct {
	log        *slog.Logger
	cfg        *config.Config
	queue      chan *entity.Job
	storer     storage.Storer
	downloader downloader.Downloader
	metrics    *observability.Metrics

	workers int
	timeout time.Duration
	ttl     time.Duration

	wg        sync.WaitGroup
	closed    atomic.Bool
	startOnce sync.Once
}

var _ Job = (*job)(nil)

// New creates the job service. Non-positive config values fall back to the
// defaults.
func New(log *slog.Logger, cfg *config.Config, storer storage.Storer,
	dl downloader.Downloader, metrics *observability.Metrics) Job {
	workers := cfg.Job.Workers
	if workers <= 0 {
		workers = consts.DefaultJobWorkers
	}

	timeout := cfg.Job.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultJobTimeout
	}

	ttl := cfg.Storage.TTL
	if ttl <= 0 {
		ttl = consts.DefaultJobTTL
	}

	queueSize := cfg.Job.QueueSize
	if queueSize <= 0 {
		queueSize = consts.DefaultQueueSize
	}

	return &job{
		log:        log.With(slog.String("package", "service")),
		cfg:        cfg,
		queue:      make(chan *entity.Job, queueSize),
		storer:     storer,
		downloader: dl,
		metrics:    metrics,
		workers:    workers,
		timeout:    timeout,
		ttl:        ttl,
	}
}

// Start launches the worker pool. Subsequent calls are no-ops.
func (svc *job) Start(ctx context.Context) {
	svc.startOnce.Do(func() {
		for i := range svc.workers {
			svc.wg.Add(1)
			go svc.worker(ctx, i)
		}
	})
}

// Enqueue creates a job for a url/quality pair and puts it on the queue.
// An existing non-failed job for the same pair is returned as-is.
func (svc *job) Enqueue(ctx context.Context, url string, qn int) (*entity.Job, error) {
	if svc.closed.Load() {
		return nil, errs.ErrServiceClosed
	}

	if !urls.IsURLValid(url) {
		return nil, errs.ErrInvalidURL
	}

	url = urls.Normalize(url)

	if qn <= 0 {
		qn = svc.cfg.Bili.DefaultQuality
	}

	existing := svc.storer.GetJobByURLAndQuality(ctx, url, qn)
	if existing != nil &&
		existing.Status != entity.JobStatusError &&
		existing.Status != entity.JobStatusCancelled {
		return existing, errs.ErrJobAlreadyExists
	}

	now := time.Now()
	job := &entity.Job{
		UUID:      gen.JobUUID(url, qn),
		URL:       url,
		Quality:   qn,
		Status:    entity.JobStatusStarting,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(svc.ttl),
	}

	svc.storer.SetJob(ctx, job)

	select {
	case svc.queue <- job:
		if svc.metrics != nil {
			svc.metrics.RecordJobCreated()
		}

		return job, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("enqueue job canceled: %w", ctx.Err())
	default:
		svc.storer.UpdateJobStatus(ctx, job, entity.JobStatusError, 0, "job queue is full")

		return nil, fmt.Errorf("%w: %d/%d", errs.ErrJobQueueFull, len(svc.queue), cap(svc.queue))
	}
}

func (svc *job) worker(ctx context.Context, workerID int) {
	defer svc.wg.Done()

	log := svc.log.With(slog.Int("worker_id", workerID))

	for {
		select {
		case job, ok := <-svc.queue:
			if !ok {
				log.WarnContext(ctx, "job queue closed")

				return
			}

			if job == nil {
				log.WarnContext(ctx, "received nil job")

				continue
			}

			svc.processJob(ctx, job)
		case <-ctx.Done():
			svc.closed.Store(true)
			log.InfoContext(ctx, "got ctx done signal", slog.Any("error", ctx.Err()))

			return
		}
	}
}

func (svc *job) processJob(ctx context.Context, job *entity.Job) {
	log := svc.log.With(slog.String("job_id", job.UUID))

	jobCtx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	svc.storer.RegisterCancelFunc(job.UUID, cancel)
	defer svc.storer.UnregisterCancelFunc(job.UUID)

	var stopTimer func()
	if svc.metrics != nil {
		stopTimer = svc.metrics.JobTimer()
		defer stopTimer()
	}

	err := svc.downloader.Process(jobCtx, job, svc.storer)
	if err != nil {
		log.ErrorContext(ctx, "downloader process", slog.Any("error", err))

		// a cancelled job keeps its status
		if job.Status != entity.JobStatusCancelled {
			svc.storer.UpdateJobStatus(ctx, job, entity.JobStatusError, 0, err.Error())
		}

		if svc.metrics != nil {
			svc.metrics.RecordJobFailed()
		}

		return
	}

	if svc.metrics != nil {
		svc.metrics.RecordJobCompleted()
	}

	log.DebugContext(ctx, "job processed", "job", job)
}
