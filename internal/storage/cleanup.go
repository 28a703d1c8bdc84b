package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bvget/internal/entity"
)

// CleanupExpiredJobs periodically removes expired jobs and their files.
func (stg *storage) CleanupExpiredJobs(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		stg.log.Warn("cleanup disabled: non-positive interval", slog.Duration("interval", interval))

		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := stg.log.With(slog.String("action", "cleanup_expired_jobs"), slog.Duration("interval", interval))

	for {
		select {
		case <-ticker.C:
			stg.performCleanup(ctx)
		case <-ctx.Done():
			log.Info("cleanup expired jobs stopped")

			return
		}
	}
}

func (stg *storage) performCleanup(ctx context.Context) {
	log := stg.log
	now := time.Now()

	stg.mu.Lock()
	expiredJobs := stg.getExpiredJobs(now)
	stg.mu.Unlock()

	if len(expiredJobs) == 0 {
		log.DebugContext(ctx, "no expired jobs found to clean up")

		return
	}

	log.InfoContext(ctx, "about to remove expired jobs", slog.Int("count", len(expiredJobs)))

	for _, job := range expiredJobs {
		stg.cleanupJob(ctx, job)
	}
}

func (stg *storage) getExpiredJobs(now time.Time) []*entity.Job {
	var expiredJobs []*entity.Job

	for _, job := range stg.jobs {
		if job.ExpiresAt.Before(now) {
			expiredJobs = append(expiredJobs, job)
		}
	}

	return expiredJobs
}

func (stg *storage) cleanupJob(ctx context.Context, job *entity.Job) {
	if job == nil {
		return
	}

	log := stg.log
	deletedFiles := 0

	for _, media := range job.Media {
		if !filepath.IsAbs(media.Filename) {
			log.ErrorContext(ctx, "non-absolute path found", slog.String("filename", media.Filename))

			continue
		}

		err := os.Remove(media.Filename)
		if err != nil && !os.IsNotExist(err) {
			log.ErrorContext(ctx, "failed to delete file", slog.String("filename", media.Filename), slog.Any("error", err))

			continue
		}

		if err == nil {
			deletedFiles++
		}
	}

	stg.mu.Lock()
	defer stg.mu.Unlock()

	for _, media := range job.Media {
		delete(stg.media, media.UUID)
	}

	delete(stg.jobs, job.UUID)

	if stg.metrics != nil {
		stg.metrics.RecordCleanup(1, deletedFiles)
		stg.metrics.SetStoredJobs(len(stg.jobs))
		stg.metrics.SetStoredMedia(len(stg.media))
	}

	log.DebugContext(ctx, "job cleaned up",
		slog.String("job_id", job.UUID),
		slog.Int("deleted_files", deletedFiles),
		slog.Int("media_count", len(job.Media)))
}
