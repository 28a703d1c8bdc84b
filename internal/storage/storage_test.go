package storage_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"bvget/internal/config"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/storage"
	"bvget/pkg/gen"
)

const testURL = "https://www.bilibili.com/video/BV1fK4y1t7Hj"

func newTestStorage(t *testing.T) storage.Storer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Storage.TTL = time.Hour

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	return storage.New(t.Context(), log, cfg, nil)
}

func newTestJob(url string, qn int) *entity.Job {
	now := time.Now()

	return &entity.Job{
		UUID:      gen.JobUUID(url, qn),
		URL:       url,
		Quality:   qn,
		Status:    entity.JobStatusStarting,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestSetAndGetJob(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	job := newTestJob(testURL, 80)
	stg.SetJob(ctx, job)

	if got := stg.GetJobByID(ctx, job.UUID); got != job {
		t.Errorf("GetJobByID returned %+v, want same pointer", got)
	}

	if got := stg.GetJobByURLAndQuality(ctx, testURL, 80); got != job {
		t.Errorf("GetJobByURLAndQuality returned %+v, want same pointer", got)
	}

	if got := stg.GetJobByURLAndQuality(ctx, testURL, 64); got != nil {
		t.Errorf("expected nil for other quality, got %+v", got)
	}

	jobs, err := stg.GetJobs(ctx)
	if err != nil {
		t.Fatalf("GetJobs failed: %v", err)
	}

	if len(jobs) != 1 {
		t.Errorf("expected 1 job, got %d", len(jobs))
	}
}

func TestGetJobsEmpty(t *testing.T) {
	stg := newTestStorage(t)

	_, err := stg.GetJobs(t.Context())
	if !errors.Is(err, errs.ErrNoJobs) {
		t.Errorf("expected ErrNoJobs, got %v", err)
	}
}

func TestUpdateJobStatus(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	job := newTestJob(testURL, 80)
	job.CreatedAt = time.Now().Add(-time.Minute)
	stg.SetJob(ctx, job)

	stg.UpdateJobStatus(ctx, job, entity.JobStatusDownloading, 50, "")

	if job.Status != entity.JobStatusDownloading || job.Progress != 50 {
		t.Errorf("unexpected job state: %+v", job)
	}

	if job.EstimatedETA <= 0 {
		t.Errorf("expected positive ETA, got %v", job.EstimatedETA)
	}

	stg.UpdateJobStatus(ctx, job, entity.JobStatusError, 0, "boom")

	if job.Status != entity.JobStatusError || job.Error != "boom" {
		t.Errorf("unexpected job state: %+v", job)
	}

	// progress 0 keeps the previous value
	if job.Progress != 50 {
		t.Errorf("expected progress to stay at 50, got %d", job.Progress)
	}
}

func TestAttachMedia(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	job := newTestJob(testURL, 80)
	stg.SetJob(ctx, job)

	media := &entity.Media{
		UUID:     gen.MediaUUID("BV1fK4y1t7Hj", "/tmp/out.mp4"),
		BVID:     "BV1fK4y1t7Hj",
		Filename: "/tmp/out.mp4",
		Size:     1234,
		Quality:  80,
		Kind:     "dash",
	}

	if err := stg.AttachMedia(ctx, job.UUID, media); err != nil {
		t.Fatalf("AttachMedia failed: %v", err)
	}

	if len(job.Media) != 1 {
		t.Fatalf("expected 1 media on job, got %d", len(job.Media))
	}

	got, err := stg.GetMediaByID(ctx, media.UUID)
	if err != nil {
		t.Fatalf("GetMediaByID failed: %v", err)
	}

	if got != media {
		t.Errorf("expected same media pointer")
	}

	if err := stg.AttachMedia(ctx, "unknown-job", media); !errors.Is(err, errs.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}

	if err := stg.AttachMedia(ctx, job.UUID, nil); !errors.Is(err, errs.ErrMediaNil) {
		t.Errorf("expected ErrMediaNil, got %v", err)
	}

	if _, err := stg.GetMediaByID(ctx, "unknown"); !errors.Is(err, errs.ErrMediaNotFound) {
		t.Errorf("expected ErrMediaNotFound, got %v", err)
	}
}

func TestCancelJob(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	if err := stg.CancelJob(ctx, "unknown"); !errors.Is(err, errs.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}

	job := newTestJob(testURL, 80)
	stg.SetJob(ctx, job)

	cancelled := false
	stg.RegisterCancelFunc(job.UUID, func() { cancelled = true })

	if err := stg.CancelJob(ctx, job.UUID); err != nil {
		t.Fatalf("CancelJob failed: %v", err)
	}

	if !cancelled {
		t.Error("cancel func was not called")
	}

	if job.Status != entity.JobStatusCancelled {
		t.Errorf("expected status cancelled, got %q", job.Status)
	}

	// terminal jobs cannot be cancelled again
	if err := stg.CancelJob(ctx, job.UUID); !errors.Is(err, errs.ErrJobCancelled) {
		t.Errorf("expected ErrJobCancelled, got %v", err)
	}
}

func TestCancelJobWithoutCancelFunc(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	job := newTestJob(testURL, 80)
	stg.SetJob(ctx, job)

	err := stg.CancelJob(ctx, job.UUID)
	if !errors.Is(err, errs.ErrJobCancelled) {
		t.Errorf("expected ErrJobCancelled when no cancel func registered, got %v", err)
	}
}

func TestUnregisterCancelFunc(t *testing.T) {
	ctx := t.Context()
	stg := newTestStorage(t)

	job := newTestJob(testURL, 80)
	stg.SetJob(ctx, job)

	stg.RegisterCancelFunc(job.UUID, func() {})
	stg.UnregisterCancelFunc(job.UUID)

	if err := stg.CancelJob(ctx, job.UUID); !errors.Is(err, errs.ErrJobCancelled) {
		t.Errorf("expected ErrJobCancelled after unregister, got %v", err)
	}
}
