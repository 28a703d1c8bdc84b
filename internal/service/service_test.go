package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"testing/synctest"
	"time"

	"bvget/internal/config"
	"bvget/internal/downloader"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/storage"
)

const (
	testURL  = "https://www.bilibili.com/video/BV1fK4y1t7Hj"
	testURL2 = "https://www.bilibili.com/video/BV1xx411c7mD"
)

func newTestCfg() *config.Config {
	cfg := &config.Config{}
	cfg.Job.Workers = 2
	cfg.Job.Timeout = 2 * time.Second
	cfg.Job.QueueSize = 10
	cfg.Bili.DefaultQuality = 80
	cfg.Storage.TTL = time.Hour

	return cfg
}

func newTestService(ctx context.Context, cfg *config.Config, simulateTime time.Duration) (*job, storage.Storer) {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	stg := storage.New(ctx, log, cfg, nil)
	dl := downloader.NewMock(log, simulateTime)

	return New(log, cfg, stg, dl, nil).(*job), stg
}

func TestStartAndEnqueue(t *testing.T) {
	tests := []struct {
		name        string
		urls        []string
		qn          []int
		expectError bool
	}{
		{
			name:        "same url, same quality",
			urls:        []string{testURL, testURL},
			qn:          []int{80, 80},
			expectError: true,
		},
		{
			name:        "same url, different quality",
			urls:        []string{testURL, testURL},
			qn:          []int{80, 64},
			expectError: false,
		},
		{
			name:        "different urls",
			urls:        []string{testURL, testURL2},
			qn:          []int{80, 80},
			expectError: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				ctx, cancel := context.WithCancel(t.Context())
				defer cancel()

				svc, _ := newTestService(ctx, newTestCfg(), time.Second)
				svc.Start(ctx)

				_, err := svc.Enqueue(ctx, tc.urls[0], tc.qn[0])
				if err != nil {
					t.Errorf("first enqueue failed: %v", err)
				}

				_, err = svc.Enqueue(ctx, tc.urls[1], tc.qn[1])
				if tc.expectError && !errors.Is(err, errs.ErrJobAlreadyExists) {
					t.Errorf("expected ErrJobAlreadyExists, got: %v", err)
				}

				if !tc.expectError && err != nil {
					t.Errorf("second enqueue failed: %v", err)
				}

				cancel()
				synctest.Wait()

				_, err = svc.Enqueue(ctx, testURL2, 16)
				if !errors.Is(err, errs.ErrServiceClosed) {
					t.Errorf("expected ErrServiceClosed, got: %v", err)
				}
			})
		})
	}
}

func TestEnqueueInvalidURL(t *testing.T) {
	ctx := t.Context()
	svc, _ := newTestService(ctx, newTestCfg(), time.Second)

	_, err := svc.Enqueue(ctx, "not a url", 80)
	if !errors.Is(err, errs.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got: %v", err)
	}
}

func TestEnqueueDefaultQuality(t *testing.T) {
	ctx := t.Context()
	svc, _ := newTestService(ctx, newTestCfg(), time.Second)

	job, err := svc.Enqueue(ctx, testURL, 0)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if job.Quality != 80 {
		t.Errorf("expected default quality 80, got %d", job.Quality)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	ctx := t.Context()

	cfg := newTestCfg()
	cfg.Job.QueueSize = 1

	// workers never started, the queue fills up
	svc, _ := newTestService(ctx, cfg, time.Second)

	if _, err := svc.Enqueue(ctx, testURL, 80); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}

	_, err := svc.Enqueue(ctx, testURL2, 80)
	if !errors.Is(err, errs.ErrJobQueueFull) {
		t.Errorf("expected ErrJobQueueFull, got: %v", err)
	}
}

func TestWorker(t *testing.T) {
	tests := []struct {
		name           string
		timeout        time.Duration
		expectStatus   entity.JobStatus
		expectProgress int
	}{
		{
			name:           "finishes in time",
			timeout:        2 * time.Second,
			expectStatus:   entity.JobStatusFinished,
			expectProgress: 100,
		},
		{
			name:           "times out",
			timeout:        450 * time.Millisecond,
			expectStatus:   entity.JobStatusError,
			expectProgress: 40,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				cfg := newTestCfg()
				cfg.Job.Timeout = tc.timeout

				ctx, cancel := context.WithCancel(t.Context())
				defer cancel()

				svc, stg := newTestService(ctx, cfg, time.Second)
				svc.Start(ctx)

				job, err := svc.Enqueue(ctx, testURL, 80)
				if err != nil {
					t.Fatalf("enqueue failed: %v", err)
				}

				time.Sleep(3 * time.Second)
				synctest.Wait()

				got := stg.GetJobByID(ctx, job.UUID)
				if got == nil {
					t.Fatal("job not found in storage")
				}

				if got.Status != tc.expectStatus {
					t.Errorf("expected status %q, got %q", tc.expectStatus, got.Status)
				}

				if got.Progress != tc.expectProgress {
					t.Errorf("expected progress %d, got %d", tc.expectProgress, got.Progress)
				}
			})
		})
	}
}

func TestCancelJob(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		svc, stg := newTestService(ctx, newTestCfg(), time.Minute)
		svc.Start(ctx)

		job, err := svc.Enqueue(ctx, testURL, 80)
		if err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}

		time.Sleep(time.Second)
		synctest.Wait()

		if err := stg.CancelJob(ctx, job.UUID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		synctest.Wait()

		got := stg.GetJobByID(ctx, job.UUID)
		if got.Status != entity.JobStatusCancelled {
			t.Errorf("expected status cancelled, got %q", got.Status)
		}

		// cancelling a finished run of the job is rejected
		if err := stg.CancelJob(ctx, job.UUID); !errors.Is(err, errs.ErrJobCancelled) {
			t.Errorf("expected ErrJobCancelled, got: %v", err)
		}
	})
}
