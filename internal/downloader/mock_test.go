package downloader_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"bvget/internal/downloader"
	"bvget/internal/entity"
)

func TestMockProcess(t *testing.T) {
	srv := platformServer(t, func(string) string { return "" })

	_, stg, _ := newTestNative(t, srv, staticFFmpeg{})

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dl := downloader.NewMock(log, 50*time.Millisecond)

	job := newTestJob("https://www.bilibili.com/video/BV1fK4y1t7Hj", 80)
	stg.SetJob(t.Context(), job)

	if err := dl.Process(t.Context(), job, stg); err != nil {
		t.Fatalf("Process() failed: %v", err)
	}

	if job.Status != entity.JobStatusFinished || job.Progress != 100 {
		t.Errorf("unexpected job state: status=%q progress=%d", job.Status, job.Progress)
	}
}

func TestMockProcessCancelled(t *testing.T) {
	srv := platformServer(t, func(string) string { return "" })

	_, stg, _ := newTestNative(t, srv, staticFFmpeg{})

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	dl := downloader.NewMock(log, time.Minute)

	job := newTestJob("https://www.bilibili.com/video/BV1fK4y1t7Hj", 80)
	stg.SetJob(t.Context(), job)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := dl.Process(ctx, job, stg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
