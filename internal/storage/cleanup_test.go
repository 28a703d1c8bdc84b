package storage_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"bvget/internal/config"
	"bvget/internal/entity"
	"bvget/internal/storage"
	"bvget/pkg/gen"
)

func TestCleanupExpiredJobs(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dir := t.TempDir()

		filename := filepath.Join(dir, "out.mp4")
		if err := os.WriteFile(filename, []byte("media"), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg := &config.Config{}
		cfg.Storage.TTL = time.Hour
		cfg.Storage.CleanupInterval = time.Minute

		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		stg := storage.New(t.Context(), log, cfg, nil)

		expired := newTestJob(testURL, 80)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		stg.SetJob(t.Context(), expired)

		media := &entity.Media{
			UUID:     gen.MediaUUID("BV1fK4y1t7Hj", filename),
			BVID:     "BV1fK4y1t7Hj",
			Filename: filename,
		}
		if err := stg.AttachMedia(t.Context(), expired.UUID, media); err != nil {
			t.Fatal(err)
		}

		fresh := newTestJob(testURL, 64)
		stg.SetJob(t.Context(), fresh)

		time.Sleep(cfg.Storage.CleanupInterval)
		synctest.Wait()

		if got := stg.GetJobByID(t.Context(), expired.UUID); got != nil {
			t.Errorf("expected expired job to be removed, got %+v", got)
		}

		if got := stg.GetJobByID(t.Context(), fresh.UUID); got == nil {
			t.Error("expected fresh job to survive cleanup")
		}

		if _, err := os.Stat(filename); !os.IsNotExist(err) {
			t.Errorf("expected media file to be removed, stat err: %v", err)
		}
	})
}

func TestCleanupDisabledOnNonPositiveInterval(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Storage.TTL = time.Hour
		cfg.Storage.CleanupInterval = 0

		log := slog.New(slog.NewTextHandler(os.Stdout, nil))
		stg := storage.New(t.Context(), log, cfg, nil)

		expired := newTestJob(testURL, 80)
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		stg.SetJob(t.Context(), expired)

		time.Sleep(time.Hour)
		synctest.Wait()

		if got := stg.GetJobByID(t.Context(), expired.UUID); got == nil {
			t.Error("expected job to remain when cleanup is disabled")
		}
	})
}
