package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bvget/internal/bili"
	"bvget/internal/config"
	"bvget/internal/consts"
	"bvget/internal/entity"
	"bvget/internal/errs"
	"bvget/internal/observability"
	"bvget/internal/storage"
	"bvget/pkg/calc"
	"bvget/pkg/fname"
	"bvget/pkg/gen"
)

// Progress bands for dash jobs: video part, audio part, then muxing.
const (
	dashVideoBandStart = 0
	dashVideoBandEnd   = 50
	dashAudioBandEnd   = 95
)

const dirPerm = 0o755

// FFmpegResolver locates a usable ffmpeg binary.
type FFmpegResolver interface {
	FFmpegPath(ctx context.Context) (string, error)
}

// Native downloads media streams straight from the platform CDN.
type Native struct {
	log     *slog.Logger
	cfg     *config.Config
	api     *bili.Client
	ffmpeg  FFmpegResolver
	metrics *observability.Metrics
}

// NewNative creates the native downloader.
func NewNative(log *slog.Logger, cfg *config.Config, api *bili.Client, ffmpeg FFmpegResolver,
	metrics *observability.Metrics) Downloader {
	return &Native{
		log:     log.With(slog.String("package", "downloader"), slog.String("downloader", consts.DownloaderNative)),
		cfg:     cfg,
		api:     api,
		ffmpeg:  ffmpeg,
		metrics: metrics,
	}
}

// Process resolves the job URL to a BVID, fetches metadata and stream info,
// downloads the selected streams and muxes dash parts into one MP4.
func (n *Native) Process(ctx context.Context, job *entity.Job, storer storage.Storer) error {
	if job == nil {
		return errs.ErrJobNil
	}

	err := n.process(ctx, job, storer)
	if err != nil && n.metrics != nil {
		n.metrics.RecordDownloaderError(consts.DownloaderNative, classifyProcessingError(err))
	}

	return err
}

func (n *Native) process(ctx context.Context, job *entity.Job, storer storage.Storer) error {
	log := n.log.With(slog.String("job_id", job.UUID))

	bvid, err := bili.ExtractBVID(job.URL)
	if err != nil {
		return fmt.Errorf("extract bvid from %q: %w", job.URL, err)
	}

	job.BVID = bvid

	storer.UpdateJobStatus(ctx, job, entity.JobStatusDownloading, 0, "")

	video, err := n.api.View(ctx, bvid)
	if err != nil {
		return fmt.Errorf("resolve video: %w", err)
	}

	log.InfoContext(ctx, "video resolved", "video", video)

	info, err := n.api.PlayURL(ctx, bvid, video.CID, job.Quality)
	if err != nil {
		return fmt.Errorf("get play url: %w", err)
	}

	if err := os.MkdirAll(n.cfg.Dir.Downloads, dirPerm); err != nil {
		return fmt.Errorf("create downloads dir: %w", err)
	}

	name := fname.Sanitize(video.Title, bvid)

	outPath, err := fname.Unique(n.cfg.Dir.Downloads, name, ".mp4")
	if err != nil {
		return fmt.Errorf("pick output path: %w", err)
	}

	var (
		size    int64
		kind    string
		quality int
	)

	switch {
	case info.IsDASH():
		kind = "dash"
		size, quality, err = n.processDASH(ctx, job, storer, info, outPath)
	default:
		kind = "durl"
		quality = info.Quality
		size, err = n.processDurl(ctx, job, storer, info, outPath)
	}

	if err != nil {
		// drop the reserved (or partially written) output file
		os.Remove(outPath)

		return err
	}

	job.TotalSize = size

	media := &entity.Media{
		UUID:     gen.MediaUUID(bvid, outPath),
		BVID:     bvid,
		CID:      video.CID,
		Title:    video.Title,
		Filename: outPath,
		Size:     size,
		Quality:  quality,
		Kind:     kind,
		Label:    info.QualityLabel(quality),
	}

	if err := storer.AttachMedia(ctx, job.UUID, media); err != nil {
		return fmt.Errorf("attach media: %w", err)
	}

	storer.UpdateJobStatus(ctx, job, entity.JobStatusFinished, fullProgress, "")

	log.InfoContext(ctx, "job done", "media", media)

	return nil
}

func (n *Native) processDASH(ctx context.Context, job *entity.Job, storer storage.Storer,
	info *bili.PlayInfo, outPath string) (size int64, quality int, err error) {
	videoStream, err := info.SelectVideo(job.Quality)
	if err != nil {
		return 0, 0, err
	}

	audioStream, err := info.SelectAudio()
	if err != nil {
		return 0, 0, err
	}

	ffmpegPath, err := n.ffmpeg.FFmpegPath(ctx)
	if err != nil {
		return 0, 0, err
	}

	stem := strings.TrimSuffix(outPath, filepath.Ext(outPath))
	videoPath := stem + "_video.m4s"
	audioPath := stem + "_audio.m4s"

	videoSize, err := n.downloadFile(ctx, job, storer, videoStream.BaseURL, videoPath,
		dashVideoBandStart, dashVideoBandEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("download video stream: %w", err)
	}

	audioSize, err := n.downloadFile(ctx, job, storer, audioStream.BaseURL, audioPath,
		dashVideoBandEnd, dashAudioBandEnd)
	if err != nil {
		os.Remove(videoPath)

		return 0, 0, fmt.Errorf("download audio stream: %w", err)
	}

	storer.UpdateJobStatus(ctx, job, entity.JobStatusMuxing, dashAudioBandEnd, "")

	if err := muxAV(ctx, ffmpegPath, videoPath, audioPath, outPath); err != nil {
		// parts stay on disk for inspection
		return 0, 0, err
	}

	os.Remove(videoPath)
	os.Remove(audioPath)

	stat, err := os.Stat(outPath)
	if err != nil {
		return videoSize + audioSize, videoStream.ID, nil
	}

	return stat.Size(), videoStream.ID, nil
}

func (n *Native) processDurl(ctx context.Context, job *entity.Job, storer storage.Storer,
	info *bili.PlayInfo, outPath string) (int64, error) {
	rawURL, err := info.SelectDurl()
	if err != nil {
		return 0, err
	}

	size, err := n.downloadFile(ctx, job, storer, rawURL, outPath, 0, fullProgress)
	if err != nil {
		return 0, fmt.Errorf("download stream: %w", err)
	}

	return size, nil
}

// downloadFile streams rawURL to path, mapping its own 0-100 progress into
// the [bandStart, bandEnd] band of the job. Partial files are removed on
// failure.
func (n *Native) downloadFile(ctx context.Context, job *entity.Job, storer storage.Storer,
	rawURL, path string, bandStart, bandEnd int) (int64, error) {
	resp, err := n.api.Fetch(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{
		total: resp.ContentLength,
		report: func(downloaded, total int64) {
			progress := calc.Band(calc.Progress(downloaded, total), bandStart, bandEnd)
			storer.UpdateJobStatus(ctx, job, entity.JobStatusDownloading, progress, "")
		},
	}

	written, err := io.Copy(io.MultiWriter(file, pw), resp.Body)

	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		os.Remove(path)

		return 0, fmt.Errorf("%w: %w", errs.ErrDownloadFailed, err)
	}

	if n.metrics != nil {
		n.metrics.RecordDownloadBytes(written)
	}

	return written, nil
}

// progressWriter reports copy progress, throttled to defaultProgressFreq.
type progressWriter struct {
	written    int64
	total      int64
	lastReport time.Time
	report     func(downloaded, total int64)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))

	if time.Since(w.lastReport) >= defaultProgressFreq || w.written == w.total {
		w.report(w.written, w.total)
		w.lastReport = time.Now()
	}

	return len(p), nil
}
