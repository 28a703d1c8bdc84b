// Package errs defines common error variables used across the application.
package errs

import "errors"

var (
	// ErrServiceClosed indicates that the service is closed and cannot accept new jobs.
	ErrServiceClosed = errors.New("service is closed")
	// ErrInvalidRequestBody indicates that the request body is invalid or cannot be parsed.
	ErrInvalidRequestBody = errors.New("invalid request body")
)

// Request validation errors.
var (
	// ErrInvalidURL indicates that the URL field in the request is invalid.
	ErrInvalidURL = errors.New("invalid url field")
	// ErrInvalidQuality indicates that the quality field in the request is not a known qn.
	ErrInvalidQuality = errors.New("invalid quality field")
)

// Resolve and play URL errors.
var (
	// ErrInvalidBVID indicates that no BV identifier could be extracted from the input.
	ErrInvalidBVID = errors.New("invalid url or bvid")
	// ErrAPICode indicates that the platform API returned a non-zero code.
	ErrAPICode = errors.New("api error")
	// ErrNoPlayURL indicates that the play info carried neither dash nor durl streams.
	ErrNoPlayURL = errors.New("no download url found")
	// ErrNoVideoStream indicates that the dash section carried no video streams.
	ErrNoVideoStream = errors.New("no video stream available")
	// ErrNoAudioStream indicates that the dash section carried no audio streams.
	ErrNoAudioStream = errors.New("no audio stream available")
)

// Auth errors.
var (
	// ErrQRSessionNotFound indicates a poll for a QR key that was never generated or expired.
	ErrQRSessionNotFound = errors.New("qr session not found")
	// ErrQRExpired indicates that the QR code expired and a new one must be generated.
	ErrQRExpired = errors.New("qr code expired")
)

// Job and storage errors.
var (
	// ErrNoJobs indicates that there are no jobs in storage.
	ErrNoJobs = errors.New("no jobs")
	// ErrJobAlreadyExists indicates that a job with the same URL and quality already exists.
	ErrJobAlreadyExists = errors.New("job already exists")
	// ErrJobNotFound indicates that the job is not found in storage.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobNil indicates that the job is nil.
	ErrJobNil = errors.New("job is nil")
	// ErrJobCancelled indicates that the job was cancelled or is not cancellable.
	ErrJobCancelled = errors.New("job cancelled")
	// ErrJobQueueFull indicates that the job queue is full.
	ErrJobQueueFull = errors.New("job queue is full")
	// ErrMediaNil indicates that the media record is nil.
	ErrMediaNil = errors.New("media is nil")
	// ErrMediaNotFound indicates that the media record was not found in storage.
	ErrMediaNotFound = errors.New("media not found")
)

// Downloader errors.
var (
	// ErrDownloadFailed indicates that the download failed.
	ErrDownloadFailed = errors.New("download failed")
	// ErrMuxFailed indicates that merging dash video and audio parts failed.
	ErrMuxFailed = errors.New("mux failed")
	// ErrFFmpegNotFound indicates that no usable ffmpeg binary was found.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	// ErrUnsupportedPlatform indicates that the current platform is not supported.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
