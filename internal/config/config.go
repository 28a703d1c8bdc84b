// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	App     App
	Job     Job
	HTTP    HTTP
	Dir     Dir
	Bili    Bili
	Storage Storage
	FFmpeg  FFmpeg
}

// App holds application-wide configuration.
type App struct {
	LogLevel string `env:"BVGET_APP_LOG_LEVEL" envDefault:"info"`

	// TerminalQRLogin renders a login QR code in the terminal on startup
	// when no valid session exists. Useful on headless hosts.
	TerminalQRLogin bool `env:"BVGET_APP_QR_TERMINAL" envDefault:"false"`
}

// Job holds job processing configuration.
type Job struct {
	Workers   int           `env:"BVGET_JOB_WORKERS"    envDefault:"2"`
	Timeout   time.Duration `env:"BVGET_JOB_TIMEOUT"    envDefault:"30m"`
	QueueSize int           `env:"BVGET_JOB_QUEUE_SIZE" envDefault:"50"`
}

// HTTP holds HTTP server configuration.
type HTTP struct {
	Port            string        `env:"BVGET_HTTP_PORT"             envDefault:":8080"`
	HandlerTimeout  time.Duration `env:"BVGET_HTTP_HANDLER_TIMEOUT"  envDefault:"20s"`
	ShutdownTimeout time.Duration `env:"BVGET_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Dir holds directory paths for downloads and the cookie file.
type Dir struct {
	Downloads string `env:"BVGET_DIR_DOWNLOADS" envDefault:"./data/downloads"`

	// CookieFile persists session cookies issued by the QR login.
	CookieFile string `env:"BVGET_DIR_COOKIE_FILE" envDefault:"./data/cookies.json"`
}

// SetAbsPaths converts all directory paths to absolute paths.
func (d *Dir) SetAbsPaths() error {
	var err error
	if d.Downloads, err = filepath.Abs(d.Downloads); err != nil {
		return fmt.Errorf("downloads: %w", err)
	}

	if d.CookieFile, err = filepath.Abs(d.CookieFile); err != nil {
		return fmt.Errorf("cookie file: %w", err)
	}

	return nil
}

// Bili holds platform API configuration.
type Bili struct {
	APIBase      string `env:"BVGET_BILI_API_BASE"      envDefault:"https://api.bilibili.com"`
	PassportBase string `env:"BVGET_BILI_PASSPORT_BASE" envDefault:"https://passport.bilibili.com"`

	// The CDN rejects requests without a browser user agent and referer.
	UserAgent string `env:"BVGET_BILI_USER_AGENT" envDefault:"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"` //nolint:lll
	Referer   string `env:"BVGET_BILI_REFERER"    envDefault:"https://www.bilibili.com/"`

	// DefaultQuality is the qn requested when the client does not ask for one.
	// 127=8K, 120=4K, 116=1080P60, 80=1080P, 64=720P.
	DefaultQuality int `env:"BVGET_BILI_DEFAULT_QUALITY" envDefault:"80"`

	RequestTimeout time.Duration `env:"BVGET_BILI_REQUEST_TIMEOUT" envDefault:"30s"`
}

// Storage holds storage configuration.
type Storage struct {
	TTL             time.Duration `env:"BVGET_STORAGE_TTL"              envDefault:"168h"`
	CleanupInterval time.Duration `env:"BVGET_STORAGE_CLEANUP_INTERVAL" envDefault:"1h"`
}

// FFmpeg holds mux tool configuration.
type FFmpeg struct {
	// Path points at an ffmpeg binary. Empty means look it up on PATH and
	// fall back to a managed static build under BinsDir.
	Path    string `env:"BVGET_FFMPEG_PATH"     envDefault:""`
	BinsDir string `env:"BVGET_FFMPEG_BINS_DIR" envDefault:"./bins"`

	// Static build URLs per platform (tar.xz archives).
	LinuxAMD64 string `env:"BVGET_FFMPEG_LINUX_AMD64" envDefault:"https://github.com/BtbN/FFmpeg-Builds/releases/latest/download/ffmpeg-master-latest-linux64-gpl.tar.xz"`    //nolint:lll
	LinuxARM64 string `env:"BVGET_FFMPEG_LINUX_ARM64" envDefault:"https://github.com/BtbN/FFmpeg-Builds/releases/latest/download/ffmpeg-master-latest-linuxarm64-gpl.tar.xz"` //nolint:lll
}

// SetAbsPaths converts the BinsDir path to an absolute path.
func (f *FFmpeg) SetAbsPaths() error {
	var err error
	if f.BinsDir, err = filepath.Abs(f.BinsDir); err != nil {
		return fmt.Errorf("bins dir: %w", err)
	}

	return nil
}

// New loads configuration from environment variables.
func New() (*Config, error) {
	cfg := &Config{}

	err := env.Parse(cfg)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	err = cfg.Dir.SetAbsPaths()
	if err != nil {
		return nil, fmt.Errorf("set absolute paths: %w", err)
	}

	err = cfg.FFmpeg.SetAbsPaths()
	if err != nil {
		return nil, fmt.Errorf("set ffmpeg absolute paths: %w", err)
	}

	return cfg, nil
}
