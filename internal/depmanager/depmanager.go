// Package depmanager locates the ffmpeg binary used to mux dash streams,
// installing a static build when the system has none.
package depmanager

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"bvget/internal/config"
	"bvget/internal/errs"

	"github.com/ulikunitz/xz"
)

const (
	binaryName = "ffmpeg"

	// downloadTimeout is the HTTP client timeout for downloading the static build.
	downloadTimeout = 10 * time.Minute
	// filePermExecutable is the file permission for executable binaries.
	filePermExecutable = 0o755
)

// Manager resolves and caches the ffmpeg binary path.
type Manager struct {
	log      *slog.Logger
	cfg      *config.Config
	client   *http.Client
	platform string // "os/arch"

	// lookPath is swappable in tests.
	lookPath func(string) (string, error)

	mu   sync.Mutex
	path string
}

// New creates a new dependency manager.
func New(log *slog.Logger, cfg *config.Config) *Manager {
	return &Manager{
		log:      log.With(slog.String("package", "depmanager")),
		cfg:      cfg,
		client:   &http.Client{Timeout: downloadTimeout},
		platform: runtime.GOOS + "/" + runtime.GOARCH,
		lookPath: exec.LookPath,
	}
}

// FFmpegPath returns the path of a usable ffmpeg binary. Resolution order:
// the configured path, the system PATH, a previously installed static build,
// and finally a fresh static build download. The result is cached.
func (m *Manager) FFmpegPath(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path != "" {
		return m.path, nil
	}

	path, err := m.resolve(ctx)
	if err != nil {
		return "", err
	}

	m.path = path

	return path, nil
}

func (m *Manager) resolve(ctx context.Context) (string, error) {
	if configured := m.cfg.FFmpeg.Path; configured != "" {
		if _, err := os.Stat(configured); err != nil {
			return "", fmt.Errorf("%w: configured path %s: %v", errs.ErrFFmpegNotFound, configured, err)
		}

		return configured, nil
	}

	if path, err := m.lookPath(binaryName); err == nil {
		m.log.DebugContext(ctx, "using system ffmpeg", slog.String("path", path))

		return path, nil
	}

	installed := m.installedPath()
	if info, err := os.Stat(installed); err == nil && info.Size() > 0 {
		return installed, nil
	}

	return m.install(ctx)
}

func (m *Manager) installedPath() string {
	filename := binaryName
	if runtime.GOOS == "windows" {
		filename += ".exe"
	}

	return filepath.Join(m.cfg.FFmpeg.BinsDir, filename)
}

// archiveURL returns the static build archive URL for the current platform,
// or empty when none is configured.
func (m *Manager) archiveURL() string {
	switch m.platform {
	case "linux/amd64":
		return m.cfg.FFmpeg.LinuxAMD64
	case "linux/arm64":
		return m.cfg.FFmpeg.LinuxARM64
	default:
		return ""
	}
}

func (m *Manager) install(ctx context.Context) (string, error) {
	url := m.archiveURL()
	if url == "" {
		return "", fmt.Errorf("%w: no static build for %s", errs.ErrUnsupportedPlatform, m.platform)
	}

	log := m.log.With(slog.String("url", url))
	log.InfoContext(ctx, "downloading ffmpeg static build")

	if err := os.MkdirAll(m.cfg.FFmpeg.BinsDir, filePermExecutable); err != nil {
		return "", fmt.Errorf("create bins directory: %w", err)
	}

	archivePath, err := m.download(ctx, url)
	if err != nil {
		return "", fmt.Errorf("download static build: %w", err)
	}
	defer os.Remove(archivePath)

	destPath := m.installedPath()

	if err := extractBinary(archivePath, destPath); err != nil {
		return "", fmt.Errorf("extract static build: %w", err)
	}

	if err := os.Chmod(destPath, filePermExecutable); err != nil {
		return "", fmt.Errorf("chmod: %w", err)
	}

	log.InfoContext(ctx, "ffmpeg installed", slog.String("path", destPath))

	return destPath, nil
}

func (m *Manager) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(m.cfg.FFmpeg.BinsDir, "download-*.tar.xz")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)

		return "", fmt.Errorf("write archive: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)

		return "", fmt.Errorf("close archive: %w", err)
	}

	return tmpPath, nil
}

// extractBinary pulls the ffmpeg binary out of a tar.xz archive.
func extractBinary(archivePath, destPath string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	xzReader, err := xz.NewReader(file)
	if err != nil {
		return fmt.Errorf("create xz reader: %w", err)
	}

	tarReader := tar.NewReader(xzReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != binaryName {
			continue
		}

		outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermExecutable)
		if err != nil {
			return fmt.Errorf("create dest file: %w", err)
		}

		_, err = io.Copy(outFile, tarReader)
		outFile.Close()

		if err != nil {
			return fmt.Errorf("extract file: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%s not found in archive", binaryName)
}
