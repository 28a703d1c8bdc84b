package downloader

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"bvget/internal/errs"
)

const stderrTailLines = 5

// muxAV merges a video and an audio part into a single MP4. The video track
// is copied, the audio track is re-encoded to AAC.
func muxAV(ctx context.Context, ffmpegPath, videoPath, audioPath, outPath string) error {
	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		outPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v: %s", errs.ErrMuxFailed, err, stderrTail(stderr.String()))
	}

	return nil
}

func stderrTail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}

	return strings.Join(lines, " | ")
}
