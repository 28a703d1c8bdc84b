package calc

import (
	"math"
	"time"
)

// Progress calculates the percentage for a given pair of byte counts.
func Progress(downloaded, total int64) int {
	if total > 0 {
		return int(math.Round(float64(downloaded) / float64(total) * 100))
	}
	return 0
}

// Band maps a 0-100 percentage into the [start, end] band. DASH downloads
// report the video part as 0-50 and the audio part as 50-95, leaving the
// tail for muxing.
func Band(progress, start, end int) int {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return start + progress*(end-start)/100
}

// ETA calculates the estimated time of arrival.
func ETA(downloaded, total int64, started time.Time) time.Duration {
	if total > 0 && downloaded > 0 {
		elapsed := time.Since(started)
		eta := time.Duration(float64(elapsed) * (float64(total)/float64(downloaded) - 1))
		return eta
	}
	return 0
}
