package calc

import (
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name       string
		downloaded int64
		total      int64
		want       int
	}{
		{name: "zero total", downloaded: 10, total: 0, want: 0},
		{name: "half", downloaded: 50, total: 100, want: 50},
		{name: "rounding up", downloaded: 666, total: 1000, want: 67},
		{name: "complete", downloaded: 100, total: 100, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.downloaded, tt.total); got != tt.want {
				t.Errorf("Progress(%d, %d) = %d, want %d", tt.downloaded, tt.total, got, tt.want)
			}
		})
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		name     string
		progress int
		start    int
		end      int
		want     int
	}{
		{name: "video band start", progress: 0, start: 0, end: 50, want: 0},
		{name: "video band middle", progress: 50, start: 0, end: 50, want: 25},
		{name: "audio band end", progress: 100, start: 50, end: 95, want: 95},
		{name: "clamped above", progress: 150, start: 50, end: 95, want: 95},
		{name: "clamped below", progress: -10, start: 50, end: 95, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Band(tt.progress, tt.start, tt.end); got != tt.want {
				t.Errorf("Band(%d, %d, %d) = %d, want %d", tt.progress, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestETA(t *testing.T) {
	started := time.Now().Add(-10 * time.Second)

	eta := ETA(50, 100, started)
	if eta < 9*time.Second || eta > 11*time.Second {
		t.Errorf("ETA() = %v, want ~10s", eta)
	}

	if got := ETA(0, 100, started); got != 0 {
		t.Errorf("ETA() with zero downloaded = %v, want 0", got)
	}
}
