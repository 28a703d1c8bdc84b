package fname

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		fallback string
		want     string
	}{
		{name: "plain title", title: "My Video 42", fallback: "BV1x", want: "My Video 42"},
		{name: "strips punctuation", title: "a/b:c*d?e", fallback: "BV1x", want: "abcde"},
		{name: "unicode letters kept", title: "白金ディスコ", fallback: "BV1x", want: "白金ディスコ"},
		{name: "only punctuation", title: "!!!///", fallback: "BV1x", want: "BV1x"},
		{name: "trailing space trimmed", title: "title !", fallback: "BV1x", want: "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.title, tt.fallback); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	dir := t.TempDir()

	first, err := Unique(dir, "video", ".mp4")
	if err != nil {
		t.Fatal(err)
	}

	if first != filepath.Join(dir, "video.mp4") {
		t.Fatalf("Unique() = %q, want plain name", first)
	}

	// the name is reserved on disk immediately
	if _, err := os.Stat(first); err != nil {
		t.Fatalf("reserved file missing: %v", err)
	}

	second, err := Unique(dir, "video", ".mp4")
	if err != nil {
		t.Fatal(err)
	}

	if second != filepath.Join(dir, "video(1).mp4") {
		t.Errorf("Unique() = %q, want video(1).mp4", second)
	}

	third, err := Unique(dir, "video", ".mp4")
	if err != nil {
		t.Fatal(err)
	}

	if third != filepath.Join(dir, "video(2).mp4") {
		t.Errorf("Unique() = %q, want video(2).mp4", third)
	}
}

func TestUniqueConcurrent(t *testing.T) {
	dir := t.TempDir()

	const callers = 8

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = make(map[string]struct{}, callers)
	)

	for range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			path, err := Unique(dir, "video", ".mp4")
			if err != nil {
				t.Errorf("Unique() failed: %v", err)

				return
			}

			mu.Lock()
			paths[path] = struct{}{}
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(paths) != callers {
		t.Errorf("expected %d distinct paths, got %d: %v", callers, len(paths), paths)
	}
}
