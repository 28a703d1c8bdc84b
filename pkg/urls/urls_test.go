package urls

import "testing"

func TestIsURLValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "https video url", raw: "https://www.bilibili.com/video/BV1fK4y1t7Hj", want: true},
		{name: "bare bvid", raw: "BV1fK4y1t7Hj", want: false},
		{name: "no scheme", raw: "www.bilibili.com/video/BV1fK4y1t7Hj", want: false},
		{name: "ftp scheme", raw: "ftp://example.com/a", want: false},
		{name: "empty", raw: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsURLValid(tt.raw); got != tt.want {
				t.Errorf("IsURLValid(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  https://www.bilibili.com/video/BV1fK4y1t7Hj?p=1 ")
	want := "https://www.bilibili.com/video/BV1fK4y1t7Hj?p=1"

	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
