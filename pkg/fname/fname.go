// Package fname derives safe output filenames for downloaded media.
package fname

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode"
)

const filePerm = 0o644

// Sanitize strips a video title down to letters, digits and spaces so it is
// safe as a filename on every platform. Returns fallback when nothing is
// left over.
func Sanitize(title, fallback string) string {
	out := make([]rune, 0, len(title))

	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			out = append(out, r)
		}
	}

	// trim trailing spaces left behind by stripped runes
	for len(out) > 0 && out[len(out)-1] == ' ' {
		out = out[:len(out)-1]
	}

	if len(out) == 0 {
		return fallback
	}

	return string(out)
}

// Unique reserves a path under dir for name+ext that does not collide with an
// existing file, appending "(n)" to the stem as needed. The returned path is
// created as an empty file with O_EXCL, so concurrent callers working on the
// same title never end up with the same name.
func Unique(dir, name, ext string) (string, error) {
	for counter := 0; ; counter++ {
		stem := name
		if counter > 0 {
			stem = fmt.Sprintf("%s(%d)", name, counter)
		}

		path := filepath.Join(dir, stem+ext)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
		if errors.Is(err, os.ErrExist) {
			continue
		}

		if err != nil {
			return "", fmt.Errorf("reserve %s: %w", path, err)
		}

		file.Close()

		return path, nil
	}
}
