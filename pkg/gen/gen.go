// Package gen provides utility functions for generating values.
package gen

import (
	"fmt"

	"github.com/google/uuid"
)

const sep = "|"

// Key generates a dedup key for a video URL and quality pair.
func Key(url string, qn int) string {
	return fmt.Sprintf("%s%s%d", url, sep, qn)
}

// JobUUID generates a deterministic UUIDv5 for a video URL and quality pair.
// The same url+qn always maps to the same job.
func JobUUID(url string, qn int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(Key(url, qn))).String()
}

// MediaUUID generates a deterministic UUIDv5 for a bvid and filename pair.
func MediaUUID(bvid, filename string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(bvid+sep+filename)).String()
}
