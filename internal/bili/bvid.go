package bili

import (
	"regexp"

	"bvget/internal/errs"
)

var reBVID = regexp.MustCompile(`BV[0-9A-Za-z]+`)

// ExtractBVID pulls the BV identifier out of a video URL or returns the
// input when it already is a bare BVID.
func ExtractBVID(text string) (string, error) {
	if m := reBVID.FindString(text); m != "" {
		return m, nil
	}

	return "", errs.ErrInvalidBVID
}
