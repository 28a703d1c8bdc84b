// Package request contains HTTP request payloads and their validation.
package request

import (
	"slices"

	"bvget/internal/consts"
	"bvget/internal/errs"
	"bvget/pkg/urls"
)

// acceptedQn lists the qn values the play URL API understands.
var acceptedQn = []int{
	consts.Qn8K,
	consts.Qn4K,
	consts.Qn1080P60,
	consts.Qn1080P,
	consts.Qn720P,
	consts.Qn480P,
	consts.Qn360P,
}

// Enqueue is the body of POST /v1/jobs. Quality 0 means the server default.
type Enqueue struct {
	URL     string `json:"url"`
	Quality int    `json:"quality"`
}

func (e *Enqueue) Validate() error {
	if !urls.IsURLValid(e.URL) {
		return errs.ErrInvalidURL
	}

	if e.Quality != 0 && !slices.Contains(acceptedQn, e.Quality) {
		return errs.ErrInvalidQuality
	}

	return nil
}
