package bili

import (
	"slices"

	"bvget/internal/errs"
)

// fnvalDASH requests dash streams up to 4K.
const fnvalDASH = 4048

// Stream is one dash media stream.
type Stream struct {
	ID        int      `json:"id"` // qn for video, bitrate class for audio
	BaseURL   string   `json:"base_url"`
	BackupURL []string `json:"backup_url"`
	MimeType  string   `json:"mime_type"`
	Codecs    string   `json:"codecs"`
	Bandwidth int      `json:"bandwidth"`
}

// DASH holds the separated video and audio stream lists.
type DASH struct {
	Video []Stream `json:"video"`
	Audio []Stream `json:"audio"`
}

// Durl is one segment of a progressive MP4/FLV download.
type Durl struct {
	URL    string `json:"url"`
	Size   int64  `json:"size"`
	Length int    `json:"length"` // duration in ms
}

// PlayInfo is the play URL API data section. Exactly one of Dash and Durl is
// populated, depending on what the platform serves for the session/quality.
type PlayInfo struct {
	Quality           int      `json:"quality"`
	Format            string   `json:"format"`
	AcceptQuality     []int    `json:"accept_quality"`
	AcceptDescription []string `json:"accept_description"`
	Dash              *DASH    `json:"dash,omitempty"`
	Durl              []Durl   `json:"durl,omitempty"`
}

// IsDASH reports whether dash streams are available.
func (p *PlayInfo) IsDASH() bool {
	return p.Dash != nil && len(p.Dash.Video) > 0
}

// SelectVideo picks the dash video stream for the requested qn: an exact
// match when present, otherwise the highest quality not above qn, otherwise
// the best available.
func (p *PlayInfo) SelectVideo(qn int) (Stream, error) {
	if p.Dash == nil || len(p.Dash.Video) == 0 {
		return Stream{}, errs.ErrNoVideoStream
	}

	streams := slices.Clone(p.Dash.Video)
	slices.SortFunc(streams, func(a, b Stream) int { return b.ID - a.ID })

	selected := streams[0]

	for _, s := range streams {
		if s.ID == qn {
			return s, nil
		}
	}

	for _, s := range streams {
		if s.ID <= qn {
			selected = s

			break
		}
	}

	return selected, nil
}

// SelectAudio picks the highest quality dash audio stream.
func (p *PlayInfo) SelectAudio() (Stream, error) {
	if p.Dash == nil || len(p.Dash.Audio) == 0 {
		return Stream{}, errs.ErrNoAudioStream
	}

	streams := slices.Clone(p.Dash.Audio)
	slices.SortFunc(streams, func(a, b Stream) int { return b.ID - a.ID })

	return streams[0], nil
}

// SelectDurl returns the URL of the first progressive segment.
func (p *PlayInfo) SelectDurl() (string, error) {
	if len(p.Durl) == 0 {
		return "", errs.ErrNoPlayURL
	}

	return p.Durl[0].URL, nil
}

// QualityLabel maps a qn to its human description from the accept lists.
func (p *PlayInfo) QualityLabel(qn int) string {
	for i, q := range p.AcceptQuality {
		if q == qn && i < len(p.AcceptDescription) {
			return p.AcceptDescription[i]
		}
	}

	return ""
}
