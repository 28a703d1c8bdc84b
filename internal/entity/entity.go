// Package entity defines the core entities used in the application.
package entity

import (
	"log/slog"
	"time"
)

// JobStatus represents the status of a download job.
type JobStatus string

const (
	// JobStatusStarting indicates that the job is accepted and is about to start.
	JobStatusStarting JobStatus = "starting"
	// JobStatusDownloading indicates that the job is in progress.
	JobStatusDownloading JobStatus = "downloading"
	// JobStatusMuxing indicates that dash parts are being merged.
	JobStatusMuxing JobStatus = "muxing"
	// JobStatusError indicates that the job has encountered an error.
	JobStatusError JobStatus = "error"
	// JobStatusFinished indicates that the job has finished successfully.
	JobStatusFinished JobStatus = "finished"
	// JobStatusCancelled indicates that the job was cancelled by the user.
	JobStatusCancelled JobStatus = "cancelled"
)

// Job represents a download job.
type Job struct {
	UUID         string        `json:"uuid"`
	URL          string        `json:"url"`
	BVID         string        `json:"bvid,omitempty"`
	Quality      int           `json:"quality"` // requested qn
	Status       JobStatus     `json:"status"`
	Progress     int           `json:"progress"`
	Error        string        `json:"error,omitempty"`
	EstimatedETA time.Duration `json:"estimatedEta"`
	TotalSize    int64         `json:"totalSize,omitempty"` // total bytes after download
	Media        []Media       `json:"media,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	ExpiresAt    time.Time     `json:"expiresAt"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (j Job) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uuid", j.UUID),
		slog.String("url", j.URL),
		slog.String("bvid", j.BVID),
		slog.Int("quality", j.Quality),
		slog.String("status", string(j.Status)),
		slog.Int("progress", j.Progress),
		slog.Duration("estimatedEta", j.EstimatedETA),
		slog.Int64("totalSize", j.TotalSize),
	)
}

// Media represents a finished download on disk.
type Media struct {
	UUID     string `json:"uuid"`
	BVID     string `json:"bvid"`
	CID      int64  `json:"cid"`
	Title    string `json:"title"`
	Filename string `json:"filename"` // absolute path
	Size     int64  `json:"size"`
	Quality  int    `json:"quality"`         // qn actually downloaded
	Kind     string `json:"kind"`            // "dash" or "durl"
	Label    string `json:"label,omitempty"` // quality description, e.g. "1080P 高清"
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (m Media) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("uuid", m.UUID),
		slog.String("bvid", m.BVID),
		slog.Int64("cid", m.CID),
		slog.String("title", m.Title),
		slog.String("filename", m.Filename),
		slog.Int64("size", m.Size),
		slog.Int("quality", m.Quality),
		slog.String("kind", m.Kind),
	)
}

// Page represents one part of a multi-part video.
type Page struct {
	CID      int64  `json:"cid"`
	Index    int    `json:"page"`
	Part     string `json:"part"`
	Duration int    `json:"duration"`
}

// Video represents metadata of a video as returned by the view API.
type Video struct {
	BVID     string `json:"bvid"`
	AID      int64  `json:"aid"`
	CID      int64  `json:"cid"` // cid of the first page
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Owner    string `json:"owner"`
	CoverURL string `json:"coverUrl"`
	Duration int    `json:"duration"`
	Pages    []Page `json:"pages,omitempty"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (v Video) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bvid", v.BVID),
		slog.Int64("aid", v.AID),
		slog.Int64("cid", v.CID),
		slog.String("title", v.Title),
		slog.String("owner", v.Owner),
		slog.Int("duration", v.Duration),
		slog.Int("pages", len(v.Pages)),
	)
}

// User represents the identity of the logged-in account (nav API).
type User struct {
	MID      int64  `json:"mid"`
	Name     string `json:"uname"`
	Face     string `json:"face"`
	IsLogin  bool   `json:"isLogin"`
	VIPLevel int    `json:"vipLevel,omitempty"`
}

// LogValue implements the slog.LogValuer interface for structured logging.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("mid", u.MID),
		slog.String("uname", u.Name),
		slog.Bool("isLogin", u.IsLogin),
	)
}

// QRSession represents a pending QR login.
type QRSession struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"` // payload encoded into the QR code
	CreatedAt time.Time `json:"createdAt"`
}

// QRStatus represents the outcome of one poll of a QR login session.
type QRStatus struct {
	Code    int    `json:"code"` // consts.QRCode*
	Message string `json:"message"`
}
