// Package bili implements the client for the video platform REST API:
// metadata lookup, play URL retrieval, QR login endpoints and raw media
// fetches. All requests share one cookie jar so a session established by the
// QR login is visible to every call.
package bili

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"bvget/internal/config"
	"bvget/internal/errs"
	"bvget/internal/observability"
)

// Client talks to the platform API.
type Client struct {
	log     *slog.Logger
	cfg     *config.Config
	http    *http.Client
	metrics *observability.Metrics
}

// New creates a new API client using the given cookie jar.
func New(log *slog.Logger, cfg *config.Config, jar http.CookieJar, metrics *observability.Metrics) *Client {
	return &Client{
		log: log.With(slog.String("package", "bili")),
		cfg: cfg,
		http: &http.Client{
			Jar:     jar,
			Timeout: cfg.Bili.RequestTimeout,
		},
		metrics: metrics,
	}
}

// envelope is the generic JSON wrapper of every API response.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.cfg.Bili.UserAgent)
	req.Header.Set("Referer", c.cfg.Bili.Referer)
}

// getJSON performs a GET request, unwraps the response envelope and decodes
// the data section into out. A non-zero envelope code maps to errs.ErrAPICode
// carrying the platform message.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if env.Code != 0 {
		if c.metrics != nil {
			c.metrics.RecordAPIError(req.URL.Path)
		}

		return fmt.Errorf("%w: code %d: %s", errs.ErrAPICode, env.Code, env.Message)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	return nil
}

// Fetch performs a raw GET against a media URL with the platform headers
// set. The caller owns the response body. The CDN answers 403 without the
// Referer header.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	c.setHeaders(req)

	// media fetches stream for a long time, the API timeout does not apply
	client := &http.Client{Jar: c.http.Jar}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()

		return nil, fmt.Errorf("%w: unexpected status %d", errs.ErrDownloadFailed, resp.StatusCode)
	}

	return resp, nil
}
