package bili

import (
	"context"
	"fmt"
	"net/url"

	"bvget/internal/entity"
)

type qrGenerateData struct {
	URL       string `json:"url"`
	QRCodeKey string `json:"qrcode_key"`
}

// QRGenerate asks the passport API for a fresh login QR code. The returned
// URL is the payload to encode; the key identifies the session when polling.
func (c *Client) QRGenerate(ctx context.Context) (key, qrURL string, err error) {
	u := c.cfg.Bili.PassportBase + "/x/passport-login/web/qrcode/generate"

	var data qrGenerateData
	if err := c.getJSON(ctx, u, &data); err != nil {
		return "", "", fmt.Errorf("qr generate: %w", err)
	}

	return data.QRCodeKey, data.URL, nil
}

type qrPollData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// QRPoll checks the state of a QR login session. The outer envelope code is
// zero even while waiting; the inner code carries the login state
// (consts.QRCode*). On success the passport API sets the session cookies on
// the shared jar.
func (c *Client) QRPoll(ctx context.Context, key string) (*entity.QRStatus, error) {
	u := fmt.Sprintf("%s/x/passport-login/web/qrcode/poll?qrcode_key=%s",
		c.cfg.Bili.PassportBase, url.QueryEscape(key))

	var data qrPollData
	if err := c.getJSON(ctx, u, &data); err != nil {
		return nil, fmt.Errorf("qr poll: %w", err)
	}

	return &entity.QRStatus{Code: data.Code, Message: data.Message}, nil
}
