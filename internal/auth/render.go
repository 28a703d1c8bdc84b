package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mdp/qrterminal/v3"
	qrcode "github.com/skip2/go-qrcode"

	"bvget/internal/consts"
	"bvget/internal/errs"
)

const (
	// qrImageSize is the side length of the generated PNG in pixels.
	qrImageSize = 256
	// pollInterval matches the desktop original's 2s poll timer.
	pollInterval = 2 * time.Second
)

// QRImage renders the session payload as a PNG.
func (a *Authenticator) QRImage(key string) ([]byte, error) {
	session, err := a.Session(key)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(session.URL, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr png: %w", err)
	}

	return png, nil
}

// LoginTerminal runs the whole login interactively: renders the QR code as
// ANSI blocks on w and polls until the phone app confirms, the code expires
// or ctx is done. Meant for headless hosts where the operator scans the
// code straight from the service logs.
func (a *Authenticator) LoginTerminal(ctx context.Context, w io.Writer) error {
	session, err := a.BeginQR(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "scan the QR code with the mobile app to log in:")
	qrterminal.GenerateWithConfig(session.URL, qrterminal.Config{
		Level:     qrterminal.M,
		Writer:    w,
		BlackChar: qrterminal.BLACK,
		WhiteChar: qrterminal.WHITE,
		QuietZone: 1,
	})

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			status, err := a.PollQR(ctx, session.Key)
			if err != nil {
				return err
			}

			switch status.Code {
			case consts.QRCodeSuccess:
				fmt.Fprintln(w, "login successful")

				return nil
			case consts.QRCodeExpired:
				return errs.ErrQRExpired
			case consts.QRCodeScanned:
				a.log.InfoContext(ctx, "qr scanned, waiting for confirmation")
			case consts.QRCodeWaitingScan:
				a.log.DebugContext(ctx, "waiting for scan", slog.String("key", session.Key))
			}
		}
	}
}
