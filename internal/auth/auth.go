// Package auth implements the QR-code login flow and session lifecycle.
// A QR session is created against the passport API, rendered either as a
// PNG (HTTP) or straight into the terminal (headless login), and polled
// until the phone app confirms. Confirmed sessions land as cookies in the
// shared jar and are persisted to disk.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"bvget/internal/bili"
	"bvget/internal/consts"
	"bvget/internal/cookiejar"
	"bvget/internal/entity"
	"bvget/internal/errs"
)

// sessionTTL matches the server-side QR code lifetime; stale sessions are
// pruned on the next BeginQR.
const sessionTTL = 3 * time.Minute

// Authenticator drives QR logins and owns the persistent cookie jar.
type Authenticator struct {
	log    *slog.Logger
	client *bili.Client
	jar    *cookiejar.Jar

	mu       sync.Mutex
	sessions map[string]*entity.QRSession
}

// New creates an Authenticator.
func New(log *slog.Logger, client *bili.Client, jar *cookiejar.Jar) *Authenticator {
	return &Authenticator{
		log:      log.With(slog.String("package", "auth")),
		client:   client,
		jar:      jar,
		sessions: make(map[string]*entity.QRSession),
	}
}

// BeginQR starts a new QR login session.
func (a *Authenticator) BeginQR(ctx context.Context) (*entity.QRSession, error) {
	key, qrURL, err := a.client.QRGenerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin qr: %w", err)
	}

	session := &entity.QRSession{
		Key:       key,
		URL:       qrURL,
		CreatedAt: time.Now(),
	}

	a.mu.Lock()
	a.pruneLocked()
	a.sessions[key] = session
	a.mu.Unlock()

	a.log.InfoContext(ctx, "qr login session created", slog.String("key", key))

	return session, nil
}

// Session returns a pending QR session by key.
func (a *Authenticator) Session(key string) (*entity.QRSession, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.sessions[key]
	if session == nil {
		return nil, errs.ErrQRSessionNotFound
	}

	if time.Since(session.CreatedAt) > sessionTTL {
		delete(a.sessions, key)

		return nil, errs.ErrQRExpired
	}

	return session, nil
}

// PollQR checks the login state of a pending session. On success the session
// cookies are already in the jar; they are persisted before returning.
func (a *Authenticator) PollQR(ctx context.Context, key string) (*entity.QRStatus, error) {
	if _, err := a.Session(key); err != nil {
		return nil, err
	}

	status, err := a.client.QRPoll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("poll qr: %w", err)
	}

	switch status.Code {
	case consts.QRCodeSuccess:
		a.dropSession(key)

		if err := a.jar.Save(); err != nil {
			return nil, fmt.Errorf("save cookies: %w", err)
		}

		a.log.InfoContext(ctx, "qr login confirmed, cookies persisted", slog.String("key", key))
	case consts.QRCodeExpired:
		a.dropSession(key)
	}

	return status, nil
}

// CurrentUser returns the identity of the session, nil when anonymous.
func (a *Authenticator) CurrentUser(ctx context.Context) (*entity.User, error) {
	return a.client.Nav(ctx)
}

// Logout drops the session: the jar is cleared and the cookie file removed.
func (a *Authenticator) Logout(ctx context.Context) error {
	if err := a.jar.Clear(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	a.log.InfoContext(ctx, "logged out, cookie file removed")

	return nil
}

func (a *Authenticator) dropSession(key string) {
	a.mu.Lock()
	delete(a.sessions, key)
	a.mu.Unlock()
}

// pruneLocked removes expired sessions. Caller holds a.mu.
func (a *Authenticator) pruneLocked() {
	now := time.Now()
	for key, session := range a.sessions {
		if now.Sub(session.CreatedAt) > sessionTTL {
			delete(a.sessions, key)
		}
	}
}
