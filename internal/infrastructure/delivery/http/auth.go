package httprouter

import (
	"errors"
	"log/slog"
	"net/http"

	"bvget/internal/consts"
	"bvget/internal/errs"
	"bvget/internal/infrastructure/delivery/http/response"
)

// BeginQR starts a QR login session.
func (ro *Router) BeginQR(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "BeginQR")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	session, err := ro.auth.BeginQR(ctx)
	if err != nil {
		log.ErrorContext(ctx, consts.RespQRGenerateFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespQRGenerateFail, nil, err)

		return
	}

	response.Created(w, consts.RespQRGenerated, session, nil)
}

// PollQR reports the login state of a pending QR session.
func (ro *Router) PollQR(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "PollQR")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	key := r.PathValue("key")

	status, err := ro.auth.PollQR(ctx, key)

	switch {
	case errors.Is(err, errs.ErrQRSessionNotFound):
		response.NotFound(w, consts.RespQRNotFound)

		return
	case errors.Is(err, errs.ErrQRExpired):
		response.Gone(w, consts.RespQRExpired)

		return
	case err != nil:
		log.ErrorContext(ctx, consts.RespQRPollFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespQRPollFail, nil, err)

		return
	}

	if status.Code == consts.QRCodeSuccess && ro.metrics != nil {
		ro.metrics.RecordLogin()
	}

	response.OK(w, consts.RespQRStatus, status, nil)
}

// QRImage serves the QR code of a pending session as a PNG.
func (ro *Router) QRImage(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "QRImage")

	key := r.PathValue("key")

	png, err := ro.auth.QRImage(key)

	switch {
	case errors.Is(err, errs.ErrQRSessionNotFound):
		response.NotFound(w, consts.RespQRNotFound)

		return
	case errors.Is(err, errs.ErrQRExpired):
		response.Gone(w, consts.RespQRExpired)

		return
	case err != nil:
		log.ErrorContext(r.Context(), "render qr image", slog.Any("error", err))
		response.InternalServerError(w, consts.RespQRGenerateFail, nil, err)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Me returns the identity of the current session.
func (ro *Router) Me(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "Me")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	user, err := ro.auth.CurrentUser(ctx)
	if err != nil {
		log.ErrorContext(ctx, "current user", slog.Any("error", err))
		response.InternalServerError(w, consts.RespNotLoggedIn, nil, err)

		return
	}

	if user == nil {
		response.Unauthorized(w, consts.RespNotLoggedIn)

		return
	}

	response.OK(w, consts.RespUserRetrieved, user, nil)
}

// Logout clears the session cookies and removes the cookie file.
func (ro *Router) Logout(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "Logout")
	ctx := r.Context()

	if err := ro.auth.Logout(ctx); err != nil {
		log.ErrorContext(ctx, "logout", slog.Any("error", err))
		response.InternalServerError(w, "logout failed", nil, err)

		return
	}

	if ro.metrics != nil {
		ro.metrics.RecordLogout()
	}

	response.OK(w, consts.RespLoggedOut, nil, nil)
}
