package httprouter

import (
	"errors"
	"log/slog"
	"net/http"

	"bvget/internal/bili"
	"bvget/internal/consts"
	"bvget/internal/errs"
	"bvget/internal/infrastructure/delivery/http/response"
)

// ResolveVideo fetches metadata for a video URL without downloading it.
func (ro *Router) ResolveVideo(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "ResolveVideo")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		response.BadRequest(w, consts.RespQueryParamMissing, nil)

		return
	}

	bvid, err := bili.ExtractBVID(rawURL)
	if err != nil {
		log.DebugContext(ctx, consts.RespVideoResolveFail, slog.Any("error", err))
		response.UnprocessableEntity(w, consts.RespVideoResolveFail, err)

		return
	}

	video, err := ro.api.View(ctx, bvid)

	switch {
	case errors.Is(err, errs.ErrAPICode):
		log.DebugContext(ctx, consts.RespVideoResolveFail, slog.Any("error", err))
		response.NotFound(w, consts.RespVideoResolveFail)

		return
	case err != nil:
		log.ErrorContext(ctx, consts.RespVideoResolveFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespVideoResolveFail, nil, err)

		return
	}

	response.OK(w, consts.RespVideoResolved, video, nil)
}
