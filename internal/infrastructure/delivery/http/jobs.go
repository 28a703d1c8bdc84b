package httprouter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"bvget/internal/consts"
	"bvget/internal/errs"
	"bvget/internal/infrastructure/delivery/http/request"
	"bvget/internal/infrastructure/delivery/http/response"
)

// Enqueue creates a download job for a video URL.
func (ro *Router) Enqueue(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "Enqueue")
	ctx := r.Context()

	var in request.Enqueue
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		err = fmt.Errorf("%w: %w", errs.ErrInvalidRequestBody, err)
		log.ErrorContext(ctx, consts.RespInvalidRequestBody, slog.Any("error", err))
		response.BadRequest(w, consts.RespInvalidRequestBody, err)

		return
	}

	if err := in.Validate(); err != nil {
		log.ErrorContext(ctx, consts.RespUnprocessableEntity, slog.Any("error", err))
		response.UnprocessableEntity(w, consts.RespUnprocessableEntity, err)

		return
	}

	job, err := ro.svc.Enqueue(ctx, in.URL, in.Quality)

	switch {
	case errors.Is(err, errs.ErrJobAlreadyExists):
		log.DebugContext(ctx, consts.RespJobAlreadyExists, slog.String("job_id", job.UUID))
		response.OK(w, consts.RespJobAlreadyExists, job, nil)

		return
	case errors.Is(err, errs.ErrJobQueueFull):
		log.WarnContext(ctx, consts.RespJobEnqueueFail, slog.Any("error", err))
		response.ServiceUnavailable(w, consts.RespJobEnqueueFail, err)

		return
	case err != nil:
		log.ErrorContext(ctx, consts.RespJobEnqueueFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespJobEnqueueFail, nil, err)

		return
	}

	log.InfoContext(ctx, consts.RespJobEnqueued, slog.String("url", job.URL), slog.Int("qn", job.Quality))

	response.Accepted(w, consts.RespJobEnqueued, job, nil)
}

// GetJobs lists all stored jobs.
func (ro *Router) GetJobs(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "GetJobs")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	jobs, err := ro.storer.GetJobs(ctx)
	if errors.Is(err, errs.ErrNoJobs) {
		log.DebugContext(ctx, consts.RespNoJobs)
		response.NoContent(w)

		return
	}

	if err != nil {
		log.ErrorContext(ctx, consts.RespGetJobsFail, slog.Any("error", err))
		response.InternalServerError(w, consts.RespGetJobsFail, nil, err)

		return
	}

	response.OK(w, consts.RespJobsRetrieved, jobs, nil)
}

// GetJob returns one job by ID.
func (ro *Router) GetJob(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "GetJob")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	id := r.PathValue("id")

	job := ro.storer.GetJobByID(ctx, id)
	if job == nil {
		log.DebugContext(ctx, consts.RespJobNotFound, slog.String("job_id", id))
		response.NotFound(w, consts.RespJobNotFound)

		return
	}

	response.OK(w, consts.RespJobRetrieved, job, nil)
}

// CancelJob cancels a running job.
func (ro *Router) CancelJob(w http.ResponseWriter, r *http.Request) {
	log := ro.log.With("handler", "CancelJob")

	ctx, cancel := ro.handlerCtx(r)
	defer cancel()

	id := r.PathValue("id")

	err := ro.storer.CancelJob(ctx, id)

	switch {
	case errors.Is(err, errs.ErrJobNotFound):
		response.NotFound(w, consts.RespJobNotFound)

		return
	case errors.Is(err, errs.ErrJobCancelled):
		response.Conflict(w, consts.RespJobCancelled, err)

		return
	case err != nil:
		log.ErrorContext(ctx, "cancel job", slog.Any("error", err))
		response.InternalServerError(w, consts.RespJobCancelled, nil, err)

		return
	}

	log.InfoContext(ctx, consts.RespJobCancelled, slog.String("job_id", id))

	response.OK(w, consts.RespJobCancelled, nil, nil)
}
