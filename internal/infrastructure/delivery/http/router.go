// Package httprouter wires the HTTP API: routes, handlers and middleware.
package httprouter

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"bvget/internal/auth"
	"bvget/internal/bili"
	"bvget/internal/config"
	"bvget/internal/consts"
	"bvget/internal/infrastructure/delivery/http/middleware"
	"bvget/internal/observability"
	"bvget/internal/service"
	"bvget/internal/storage"
)

type chain []func(http.Handler) http.Handler

func (c chain) then(h http.Handler) http.Handler {
	for _, mw := range slices.Backward(c) {
		h = mw(h)
	}

	return h
}

// Router is the HTTP entry point of the service.
type Router struct {
	*http.ServeMux
	log         *slog.Logger
	cfg         *config.Config
	svc         service.Job
	storer      storage.Storer
	auth        *auth.Authenticator
	api         *bili.Client
	metrics     *observability.Metrics
	globalChain chain
}

// New builds the router with all routes and global middleware registered.
func New(log *slog.Logger, cfg *config.Config, svc service.Job, storer storage.Storer,
	authn *auth.Authenticator, api *bili.Client, metrics *observability.Metrics) *Router {
	r := &Router{
		ServeMux: http.NewServeMux(),
		log:      log.With(slog.String("package", "httprouter")),
		cfg:      cfg,
		svc:      svc,
		storer:   storer,
		auth:     authn,
		api:      api,
		metrics:  metrics,
	}

	r.globalChain = chain{
		middleware.Recoverer,
		middleware.RequestID,
		middleware.Logger,
		middleware.Metrics(metrics),
	}

	r.setRoutes()

	return r
}

func (ro *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ro.globalChain.then(ro.ServeMux).ServeHTTP(w, req)
}

func (ro *Router) setRoutes() {
	ro.HandleFunc("GET /v1/healthz", ro.Health)
	ro.Handle("GET /metrics", observability.Handler())

	ro.HandleFunc("POST /v1/jobs", ro.Enqueue)
	ro.HandleFunc("GET /v1/jobs", ro.GetJobs)
	ro.HandleFunc("GET /v1/jobs/{id}", ro.GetJob)
	ro.HandleFunc("DELETE /v1/jobs/{id}", ro.CancelJob)

	ro.HandleFunc("GET /v1/videos", ro.ResolveVideo)

	ro.HandleFunc("POST /v1/auth/qr", ro.BeginQR)
	ro.HandleFunc("GET /v1/auth/qr/{key}", ro.PollQR)
	ro.HandleFunc("GET /v1/auth/qr/{key}/image", ro.QRImage)
	ro.HandleFunc("GET /v1/auth/me", ro.Me)
	ro.HandleFunc("DELETE /v1/auth", ro.Logout)
}

// handlerCtx bounds a request context by the configured handler timeout.
func (ro *Router) handlerCtx(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := ro.cfg.HTTP.HandlerTimeout
	if timeout <= 0 {
		timeout = consts.DefaultHandlerTimeout
	}

	return context.WithTimeout(r.Context(), timeout)
}

// Health answers the liveness probe.
func (ro *Router) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
