// entry point of the application
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"bvget/internal/auth"
	"bvget/internal/bili"
	"bvget/internal/config"
	"bvget/internal/cookiejar"
	"bvget/internal/depmanager"
	"bvget/internal/downloader"
	httprouter "bvget/internal/infrastructure/delivery/http"
	"bvget/internal/observability"
	"bvget/internal/service"
	"bvget/internal/storage"
	httpserver "bvget/pkg/http/server"
	"bvget/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		slog.Error("config new", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.LogLevel, true)
	if err != nil {
		slog.WarnContext(ctx, "logger level invalid; defaulting to info", slog.Any("error", err))
	}

	metrics := observability.New()

	jar, err := cookiejar.New(cfg.Dir.CookieFile)
	if err != nil {
		log.Error("cookie jar init", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	api := bili.New(log, cfg, jar, metrics)
	authn := auth.New(log, api, jar)

	if cfg.App.TerminalQRLogin {
		user, err := authn.CurrentUser(ctx)
		if err != nil {
			log.WarnContext(ctx, "session check failed", slog.Any("error", err))
		}

		if user == nil {
			if err := authn.LoginTerminal(ctx, os.Stdout); err != nil {
				log.ErrorContext(ctx, "terminal qr login", slog.Any("error", err))
				stop()
				os.Exit(1)
			}
		} else {
			log.InfoContext(ctx, "existing session restored", "user", user)
		}
	}

	depMgr := depmanager.New(log, cfg)
	storer := storage.New(ctx, log, cfg, metrics)
	dl := downloader.NewNative(log, cfg, api, depMgr, metrics)

	svc := service.New(log, cfg, storer, dl, metrics)
	svc.Start(ctx)

	router := httprouter.New(log, cfg, svc, storer, authn, api, metrics)

	httpSrv := httpserver.New(router, httpserver.Options{
		Addr:            cfg.HTTP.Port,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	})

	log.InfoContext(ctx, "bvget started", slog.String("port", cfg.HTTP.Port))

	select {
	case <-ctx.Done():
	case err := <-httpSrv.Notify():
		log.ErrorContext(ctx, "http server", slog.Any("error", err))
	}

	if err := httpSrv.Shutdown(); err != nil {
		log.Error(err.Error())
	}

	log.InfoContext(ctx, "bvget shut down gracefully")
}
