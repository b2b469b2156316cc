package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "RatePulse/internal/domain/repository"
	"RatePulse/internal/usecase"
	"RatePulse/pkg/cache"
	"RatePulse/pkg/config"
	xhttp "RatePulse/pkg/http"
	applogger "RatePulse/pkg/logger"
)

// App encapsulates the application lifecycle: one pipeline batch with output
// files, plus an optional HTTP server for on-demand reads.
type App struct {
	cfg      *config.Config
	pipeline *usecase.Pipeline
	writer   drepo.PayloadWriter
	handler  xhttp.Handler
	cache    cache.Service
	logger   *applogger.Logger

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	writer drepo.PayloadWriter,
	handler xhttp.Handler,
	cache cache.Service,
	logger *applogger.Logger,
) *App {
	return &App{
		cfg:      cfg,
		pipeline: pipeline,
		writer:   writer,
		handler:  handler,
		cache:    cache,
		logger:   logger,
	}
}

// Run executes one batch and, when the server is enabled, blocks serving
// HTTP until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	res, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	if err := a.writer.WriteResult(res); err != nil {
		return err
	}
	a.logger.Info("payloads written", applogger.String("dir", a.cfg.Data.OutputDir))

	if !a.cfg.Server.Enabled {
		return a.close()
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(a.cfg.Metrics.Path),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http server stop error", applogger.Error(err))
	}
	return a.close()
}

func (a *App) close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
