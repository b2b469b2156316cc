package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"RatePulse/internal/domain/models"
	"RatePulse/internal/usecase"
	"RatePulse/pkg/cache"
	xhttp "RatePulse/pkg/http"
	xlogger "RatePulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

const resultCacheKey = "result"

// RatesHandler serves the peer, forecast and scenario payloads over HTTP.
// Responses come from the cached pipeline result; refresh=1 forces a rerun.
type RatesHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.Pipeline
	cache    cache.Service
	ttl      time.Duration

	mu sync.Mutex
}

func NewRatesHandler(logger *xlogger.Logger, pipeline *usecase.Pipeline, cache cache.Service, ttl time.Duration) *RatesHandler {
	return &RatesHandler{logger: logger, pipeline: pipeline, cache: cache, ttl: ttl}
}

func (h *RatesHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/peers", h.Peers)
	g.GET("/forecast", h.Forecast)
	g.GET("/scenarios", h.Scenarios)
}

func (h *RatesHandler) Peers(c echo.Context) error {
	req := &models.PeersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.result(c.Request().Context(), req.Refresh)
	if err != nil {
		h.logger.Error("peers pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, shapePeers(res.Peers, req))
}

func (h *RatesHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.result(c.Request().Context(), req.Refresh)
	if err != nil {
		h.logger.Error("forecast pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res.Forecast)
}

func (h *RatesHandler) Scenarios(c echo.Context) error {
	req := &models.ScenariosRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.result(c.Request().Context(), req.Refresh)
	if err != nil {
		h.logger.Error("scenarios pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res.Scenarios)
}

// result returns the cached pipeline result, running the pipeline on a miss
// or a forced refresh. The mutex keeps concurrent misses to a single run.
func (h *RatesHandler) result(ctx context.Context, refresh bool) (*models.Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !refresh {
		var cached models.Result
		err := h.cache.Get(ctx, resultCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("result cache read failed", xlogger.Error(err))
		}
	}

	res, err := h.pipeline.Run(ctx)
	if err != nil {
		return nil, xhttp.InternalError("pipeline run failed").WithError(err)
	}
	if err := h.cache.Set(ctx, resultCacheKey, res, h.ttl); err != nil {
		h.logger.Warn("result cache write failed", xlogger.Error(err))
	}
	return res, nil
}

// shapePeers applies the row limit and optional history omission.
func shapePeers(peers *models.PeerSnapshot, req *models.PeersRequest) *models.PeerSnapshot {
	out := *peers
	if len(out.Rows) > req.Limit {
		out.Rows = out.Rows[:req.Limit]
	}
	if !req.WantHistory() {
		out.History = nil
	}
	return &out
}

var _ xhttp.Handler = (*RatesHandler)(nil)
