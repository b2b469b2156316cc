package di

import (
	"fmt"

	"RatePulse/internal/domain/models"
	"RatePulse/internal/domain/repository"
	"RatePulse/internal/domain/service"
	"RatePulse/internal/handler/api"
	internalrepo "RatePulse/internal/repository"
	"RatePulse/internal/services/fred"
	"RatePulse/internal/services/refine"
	"RatePulse/internal/usecase"
	"RatePulse/pkg/cache"
	"RatePulse/pkg/config"
	xhttp "RatePulse/pkg/http"
	applogger "RatePulse/pkg/logger"
	"RatePulse/pkg/metrics"
	"RatePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideHistorySource creates the file-backed history reader.
func ProvideHistorySource(cfg *config.Config, l *applogger.Logger) repository.HistorySource {
	return internalrepo.NewFileHistory(cfg.Data.HistoryPath, l)
}

// ProvideSnapshotSource creates the live snapshot reader.
func ProvideSnapshotSource(cfg *config.Config) repository.SnapshotSource {
	return internalrepo.NewFileSnapshot(cfg.Data.AccountsPath)
}

// ProvideSeriesSource creates the FRED observations client.
func ProvideSeriesSource(cfg *config.Config, l *applogger.Logger) repository.SeriesSource {
	return fred.NewClient(cfg.FRED.APIKey, l,
		fred.WithBaseURL(cfg.FRED.BaseURL),
		fred.WithTimeout(cfg.FRED.Timeout),
	)
}

// ProvideRefiner creates the forecast refinement adapter. Without an API key
// it is a configured no-op.
func ProvideRefiner(cfg *config.Config, l *applogger.Logger) service.ForecastRefiner {
	return refine.NewGeminiRefiner(cfg.Refine.APIKey, l,
		refine.WithModel(cfg.Refine.Model),
		refine.WithBaseURL(cfg.Refine.BaseURL),
		refine.WithTimeout(cfg.Refine.Timeout),
		refine.WithMaxAdjust(cfg.Refine.MaxAdjust),
	)
}

// ProvideScenarioConfig extracts the scenario shift overrides.
func ProvideScenarioConfig(cfg *config.Config) models.ScenarioConfig {
	return models.ScenarioConfig{
		HawkishBps: cfg.Scenario.HawkishBps,
		DovishBps:  cfg.Scenario.DovishBps,
	}
}

// ProvidePipeline creates the analytics pipeline.
func ProvidePipeline(
	history repository.HistorySource,
	snapshot repository.SnapshotSource,
	series repository.SeriesSource,
	refiner service.ForecastRefiner,
	m repository.Metrics,
	scenario models.ScenarioConfig,
	l *applogger.Logger,
) *usecase.Pipeline {
	return usecase.NewPipeline(history, snapshot, series, refiner, m, scenario, l)
}

// ProvideCache creates the payload cache, Redis-backed when configured.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Redis.Enabled {
		return cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix("ratepulse"),
		)
	}
	return cache.NewMemoryCache(), nil
}

// ProvideWriter creates the output payload writer.
func ProvideWriter(cfg *config.Config) repository.PayloadWriter {
	return internalrepo.NewFileWriter(cfg.Data.OutputDir)
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(l *applogger.Logger, p *usecase.Pipeline, c cache.Service, cfg *config.Config) xhttp.Handler {
	return api.NewRatesHandler(l, p, c, cfg.Cache.TTL)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	pipeline *usecase.Pipeline,
	writer repository.PayloadWriter,
	handler xhttp.Handler,
	c cache.Service,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, pipeline, writer, handler, c, l)
}
