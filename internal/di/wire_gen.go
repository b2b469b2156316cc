// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"RatePulse/pkg/config"
	"RatePulse/pkg/server"
)

// Injectors from wire.go:

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}
	historySource := ProvideHistorySource(cfg, logger)
	snapshotSource := ProvideSnapshotSource(cfg)
	seriesSource := ProvideSeriesSource(cfg, logger)
	forecastRefiner := ProvideRefiner(cfg, logger)
	metrics := ProvideMetrics()
	scenarioConfig := ProvideScenarioConfig(cfg)
	pipeline := ProvidePipeline(historySource, snapshotSource, seriesSource, forecastRefiner, metrics, scenarioConfig, logger)
	payloadWriter := ProvideWriter(cfg)
	service, err := ProvideCache(cfg)
	if err != nil {
		return nil, err
	}
	handler := ProvideHandler(logger, pipeline, service, cfg)
	app := ProvideApp(cfg, pipeline, payloadWriter, handler, service, logger)
	return app, nil
}
