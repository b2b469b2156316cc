//go:build wireinject
// +build wireinject

package di

import (
	"RatePulse/pkg/config"
	"RatePulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Data sources
		ProvideHistorySource,
		ProvideSnapshotSource,
		ProvideSeriesSource,
		ProvideRefiner,
		ProvideScenarioConfig,

		// Use cases
		ProvidePipeline,

		// Delivery
		ProvideCache,
		ProvideWriter,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
