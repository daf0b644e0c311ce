//go:build wireinject
// +build wireinject

package di

import (
	"MarketScan/pkg/config"
	"MarketScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Infrastructure
		ProvideMarketSource,
		ProvideSnapshotStore,
		ProvideRecorder,

		// Services
		ProvideScanCache,
		ProvideLimiter,
		ProvideHub,

		// Use cases and handlers
		ProvideScanner,
		ProvideScanHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
