//go:build wireinject
// +build wireinject

package di

import (
	"SignalDash/pkg/config"
	"SignalDash/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Pull and push sides
		ProvideBackendClient,
		ProvidePushChannel,

		// Render surfaces
		ProvideHolder,
		ProvideTUI,
		ProvideRenderer,

		// Use cases
		ProvideReconcilerOptions,
		ProvideReconciler,

		// HTTP
		ProvideDashboardHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return &server.App{}, nil
}
