//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"renewalpulse/internal"
	"renewalpulse/internal/controllers"
	"renewalpulse/internal/models"
	"renewalpulse/internal/notify"
	"renewalpulse/internal/providers"
	"renewalpulse/internal/rates"
	"renewalpulse/internal/scheduler"
	"renewalpulse/internal/services"
	"renewalpulse/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		models.NewSubscriptionStore,
		rates.NewConverter,
		services.NewSubscriptionService,
		wire.Bind(new(providers.RecordCounter), new(services.SubscriptionServiceInterface)),

		notify.NewDispatcher,
		scheduler.NewZstdCompressor,
		scheduler.NewFileManager,
		scheduler.NewSweeper,
		scheduler.NewScheduler,

		controllers.NewCacheStamp,
		controllers.NewApiController,
		controllers.NewExportController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
