package main

import (
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"vipclub-backend/internal/httpapi"
	"vipclub-backend/pkg/asynq"
	"vipclub-backend/pkg/config"
	"vipclub-backend/pkg/db"
	"vipclub-backend/pkg/gen"
	"vipclub-backend/pkg/health"
	"vipclub-backend/pkg/logger"
	"vipclub-backend/pkg/mongodb"
	"vipclub-backend/pkg/platform"
	"vipclub-backend/pkg/redis"
	"vipclub-backend/pkg/server"
	"vipclub-backend/services/analytics"
	"vipclub-backend/services/campaign"
	"vipclub-backend/services/catalog"
	"vipclub-backend/services/plan"
	"vipclub-backend/services/session"
	"vipclub-backend/services/shipment"
	"vipclub-backend/services/user"
	"vipclub-backend/services/vipconfig"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		mongodb.Module,
		redis.Module,
		gen.Module,
		asynq.Client,
		asynq.Server,
		platform.Module,
		health.Module,
		fx.Provide(
			provideTracerProvider,
			provideMeterProvider,
		),
		httpapi.Module,
		session.Module,
		vipconfig.Module,
		user.Module,
		analytics.Module,
		plan.Module,
		plan.Gateway,
		campaign.Module,
		campaign.Gateway,
		catalog.Module,
		catalog.Gateway,
		shipment.Module,
		shipment.Gateway,
		server.ProvideHTTPServer,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	fx.New(opts...).Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})

func provideTracerProvider() trace.TracerProvider {
	return otel.GetTracerProvider()
}

func provideMeterProvider() metric.MeterProvider {
	return otel.GetMeterProvider()
}
