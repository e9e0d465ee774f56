package db

import (
	"context"
	"os"

	"vipclub-backend/pkg/config"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module opens the SQLite database holding the platform SDK session
// storage table. The platform SDK writes session rows; this process
// only ever reads them.
var Module = fx.Module("database",
	fx.Provide(New),
	fx.Invoke(Otel, registerClose),
)

func New(cfg *config.Config) *gorm.DB {
	var logLevel logger.LogLevel
	if cfg.AppEnv == "production" {
		logLevel = logger.Warn
	} else {
		logLevel = logger.Info
	}

	gormLogger := NewZapGormLogger(zap.L(), logLevel)

	db, err := gorm.Open(sqlite.Open(cfg.SessionDB.Path), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		zap.L().Error("[DB] Failed to open session database", zap.String("path", cfg.SessionDB.Path), zap.Error(err))
		os.Exit(1)
	}

	zap.L().Info("[DB] ✅ Session database opened.", zap.String("path", cfg.SessionDB.Path))

	return db
}

func NewTest() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Otel(db *gorm.DB) error {
	if err := db.Use(otelgorm.NewPlugin()); err != nil {
		zap.L().Error("❌ Failed to register db telemetry", zap.Error(err))
		return err
	}

	return nil
}

func registerClose(lc fx.Lifecycle, db *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}
