package mongodb

import (
	"context"
	"fmt"
	"os"
	"time"

	"vipclub-backend/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("mongodb",
	fx.Provide(New),
)

func New(lc fx.Lifecycle, cfg *config.Config) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		zap.L().Error("[Mongo] Failed to connect", zap.Error(err))
		os.Exit(1)
	}

	for i := 0; i < 5; i++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			break
		}
		zap.L().Warn("[Mongo] Mongo not ready, retrying in 3 seconds...", zap.Int("retry", i+1), zap.Error(err))
		time.Sleep(3 * time.Second)
	}

	if err != nil {
		zap.L().Error("[Mongo] Failed to reach Mongo", zap.Error(err))
		os.Exit(1)
	}

	zap.L().Info("[Mongo] ✅ Connected to Mongo")

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client
}

// DatabaseName returns the per-company database name, e.g. "8217_VIP_Program".
func DatabaseName(cfg *config.Config, companyID string) string {
	return fmt.Sprintf("%s%s", companyID, cfg.Mongo.DatabaseSuffix)
}
