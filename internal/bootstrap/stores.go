package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/vokchat/internal/stats"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

func ProvideStatsStore(lc fx.Lifecycle, redisClient *redis.Client, logger *slog.Logger) *stats.Store {
	store := stats.NewStore(redisClient, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			store.Close()
			return nil
		},
	})
	return store
}

var StoresModule = fx.Options(
	fx.Provide(ProvideStatsStore),
)
