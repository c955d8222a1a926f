package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// ProvideRedisClient returns nil when REDIS_ADDR is unset, which disables stats.
func ProvideRedisClient(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("redis not configured, relay stats disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}

var InfrastructureModule = fx.Options(
	fx.Provide(ProvideRedisClient),
)
