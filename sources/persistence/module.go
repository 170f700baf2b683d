package persistence

import (
	"context"
	"chatledger/sources/tracing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("persistence",
	fx.Provide(
		NewRedisConfig, NewRedis,
	),

	fx.Invoke(func(redis *redis.Client, lc fx.Lifecycle, log *tracing.Logger) {
		if redis == nil {
			return
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := redis.Ping(ctx).Err(); err != nil {
					log.E("Failed to ping Redis", tracing.InnerError, err)
					return err
				}
				log.I("Redis connection verified")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				log.I("Closing redis connection")
				return redis.Close()
			},
		})
	}),
)
