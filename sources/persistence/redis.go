package persistence

import (
	"strconv"
	"chatledger/sources/tracing"

	"github.com/redis/go-redis/v9"
)

// NewRedis returns nil when redis is disabled; consumers treat a nil client as "no shared state".
func NewRedis(config *RedisConfig, log *tracing.Logger) *redis.Client {
	if !config.Enabled {
		log.D("Redis disabled, remote lookups are throttled in-process only")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:                  config.Host + ":" + strconv.Itoa(config.Port),
		Password:              config.Password,
		DB:                    config.DB,
		MaxRetries:            config.MaxRetries,
		DialTimeout:           config.DialTimeout,
		ContextTimeoutEnabled: true,
	})

	log.I("Redis client initialized successfully", "addr", rdb.Options().Addr)
	return rdb
}
