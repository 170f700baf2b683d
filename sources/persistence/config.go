package persistence

import (
	"time"
	"chatledger/sources/configuration"
	"chatledger/sources/platform"
)

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
}

func NewRedisConfig(config *configuration.Config) *RedisConfig {
	r := config.Redis
	return &RedisConfig{
		Enabled:     platform.GetAsBool("REDIS_ENABLED", r.Enabled),
		Host:        platform.Get("REDIS_HOST", r.Host),
		Port:        platform.GetAsInt("REDIS_PORT", r.Port),
		Password:    platform.Get("REDIS_PASSWORD", r.Password),
		DB:          platform.GetAsInt("REDIS_DB", r.DB),
		MaxRetries:  platform.GetAsInt("REDIS_MAX_RETRIES", r.MaxRetries),
		DialTimeout: platform.GetAsDuration("REDIS_DIAL_TIMEOUT", r.DialTimeout.String()),
	}
}
