package throttler

import (
	"time"
	"chatledger/sources/configuration"
	"chatledger/sources/platform"
)

type ThrottlerConfig struct {
	Limit time.Duration
}

func NewThrottlerConfig(config *configuration.Config) *ThrottlerConfig {
	return &ThrottlerConfig{Limit: platform.GetAsDuration("REMOTE_THROTTLE_LIMIT", config.Throttler.Limit.String())}
}
