package exchange

import (
	"chatledger/sources/localcache"
	"chatledger/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("exchange",
	fx.Provide(
		NewExchangeConfig,
		NewRateCache,
		NewHostSource,
		func(s *HostSource) RateSource { return s },
		NewResolver,
	),
)

func NewRateCache(config *ExchangeConfig, log *tracing.Logger) (*localcache.Store[RateEntry], error) {
	cache, err := localcache.Open[RateEntry](config.CachePath)
	if err != nil {
		log.E("Failed to open exchange rate cache", tracing.InnerError, err, tracing.CachePath, config.CachePath)
		return nil, err
	}

	log.I("Exchange rate cache loaded", tracing.CachePath, config.CachePath, "entries", cache.Len())
	return cache, nil
}
