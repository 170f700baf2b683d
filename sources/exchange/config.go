package exchange

import (
	"chatledger/sources/configuration"
	"chatledger/sources/platform"
)

type ExchangeConfig struct {
	ReferenceCurrency string
	APIURL            string
	APIKey            string
	CachePath         string
}

func NewExchangeConfig(config *configuration.Config) (*ExchangeConfig, error) {
	c := &ExchangeConfig{
		ReferenceCurrency: NormalizeCurrency(platform.Get("REFERENCE_CURRENCY", config.Exchange.ReferenceCurrency)),
		APIURL:            platform.Get("EXCHANGE_API_URL", config.Exchange.APIURL),
		APIKey:            platform.Get("EXCHANGE_API_KEY", config.Exchange.APIKey),
		CachePath:         platform.Get("EXCHANGE_CACHE", config.Paths.ExchangeCache),
	}

	if err := platform.ValidateCurrencyCode(c.ReferenceCurrency); err != nil {
		return nil, err
	}
	if err := platform.ValidateNotEmpty(c.CachePath, "exchange cache path"); err != nil {
		return nil, err
	}
	return c, nil
}
