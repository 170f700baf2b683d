package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"chatledger/sources/platform"
	"chatledger/sources/throttler"
	"chatledger/sources/tracing"

	"github.com/go-resty/resty/v2"
)

// HostSource queries an exchangerate.host compatible /convert endpoint.
type HostSource struct {
	client    *resty.Client
	throttler *throttler.Throttler
	apiKey    string
	log       *tracing.Logger
}

type convertResponse struct {
	Success *bool `json:"success"`
	Info    struct {
		Rate *float64 `json:"rate"`
	} `json:"info"`
	Error *struct {
		Info string `json:"info"`
	} `json:"error"`
}

func NewHostSource(httpClient *http.Client, throttler *throttler.Throttler, config *ExchangeConfig, log *tracing.Logger) *HostSource {
	c := resty.NewWithClient(httpClient).
		SetBaseURL(config.APIURL).
		SetHeader("Accept", "application/json")

	return &HostSource{client: c, throttler: throttler, apiKey: config.APIKey, log: log}
}

func (s *HostSource) Rate(ctx context.Context, from, to string) (float64, error) {
	if s.throttler != nil {
		if err := s.throttler.Wait(ctx, "exchange"); err != nil {
			return 0, err
		}
	}

	req := s.client.R().
		SetQueryParam("from", from).
		SetQueryParam("to", to)
	if s.apiKey != "" {
		req.SetQueryParam("access_key", s.apiKey)
	}

	ctx, cancel := platform.ContextTimeout(ctx)
	defer cancel()

	resp, err := tracing.ReportExecutionForRE(s.log, func() (*resty.Response, error) {
		return req.SetContext(ctx).Get("/convert")
	}, func(l *tracing.Logger) {
		l.D("Exchange API call finished", tracing.CurrencyPair, from+"."+to)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: request %s.%s: %v", ErrExchangeRateUnavailable, from, to, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d: %s", ErrExchangeRateUnavailable, resp.StatusCode(), resp.String())
	}

	var body convertResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return 0, fmt.Errorf("%w: decode response: %v", ErrExchangeRateUnavailable, err)
	}
	if body.Success != nil && !*body.Success {
		reason := "unsuccessful response"
		if body.Error != nil && body.Error.Info != "" {
			reason = body.Error.Info
		}
		return 0, fmt.Errorf("%w: %s", ErrExchangeRateUnavailable, reason)
	}
	if body.Info.Rate == nil {
		return 0, fmt.Errorf("%w: response has no info.rate", ErrExchangeRateUnavailable)
	}

	s.log.D("Remote rate received", tracing.CurrencyPair, from+"."+to, tracing.Rate, *body.Info.Rate)
	return *body.Info.Rate, nil
}
