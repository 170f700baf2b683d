// Package exchange converts donation amounts into the reference currency.
//
// Rates are cached on disk per currency pair together with the calendar date they were fetched on.
// A cached rate is reused only on that same date; any other date forces a remote lookup.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chatledger/sources/localcache"
	"chatledger/sources/metrics"
	"chatledger/sources/platform"
	"chatledger/sources/tracing"

	"github.com/shopspring/decimal"
)

const dateLayout = time.DateOnly

var ErrExchangeRateUnavailable = errors.New("exchange rate unavailable")

// RateSource looks up a live conversion rate. Retry policy, if any, belongs to the implementation.
//
//go:generate mockgen -destination=mocks/mock_ratesource.go -package=mock_exchange -source=resolver.go RateSource
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// RateEntry is the on-disk cache value, compatible with {"date": "YYYY-MM-DD", "rate": 1.23}.
type RateEntry struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

type Resolver struct {
	cache     *localcache.Store[RateEntry]
	source    RateSource
	reference string
	metrics   *metrics.MetricsService
	log       *tracing.Logger
	now       func() time.Time
}

func NewResolver(cache *localcache.Store[RateEntry], source RateSource, config *ExchangeConfig, metrics *metrics.MetricsService, log *tracing.Logger) *Resolver {
	return &Resolver{
		cache:     cache,
		source:    source,
		reference: NormalizeCurrency(config.ReferenceCurrency),
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock used by the freshness check.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

func (r *Resolver) Reference() string {
	return r.reference
}

// Convert returns amount expressed in the reference currency. Amounts already in the reference
// currency are returned untouched without consulting the cache.
func (r *Resolver) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	currency = NormalizeCurrency(currency)
	if currency == r.reference {
		r.metrics.RecordRateLookup("reference")
		return amount, nil
	}

	rate, err := r.Rate(ctx, currency, r.reference)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Rate returns the from->to rate, served from cache when it was fetched today.
func (r *Resolver) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from, to = NormalizeCurrency(from), NormalizeCurrency(to)
	for _, code := range []string{from, to} {
		if err := platform.ValidateCurrencyCode(code); err != nil {
			r.metrics.RecordRateFailure("invalid")
			return decimal.Zero, fmt.Errorf("%w: %v", ErrExchangeRateUnavailable, err)
		}
	}
	key := PairKey(from, to)
	today := r.now().Format(dateLayout)

	if r.cache.Has(key) {
		entry, err := r.cache.Get(key)
		if err != nil {
			return decimal.Zero, err
		}
		if entry.Date == today {
			r.metrics.RecordRateLookup("hit")
			return decimal.NewFromFloat(entry.Rate), nil
		}
		r.log.D("Cached rate is stale", tracing.CurrencyPair, key, "cached_date", entry.Date)
	}

	r.metrics.RecordRateLookup("miss")
	rate, err := r.source.Rate(ctx, from, to)
	if err != nil {
		r.metrics.RecordRateFailure(key)
		r.log.E("Remote rate lookup failed", tracing.CurrencyPair, key, tracing.InnerError, err)
		if errors.Is(err, ErrExchangeRateUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrExchangeRateUnavailable, key, err)
	}
	if rate <= 0 {
		r.metrics.RecordRateFailure(key)
		return decimal.Zero, fmt.Errorf("%w: %s: non-positive rate %v", ErrExchangeRateUnavailable, key, rate)
	}

	r.log.I("Fetched exchange rate", tracing.CurrencyPair, key, tracing.Rate, rate)
	if err := r.cache.Set(key, RateEntry{Date: today, Rate: rate}); err != nil {
		return decimal.Zero, fmt.Errorf("store rate %s: %w", key, err)
	}

	return decimal.NewFromFloat(rate), nil
}
