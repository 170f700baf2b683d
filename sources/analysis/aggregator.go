// Package analysis folds chat units into revenue aggregates normalized to one reference currency.
//
// Every paid message lands in three groupings at once: by source currency, by the year-month of its
// unit and by unit identifier. All three always sum to Total.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chatledger/sources/chats"
	"chatledger/sources/exchange"
	"chatledger/sources/metrics"
	"chatledger/sources/sequence"
	"chatledger/sources/tracing"

	"github.com/shopspring/decimal"
)

// LanguageDetector names the language of a chat message, if it can.
type LanguageDetector interface {
	DetectLanguage(text string) (string, bool)
}

// Converter normalizes an amount into the reference currency.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error)
}

type Aggregator struct {
	converter Converter
	languages LanguageDetector
	ids       *sequence.Generator
	metrics   *metrics.MetricsService
	log       *tracing.Logger

	ByCurrency map[string]decimal.Decimal
	ByMonth    map[string]decimal.Decimal
	ByUnit     map[string]decimal.Decimal
	Total      decimal.Decimal

	Units        int
	PaidMessages int
	TextMessages int
	Languages    map[string]int

	corpus strings.Builder
}

func NewAggregator(converter Converter, ids *sequence.Generator, metrics *metrics.MetricsService, log *tracing.Logger) *Aggregator {
	return &Aggregator{
		converter:  converter,
		ids:        ids,
		metrics:    metrics,
		log:        log,
		ByCurrency: make(map[string]decimal.Decimal),
		ByMonth:    make(map[string]decimal.Decimal),
		ByUnit:     make(map[string]decimal.Decimal),
		Total:      decimal.Zero,
		Languages:  make(map[string]int),
	}
}

// WithLanguages counts the language of every message text as units are ingested.
func (a *Aggregator) WithLanguages(detector LanguageDetector) *Aggregator {
	a.languages = detector
	return a
}

type converted struct {
	currency string
	amount   decimal.Decimal
}

// Ingest consumes one unit and returns its total in the reference currency. Conversions are
// resolved before anything is accumulated, so a failing unit leaves the aggregates untouched.
func (a *Aggregator) Ingest(ctx context.Context, unit *chats.Unit) (decimal.Decimal, error) {
	start := time.Now()

	id, err := a.ids.Next(unit.Metadata.PublishDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unit %s: %w", unit.Path, err)
	}

	var paid []converted
	var texts []string
	kinds := make([]chats.MessageKind, 0, len(unit.Messages))
	unitTotal := decimal.Zero

	for _, message := range unit.Messages {
		kinds = append(kinds, message.Kind())
		if message.Text != nil {
			texts = append(texts, *message.Text)
		}
		if message.Money == nil {
			continue
		}

		amount, err := a.converter.Convert(ctx, message.Money.Amount, message.Money.Currency)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unit %s message %d: %w", id, message.Index, err)
		}

		paid = append(paid, converted{currency: exchange.NormalizeCurrency(message.Money.Currency), amount: amount})
		unitTotal = unitTotal.Add(amount)
	}

	for _, text := range texts {
		a.corpus.WriteString(text)
		a.corpus.WriteByte('\n')

		if a.languages != nil {
			if code, ok := a.languages.DetectLanguage(text); ok {
				a.Languages[code]++
			}
		}
	}
	for _, p := range paid {
		a.Total = a.Total.Add(p.amount)
		a.ByCurrency[p.currency] = a.ByCurrency[p.currency].Add(p.amount)
		a.metrics.RecordRevenue(p.currency, p.amount.InexactFloat64())
	}
	for _, kind := range kinds {
		a.metrics.RecordMessage(string(kind))
	}

	a.ByUnit[id] = a.ByUnit[id].Add(unitTotal)
	period := sequence.Period(id)
	a.ByMonth[period] = a.ByMonth[period].Add(unitTotal)

	a.Units++
	a.PaidMessages += len(paid)
	a.TextMessages += len(texts)
	a.metrics.RecordUnit("ingested")
	a.metrics.RecordUnitDuration(time.Since(start))

	a.log.D("Unit ingested", tracing.UnitId, id, tracing.PublishDate, unit.Metadata.PublishDate, tracing.Total, unitTotal.String(), "paid_messages", len(paid))
	return unitTotal, nil
}

func (a *Aggregator) Corpus() string {
	return a.corpus.String()
}

// Consistent reports whether the three groupings each sum to Total.
func (a *Aggregator) Consistent() bool {
	return sum(a.ByCurrency).Equal(a.Total) &&
		sum(a.ByMonth).Equal(a.Total) &&
		sum(a.ByUnit).Equal(a.Total)
}

func sum(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}
