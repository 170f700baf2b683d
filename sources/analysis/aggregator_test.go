package analysis

import (
	"context"
	"errors"
	"testing"

	"chatledger/sources/chats"
	"chatledger/sources/exchange"
	"chatledger/sources/metrics"
	"chatledger/sources/sequence"
	"chatledger/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRates converts with a static table keyed by normalized currency.
type fixedRates map[string]string

func (f fixedRates) Convert(ctx context.Context, amount decimal.Decimal, currency string) (decimal.Decimal, error) {
	currency = exchange.NormalizeCurrency(currency)
	if currency == "USD" {
		return amount, nil
	}
	rate, ok := f[currency]
	if !ok {
		return decimal.Zero, exchange.ErrExchangeRateUnavailable
	}
	return amount.Mul(decimal.RequireFromString(rate)), nil
}

func newAggregator(converter Converter) *Aggregator {
	log := tracing.NewDiscardLogger()
	return NewAggregator(converter, sequence.NewGenerator(), metrics.NewMetricsService(log), log)
}

func paid(amount, currency string, text *string) chats.Message {
	return chats.Message{Money: &chats.Money{Amount: decimal.RequireFromString(amount), Currency: currency}, Text: text}
}

func textOnly(text string) chats.Message {
	return chats.Message{Text: &text}
}

func TestIngestTwoUnits(t *testing.T) {
	a := newAggregator(fixedRates{"EUR": "1.1"})
	ctx := context.Background()

	unitA := &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{paid("10", "USD", nil), paid("5", "EUR", nil)},
	}
	unitB := &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-15"},
		Messages: []chats.Message{textOnly("hello")},
	}

	totalA, err := a.Ingest(ctx, unitA)
	require.NoError(t, err)
	totalB, err := a.Ingest(ctx, unitB)
	require.NoError(t, err)

	assert.Equal(t, "15.5", totalA.String())
	assert.True(t, totalB.IsZero())
	assert.Equal(t, "15.5", a.Total.String())

	assert.Len(t, a.ByCurrency, 2)
	assert.Equal(t, "10", a.ByCurrency["USD"].String())
	assert.Equal(t, "5.5", a.ByCurrency["EUR"].String())

	require.Len(t, a.ByUnit, 2)
	assert.Equal(t, "15.5", a.ByUnit["202304100"].String())
	assert.True(t, a.ByUnit["202304101"].IsZero())
	assert.Equal(t, "15.5", a.ByMonth["202304"].String())

	assert.True(t, a.Consistent())
	assert.Equal(t, 2, a.Units)
	assert.Equal(t, 2, a.PaidMessages)
	assert.Equal(t, 1, a.TextMessages)
}

func TestIngestCrossMappingConsistency(t *testing.T) {
	a := newAggregator(fixedRates{"EUR": "1.1", "JPY": "0.0075", "VND": "0.00004", "GBP": "1.25"})
	note := "thanks"

	units := []*chats.Unit{
		{Metadata: chats.Metadata{PublishDate: "2023-01-03"}, Messages: []chats.Message{paid("1000", "JPY", &note), paid("2", "gbp", nil)}},
		{Metadata: chats.Metadata{PublishDate: "2023-01-20"}, Messages: []chats.Message{paid("50000", "₫", nil)}},
		{Metadata: chats.Metadata{PublishDate: "2023-02-11"}, Messages: nil},
		{Metadata: chats.Metadata{PublishDate: "2023-03-01"}, Messages: []chats.Message{paid("19.99", "usd", nil), paid("3.33", "EUR", nil)}},
	}

	for _, unit := range units {
		_, err := a.Ingest(context.Background(), unit)
		require.NoError(t, err)
	}

	assert.True(t, sum(a.ByCurrency).Equal(a.Total))
	assert.True(t, sum(a.ByMonth).Equal(a.Total))
	assert.True(t, sum(a.ByUnit).Equal(a.Total))
	assert.Equal(t, []string{"202301", "202302", "202303"}, keys(a.ByMonth))
	assert.Contains(t, a.ByCurrency, "VND")
	assert.Contains(t, a.ByCurrency, "GBP")
	assert.Len(t, a.ByUnit, 4)
}

func TestIngestCorpus(t *testing.T) {
	a := newAggregator(fixedRates{})
	first, second := "first", "second"

	_, err := a.Ingest(context.Background(), &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{paid("1", "USD", &first), {}, textOnly(second)},
	})
	require.NoError(t, err)

	assert.Equal(t, "first\nsecond\n", a.Corpus())
}

func TestIngestFailureLeavesAggregatesUntouched(t *testing.T) {
	a := newAggregator(fixedRates{})
	text := "lost"

	_, err := a.Ingest(context.Background(), &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{paid("10", "USD", &text), paid("5", "CHF", nil)},
	})

	assert.True(t, errors.Is(err, exchange.ErrExchangeRateUnavailable))
	assert.True(t, a.Total.IsZero())
	assert.Empty(t, a.ByCurrency)
	assert.Empty(t, a.ByUnit)
	assert.Empty(t, a.Corpus())
}

func TestIngestInvalidDate(t *testing.T) {
	a := newAggregator(fixedRates{})

	_, err := a.Ingest(context.Background(), &chats.Unit{Metadata: chats.Metadata{PublishDate: "20230401"}})
	assert.ErrorIs(t, err, sequence.ErrInvalidDateFormat)
}

func keys(m map[string]decimal.Decimal) []string {
	var out []string
	for _, e := range entries(m) {
		out = append(out, e.Key)
	}
	return out
}

type prefixLanguages struct{}

func (prefixLanguages) DetectLanguage(text string) (string, bool) {
	if len(text) < 3 {
		return "", false
	}
	return text[:2], true
}

func TestIngestCountsLanguages(t *testing.T) {
	a := newAggregator(fixedRates{}).WithLanguages(prefixLanguages{})
	english, spanish, short := "en: thanks", "es: gracias", "ok"

	_, err := a.Ingest(context.Background(), &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{paid("1", "USD", &english), textOnly(spanish), textOnly(english), textOnly(short)},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"en": 2, "es": 1}, a.Languages)
	assert.Equal(t, 4, a.TextMessages)
}

func messagesIngested(t *testing.T, kind string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "chatledger_messages_ingested_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "kind" && label.GetValue() == kind {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestIngestRecordsMessageKinds(t *testing.T) {
	kinds := []chats.MessageKind{chats.KindPaid, chats.KindText, chats.KindMembership, chats.KindEmpty}
	before := make(map[chats.MessageKind]float64, len(kinds))
	for _, kind := range kinds {
		before[kind] = messagesIngested(t, string(kind))
	}

	a := newAggregator(fixedRates{"EUR": "1.1"})
	_, err := a.Ingest(context.Background(), &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{
			paid("10", "USD", nil),
			paid("5", "EUR", nil),
			textOnly("hi"),
			{MembershipMonths: 3},
			{},
		},
	})
	require.NoError(t, err)

	expected := map[chats.MessageKind]float64{chats.KindPaid: 2, chats.KindText: 1, chats.KindMembership: 1, chats.KindEmpty: 1}
	for _, kind := range kinds {
		assert.Equal(t, before[kind]+expected[kind], messagesIngested(t, string(kind)), string(kind))
	}
}

func TestIngestFailureRecordsNoMessages(t *testing.T) {
	before := messagesIngested(t, string(chats.KindText))

	a := newAggregator(fixedRates{})
	_, err := a.Ingest(context.Background(), &chats.Unit{
		Metadata: chats.Metadata{PublishDate: "2023-04-01"},
		Messages: []chats.Message{textOnly("lost"), paid("5", "CHF", nil)},
	})
	require.Error(t, err)

	assert.Equal(t, before, messagesIngested(t, string(chats.KindText)))
}
