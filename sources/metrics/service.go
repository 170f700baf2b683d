package metrics

import (
	"time"
	"chatledger/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	rateLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_rate_lookups_total",
			Help: "Exchange rate lookups by outcome (hit, miss, reference)",
		},
		[]string{"outcome"},
	)

	rateFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_rate_failures_total",
			Help: "Remote exchange rate lookups that failed",
		},
		[]string{"pair"},
	)

	unitsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_units_processed_total",
			Help: "Content units handled by status",
		},
		[]string{"status"},
	)

	messagesIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_messages_ingested_total",
			Help: "Chat messages consumed by kind",
		},
		[]string{"kind"},
	)

	revenueByCurrency = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatledger_revenue_reference_total",
			Help: "Revenue normalized to the reference currency, labelled by source currency",
		},
		[]string{"currency"},
	)

	unitProcessingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatledger_unit_processing_duration_seconds",
			Help:    "Time spent ingesting a single content unit",
			Buckets: prometheus.DefBuckets,
		},
	)

	membersTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "chatledger_members_tracked",
			Help: "Users present in the membership master list",
		},
	)
)

func init() {
	prometheus.MustRegister(rateLookups)
	prometheus.MustRegister(rateFailures)
	prometheus.MustRegister(unitsProcessed)
	prometheus.MustRegister(messagesIngested)
	prometheus.MustRegister(revenueByCurrency)
	prometheus.MustRegister(unitProcessingDuration)
	prometheus.MustRegister(membersTracked)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordRateLookup(outcome string) {
	rateLookups.WithLabelValues(outcome).Inc()
}

func (s *MetricsService) RecordRateFailure(pair string) {
	rateFailures.WithLabelValues(pair).Inc()
}

func (s *MetricsService) RecordUnit(status string) {
	unitsProcessed.WithLabelValues(status).Inc()
}

func (s *MetricsService) RecordMessage(kind string) {
	messagesIngested.WithLabelValues(kind).Inc()
}

func (s *MetricsService) RecordRevenue(currency string, amount float64) {
	if amount < 0 {
		return
	}
	revenueByCurrency.WithLabelValues(currency).Add(amount)
}

func (s *MetricsService) RecordUnitDuration(duration time.Duration) {
	unitProcessingDuration.Observe(duration.Seconds())
}

func (s *MetricsService) SetMembers(count int) {
	membersTracked.Set(float64(count))
}

// Flush writes the default registry in the node-exporter textfile format.
func (s *MetricsService) Flush(path string) error {
	if path == "" {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		s.log.E("Failed to write metrics textfile", tracing.InnerError, err, "path", path)
		return err
	}

	s.log.I("Metrics textfile written", "path", path)
	return nil
}
