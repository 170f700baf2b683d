package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"chatledger/sources/chats"
	"chatledger/sources/exchange"
	"chatledger/sources/localization"
	"chatledger/sources/membership"
	"chatledger/sources/metrics"
	"chatledger/sources/sequence"
	"chatledger/sources/tracing"
)

var ErrInconsistentAggregates = errors.New("aggregates do not sum to the same total")

// Pipeline runs one closed batch: every unit file under the chats directory, then the membership
// master list summary.
type Pipeline struct {
	config    *AnalysisConfig
	resolver  *exchange.Resolver
	languages *localization.LanguageDetector
	metrics   *metrics.MetricsService
	log       *tracing.Logger
}

// NewPipeline accepts a nil detector, in which case no language breakdown is reported.
func NewPipeline(config *AnalysisConfig, resolver *exchange.Resolver, languages *localization.LanguageDetector, metrics *metrics.MetricsService, log *tracing.Logger) *Pipeline {
	return &Pipeline{config: config, resolver: resolver, languages: languages, metrics: metrics, log: log}
}

func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	defer tracing.ProfilePoint(p.log, "Analysis completed", "analysis.pipeline.run")()

	paths, err := chats.ListUnits(p.config.ChatsDir)
	if err != nil {
		return nil, err
	}
	p.log.I("Analysis started", "units", len(paths), "chats_dir", p.config.ChatsDir)

	aggregator := NewAggregator(p.resolver, sequence.NewGenerator(), p.metrics, p.log)
	if p.languages != nil {
		aggregator.WithLanguages(p.languages)
	}
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		unit, err := chats.ReadUnit(path)
		if err != nil {
			p.log.E("Failed to read unit", tracing.UnitPath, path, tracing.InnerError, err)
			return nil, err
		}

		total, err := aggregator.Ingest(ctx, unit)
		if err != nil {
			p.log.E("Failed to ingest unit", tracing.UnitPath, path, tracing.InnerError, err)
			return nil, err
		}

		p.log.I("Unit processed", tracing.UnitPath, path, tracing.Processed, i+1, "of", len(paths), tracing.Total, total.String())
	}

	if !aggregator.Consistent() {
		return nil, fmt.Errorf("%w: total %s", ErrInconsistentAggregates, aggregator.Total)
	}

	var summary *membership.Summary
	if p.config.MembershipFile != "" {
		summary, err = p.summarizeMembers()
		if err != nil {
			return nil, err
		}
	}

	report := NewReport(aggregator, p.resolver.Reference(), summary)

	if p.config.CorpusFile != "" {
		if err := writeFile(p.config.CorpusFile, []byte(aggregator.Corpus())); err != nil {
			return nil, err
		}
		p.log.I("Corpus written", "path", p.config.CorpusFile, "bytes", len(aggregator.Corpus()))
	}
	if p.config.ReportFile != "" {
		if err := report.WriteJSON(p.config.ReportFile); err != nil {
			return nil, err
		}
		p.log.I("Report written", "path", p.config.ReportFile)
	}

	return report, nil
}

// summarizeMembers reads the master list without creating it; a missing list means no membership section.
func (p *Pipeline) summarizeMembers() (*membership.Summary, error) {
	if _, err := os.Stat(p.config.MembershipFile); errors.Is(err, fs.ErrNotExist) {
		p.log.W("Membership master list not found, skipping membership summary", "path", p.config.MembershipFile)
		return nil, nil
	}

	list, err := membership.OpenMasterList(p.config.MembershipFile)
	if err != nil {
		return nil, err
	}

	s := list.Load().Summarize(p.config.MonthlyPrice)
	p.metrics.SetMembers(s.MemberCount)
	return &s, nil
}
