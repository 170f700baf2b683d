package chats

import (
	"context"
	"fmt"
	"path/filepath"

	"chatledger/sources/localcache"
	"chatledger/sources/metrics"
	"chatledger/sources/tracing"
)

// Recorder turns raw downloads into unit files holding only paid messages.
type Recorder struct {
	source   ChatSource
	metadata *localcache.Store[Metadata]
	outDir   string
	metrics  *metrics.MetricsService
	log      *tracing.Logger
}

type RecordResult struct {
	Recorded int `json:"recorded"`
	Skipped  int `json:"skipped"`
	Messages int `json:"messages"`
}

func NewRecorder(source ChatSource, metadata *localcache.Store[Metadata], outDir string, metrics *metrics.MetricsService, log *tracing.Logger) *Recorder {
	return &Recorder{source: source, metadata: metadata, outDir: outDir, metrics: metrics, log: log}
}

// RecordAll records every url. A failed chat fetch skips that video; anything else aborts.
func (r *Recorder) RecordAll(ctx context.Context, urls []string) (RecordResult, error) {
	var result RecordResult

	for _, videoURL := range urls {
		raw, err := r.source.Fetch(ctx, videoURL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Skipped++
			r.metrics.RecordUnit("skipped")
			r.log.W("Chat fetch failed, video skipped", tracing.UnitUrl, videoURL, tracing.Skipped, result.Skipped, tracing.InnerError, err)
			continue
		}

		count, err := r.record(videoURL, raw)
		if err != nil {
			return result, err
		}

		result.Recorded++
		result.Messages += count
		r.metrics.RecordUnit("recorded")
		r.log.I("Video recorded", tracing.UnitUrl, videoURL, tracing.Processed, result.Recorded, "paid_messages", count)
	}

	return result, nil
}

func (r *Recorder) record(videoURL string, raw []RawMessage) (int, error) {
	if !r.metadata.Has(videoURL) {
		return 0, fmt.Errorf("no cached metadata for %s: %w", videoURL, localcache.ErrKeyNotFound)
	}
	metadata, err := r.metadata.Get(videoURL)
	if err != nil {
		return 0, err
	}

	id, err := VideoID(videoURL)
	if err != nil {
		return 0, err
	}

	messages, err := PaidMessages(raw)
	if err != nil {
		return 0, fmt.Errorf("video %s: %w", id, err)
	}
	if err := WriteUnit(filepath.Join(r.outDir, id+".json"), metadata, messages); err != nil {
		return 0, err
	}
	return len(messages), nil
}
