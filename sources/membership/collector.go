package membership

import (
	"context"

	"chatledger/sources/chats"
	"chatledger/sources/metrics"
	"chatledger/sources/tracing"
)

type CollectResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Changed   int `json:"changed"`
	Members   int `json:"members"`
}

// Collector walks video chats and folds member badges into the master list.
type Collector struct {
	source  chats.ChatSource
	list    *MasterList
	metrics *metrics.MetricsService
	log     *tracing.Logger
}

func NewCollector(source chats.ChatSource, list *MasterList, metrics *metrics.MetricsService, log *tracing.Logger) *Collector {
	return &Collector{source: source, list: list, metrics: metrics, log: log}
}

// Collect processes urls in order. A failed chat fetch is logged and the video skipped; the master
// list is rewritten after every video that was read.
func (c *Collector) Collect(ctx context.Context, urls []string) (CollectResult, error) {
	tracker := c.list.Load()
	result := CollectResult{}

	for _, videoURL := range urls {
		raw, err := c.source.Fetch(ctx, videoURL)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Skipped++
			c.metrics.RecordUnit("skipped")
			c.log.W("Chat fetch failed, video skipped", tracing.UnitUrl, videoURL, tracing.Skipped, result.Skipped, tracing.InnerError, err)
			continue
		}

		observations := Observe(raw)
		result.Changed += tracker.Merge(observations)
		if err := c.list.Save(tracker); err != nil {
			return result, err
		}

		result.Processed++
		c.metrics.RecordUnit("collected")
		c.log.I("Membership collected", tracing.UnitUrl, videoURL, tracing.Processed, result.Processed, "observed", len(observations))
	}

	result.Members = tracker.Len()
	c.metrics.SetMembers(result.Members)
	return result, nil
}

// Observe extracts the longest badge period per author id from one video's chat.
func Observe(raw []chats.RawMessage) map[string]int {
	observations := make(map[string]int)
	for _, m := range chats.Dedupe(raw) {
		if m.Author.ID == "" {
			continue
		}
		months, ok := m.Membership()
		if !ok {
			continue
		}
		if current, seen := observations[m.Author.ID]; !seen || months > current {
			observations[m.Author.ID] = months
		}
	}
	return observations
}
