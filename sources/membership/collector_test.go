package membership

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chatledger/sources/chats"
	"chatledger/sources/metrics"
	"chatledger/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource map[string][]chats.RawMessage

func (s stubSource) Fetch(ctx context.Context, videoURL string) ([]chats.RawMessage, error) {
	messages, ok := s[videoURL]
	if !ok {
		return nil, errors.New("members-only stream")
	}
	return messages, nil
}

func member(id, badge string) chats.RawMessage {
	return chats.RawMessage{MessageID: id + badge, Author: chats.Author{ID: id, Badges: []chats.Badge{{Title: badge}}}}
}

func TestObserve(t *testing.T) {
	raw := []chats.RawMessage{
		member("u1", "Member (2 months)"),
		member("u1", "Member (6 months)"),
		member("u1", "New member"),
		member("u2", "Moderator"),
		{MessageID: "anon", Author: chats.Author{Badges: []chats.Badge{{Title: "New member"}}}},
		member("u3", "Member (1 year)"),
	}

	assert.Equal(t, map[string]int{"u1": 6, "u3": 12}, Observe(raw))
}

func TestCollectSkipsFailedFetchesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "membership", "member_list.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"u1": 8, "u9": 2}`), 0o644))

	list, err := OpenMasterList(path)
	require.NoError(t, err)

	source := stubSource{
		"v1": {member("u1", "Member (2 months)"), member("u2", "New member")},
		"v3": {member("u2", "Member (3 months)"), member("u9", "Member (1 month)")},
	}
	log := tracing.NewDiscardLogger()
	collector := NewCollector(source, list, metrics.NewMetricsService(log), log)

	result, err := collector.Collect(context.Background(), []string{"v1", "v2", "v3"})
	require.NoError(t, err)
	assert.Equal(t, CollectResult{Processed: 2, Skipped: 1, Changed: 2, Members: 3}, result)

	reopened, err := OpenMasterList(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"u1": 8, "u2": 3, "u9": 2}, reopened.Load().Members())
}

func TestCollectCancelled(t *testing.T) {
	list, err := OpenMasterList(filepath.Join(t.TempDir(), "members.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	log := tracing.NewDiscardLogger()
	collector := NewCollector(chats.NewExportSource(t.TempDir()), list, metrics.NewMetricsService(log), log)

	_, err = collector.Collect(ctx, []string{chats.WatchURL + "wPt5vEHEJkA"})
	assert.ErrorIs(t, err, context.Canceled)
}
