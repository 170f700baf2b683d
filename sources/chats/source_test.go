package chats

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{url: "https://www.youtube.com/watch?v=wPt5vEHEJkA", expected: "wPt5vEHEJkA"},
		{url: "https://youtu.be/wPt5vEHEJkA", expected: "wPt5vEHEJkA"},
		{url: "https://www.youtube.com/live/wPt5vEHEJkA?si=x", expected: "wPt5vEHEJkA"},
		{url: "https://www.youtube.com/watch?v=short", wantErr: true},
		{url: "::", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, err := VideoID(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestReadVideoList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.txt")
	require.NoError(t, os.WriteFile(path, []byte("wPt5vEHEJkA\n\n  https://youtu.be/abcdefghijk \nAAAAAAAAAAA\n"), 0o644))

	urls, err := ReadVideoList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		WatchURL + "wPt5vEHEJkA",
		"https://youtu.be/abcdefghijk",
		WatchURL + "AAAAAAAAAAA",
	}, urls)
}

func TestExportSourceFetch(t *testing.T) {
	dir := t.TempDir()
	content := `[
		{"message_id": "m1", "message": "hi", "time_in_seconds": 1.5,
		 "author": {"id": "u1", "badges": [{"title": "New member"}]}},
		{"message_id": "m2", "message": null, "money": {"amount": 5, "currency": "EUR"}, "author": {"id": "u2"}}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wPt5vEHEJkA.json"), []byte(content), 0o644))

	source := NewExportSource(dir)

	messages, err := source.Fetch(context.Background(), WatchURL+"wPt5vEHEJkA")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	months, ok := messages[0].Membership()
	assert.True(t, ok)
	assert.Equal(t, 1, months)
	assert.Equal(t, "EUR", messages[1].Money.Currency)

	_, err = source.Fetch(context.Background(), WatchURL+"missingvid1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportSourceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExportSource(t.TempDir()).Fetch(ctx, WatchURL+"wPt5vEHEJkA")
	assert.ErrorIs(t, err, context.Canceled)
}
