package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("CHATLEDGER_TEST_DIR", "/data/chats")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "set variable", input: "dir: ${CHATLEDGER_TEST_DIR}", expected: "dir: /data/chats"},
		{name: "set variable ignores default", input: "${CHATLEDGER_TEST_DIR:/tmp}", expected: "/data/chats"},
		{name: "unset with default", input: "${CHATLEDGER_UNSET_VAR:fallback}", expected: "fallback"},
		{name: "unset without default", input: "x${CHATLEDGER_UNSET_VAR}y", expected: "xy"},
		{name: "no placeholders", input: "plain: value", expected: "plain: value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnv(tt.input))
		})
	}
}

func TestReadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
paths:
  chats_dir: videos
exchange:
  reference_currency: EUR
throttler:
  limit: 3s
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	config, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "videos", config.Paths.ChatsDir)
	assert.Equal(t, "EUR", config.Exchange.ReferenceCurrency)
	assert.Equal(t, 3*time.Second, config.Throttler.Limit)
	assert.Equal(t, "membership/member_list.json", config.Paths.MembershipFile)
	assert.Equal(t, "4.99", config.Membership.MonthlyPrice)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
