package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"chatledger/sources/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, handler http.HandlerFunc, apiKey string) *HostSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := &ExchangeConfig{APIURL: server.URL, APIKey: apiKey}
	return NewHostSource(server.Client(), nil, config, tracing.NewDiscardLogger())
}

func TestHostSourceRate(t *testing.T) {
	source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"info":{"rate":1.1},"result":1.1}`))
	}, "secret")

	rate, err := source.Rate(context.Background(), "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, 1.1, rate)
}

func TestHostSourceFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "malformed json", status: http.StatusOK, body: `{"info":`},
		{name: "missing rate", status: http.StatusOK, body: `{"success":true,"info":{}}`},
		{name: "unsuccessful", status: http.StatusOK, body: `{"success":false,"error":{"info":"invalid key"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "")

			_, err := source.Rate(context.Background(), "EUR", "USD")
			assert.ErrorIs(t, err, ErrExchangeRateUnavailable)
		})
	}
}
