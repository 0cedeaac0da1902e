package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const chartBody = `{"chart":{"result":[{"meta":{"symbol":"BBCA.JK"},"timestamp":[1,2,3,4],
"indicators":{"quote":[{"close":[8500.0,null,8750.5,9000.0]}]}}],"error":null}}`

func TestYahooClient_MonthlyCloses(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v8/finance/chart/BBCA.JK", r.URL.Path)
		assert.Equal(t, "10y", r.URL.Query().Get("range"))
		assert.Equal(t, "1mo", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	c := NewYahooClient(srv.URL, NewSeriesCache(0), zap.NewNop())
	closes, err := c.MonthlyCloses(context.Background(), "BBCA.JK", "", "")
	require.NoError(t, err)
	assert.Equal(t, []float64{8500, 8750.5, 9000}, closes)

	again, err := c.MonthlyCloses(context.Background(), "BBCA.JK", "10y", "1mo")
	require.NoError(t, err)
	assert.Equal(t, closes, again)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestYahooClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"forbidden", http.StatusForbidden, `{}`, "UNAUTHORIZED"},
		{"unauthorized", http.StatusUnauthorized, `{}`, "UNAUTHORIZED"},
		{"not found", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, "UNKNOWN_SYMBOL"},
		{"rate limited", http.StatusTooManyRequests, ``, "RATE_LIMIT_EXCEEDED"},
		{"server error", http.StatusBadGateway, ``, "API_ERROR"},
		{"chart error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"delisted"}}}`, "UNKNOWN_SYMBOL"},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, "UNKNOWN_SYMBOL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "30")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewYahooClient(srv.URL, nil, nil).MonthlyCloses(context.Background(), "XXXX", "", "")
			require.Error(t, err)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.code, pe.Code)
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "30", pe.RetryAfter)
			}
		})
	}
}

func TestYahooClient_RequiresSymbol(t *testing.T) {
	_, err := NewYahooClient("", nil, nil).MonthlyCloses(context.Background(), "  ", "", "")
	assert.ErrorIs(t, err, ErrMissingSymbol)
}

func TestYahooClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":`))
	}))
	defer srv.Close()

	_, err := NewYahooClient(srv.URL, nil, nil).MonthlyCloses(context.Background(), "BBCA.JK", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
