package yahoo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSymbol(t *testing.T) {
	valid := []string{"AAPL", "GLD", "qqq", "0700.HK", "BRK", "A"}
	for _, s := range valid {
		assert.NoError(t, validateSymbol(s), "symbol %q", s)
	}

	invalid := []string{"", "TOO-LONG-SYMBOL", "A B", "../etc", "AAPL?x=1", "0700.TOOLONG"}
	for _, s := range invalid {
		assert.Error(t, validateSymbol(s), "symbol %q", s)
	}
}

func TestFetchDaily(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GLD", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1704067200, 1704153600, 1704240000],
					"indicators": {
						"quote": [{
							"open":   [190.1, 191.0, null],
							"high":   [192.0, 192.5, 193.0],
							"low":    [189.5, 190.2, 191.0],
							"close":  [191.3, 192.1, 192.8],
							"volume": [1000000, null, 1200000]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer server.Close()

	y := NewWithBaseURL(server.URL)
	bars, err := y.FetchDaily("GLD", time.Unix(1704000000, 0), time.Unix(1704300000, 0))
	require.NoError(t, err)

	// The third bar has a null open and is skipped
	require.Len(t, bars, 2)
	assert.Equal(t, 191.3, bars[0].Close)
	assert.Equal(t, 190.1, bars[0].Open)
	assert.Equal(t, 1000000.0, bars[0].Volume)

	// Missing volume defaults to zero, the bar itself is kept
	assert.Equal(t, 0.0, bars[1].Volume)
	assert.Equal(t, 192.1, bars[1].Close)
}

func TestFetchDailyChartError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`))
	}))
	defer server.Close()

	y := NewWithBaseURL(server.URL)
	_, err := y.FetchDaily("NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestFetchDailyInvalidSymbolRejectedLocally(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	y := NewWithBaseURL(server.URL)
	_, err := y.FetchDaily("not a symbol", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.False(t, called, "invalid symbols must not reach the network")
}

func TestFetchDailyHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	y := NewWithBaseURL(server.URL)
	_, err := y.FetchDaily("GLD", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
