package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

// csvSeries builds a stooq-style daily CSV body from closes, oldest first.
func csvSeries(closes ...float64) string {
	body := "Date,Open,High,Low,Close,Volume\n"
	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		d := day.AddDate(0, 0, i)
		body += fmt.Sprintf("%s,%.2f,%.2f,%.2f,%.2f,1000\n", d.Format("2006-01-02"), c, c, c, c)
	}
	return body
}

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, RateLimitRPS: 1000}, NewMemoryCache())
}

func TestFetchContext_BuildsSnapshot(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "spy.us":
			fmt.Fprint(w, csvSeries(100, 100.5, 101, 101.5, 102, 102.5))
		case "xbi.us":
			fmt.Fprint(w, csvSeries(80, 81, 82, 83, 84, 85))
		case "vix":
			fmt.Fprint(w, csvSeries(13, 13.5, 14, 14.2, 14.1, 14.0))
		default:
			http.NotFound(w, r)
		}
	}))

	mc, err := c.FetchContext(context.Background(), catalyst.NewDate(2026, time.September, 6))
	require.NoError(t, err)
	require.NotNil(t, mc)

	require.NotNil(t, mc.Benchmark5dReturn)
	assert.InDelta(t, 2.5, *mc.Benchmark5dReturn, 1e-9, "102.5/100 over the 5-day window")
	require.NotNil(t, mc.Sector5dReturn)
	assert.InDelta(t, 6.25, *mc.Sector5dReturn, 1e-9)
	require.NotNil(t, mc.VolIndex)
	assert.Equal(t, 14.0, *mc.VolIndex, "level is the last close")
	assert.Equal(t, catalyst.TrendStrongRiskOn, mc.SectorTrend)
	assert.NotEmpty(t, mc.Notes)
}

func TestFetchContext_PartialFailureDegradesToNilFields(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") == "spy.us" {
			fmt.Fprint(w, csvSeries(100, 101, 102, 103, 104, 105))
			return
		}
		http.Error(w, "upstream error", http.StatusBadGateway)
	}))

	mc, err := c.FetchContext(context.Background(), catalyst.NewDate(2026, time.September, 6))
	require.NoError(t, err, "one live series is enough")
	require.NotNil(t, mc.Benchmark5dReturn)
	assert.Nil(t, mc.Sector5dReturn)
	assert.Nil(t, mc.VolIndex)
}

func TestFetchContext_TotalFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))

	mc, err := c.FetchContext(context.Background(), catalyst.NewDate(2026, time.September, 6))
	assert.Error(t, err)
	assert.Nil(t, mc)
}

func TestFetchPostEventMoves(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "acme.us":
			fmt.Fprint(w, csvSeries(50, 60)) // +20% on event day
		case "spy.us":
			fmt.Fprint(w, csvSeries(100, 100.5))
		default:
			http.Error(w, "no data", http.StatusNotFound)
		}
	}))

	actual, bench, sector, err := c.FetchPostEventMoves(context.Background(), "ACME", catalyst.NewDate(2026, time.September, 2))
	require.NoError(t, err)
	require.NotNil(t, actual)
	assert.InDelta(t, 20.0, *actual, 1e-9)
	require.NotNil(t, bench)
	assert.InDelta(t, 0.5, *bench, 1e-9)
	assert.Nil(t, sector)
}

func TestGet_UsesCache(t *testing.T) {
	var hits atomic.Int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, csvSeries(100, 101))
	}))

	date := catalyst.NewDate(2026, time.September, 2)
	_, err := c.FetchContext(context.Background(), date)
	require.NoError(t, err)
	first := hits.Load()

	_, err = c.FetchContext(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, first, hits.Load(), "identical requests must be served from cache")
}

func TestParseCloses(t *testing.T) {
	closes, err := parseCloses([]byte(csvSeries(10, 20, 30)))
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, closes)

	_, err = parseCloses([]byte("No data\n"))
	assert.Error(t, err)

	_, err = parseCloses([]byte("Date,Open,High,Low,Close\n"))
	assert.Error(t, err, "header only means an empty series")
}
