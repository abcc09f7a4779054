package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/catalystrun/internal/application/analyst"
	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
	"github.com/sawpanic/catalystrun/internal/persistence"
	"github.com/sawpanic/catalystrun/internal/persistence/jsonstore"
)

func newTestServer(t *testing.T) (*httptest.Server, persistence.Store) {
	t.Helper()
	store, err := jsonstore.New(t.TempDir())
	require.NoError(t, err)

	s := NewServer(":0", store)
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)
	return srv, store
}

func seedEvent(t *testing.T, store persistence.Store, id string, outcome catalyst.Outcome, actualMove *float64) {
	t.Helper()
	require.NoError(t, store.SaveEvent(&catalyst.Event{
		EventID:        id,
		Ticker:         "ACME",
		EventType:      catalyst.EventTrialReadout,
		EventDate:      catalyst.NewDate(2026, time.April, 2),
		Sentiment:      catalyst.SentimentNeutral,
		Outcome:        outcome,
		ActualMovePct:  actualMove,
		CompetingDrugs: []string{},
		Tags:           []string{},
	}))
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	var body map[string]string
	code := getJSON(t, srv.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestEvents_ListAndGet(t *testing.T) {
	srv, store := newTestServer(t)
	seedEvent(t, store, "EV1", catalyst.OutcomePending, nil)

	var events []*catalyst.Event
	code := getJSON(t, srv.URL+"/events", &events)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, events, 1)
	assert.Equal(t, "EV1", events[0].EventID)

	var event catalyst.Event
	code = getJSON(t, srv.URL+"/events/EV1", &event)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ACME", event.Ticker)

	var notFound map[string]string
	code = getJSON(t, srv.URL+"/events/missing", &notFound)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "missing", notFound["event_id"])
}

func TestExport_NestsRatings(t *testing.T) {
	srv, store := newTestServer(t)
	seedEvent(t, store, "EV1", catalyst.OutcomePending, nil)
	seedEvent(t, store, "EV2", catalyst.OutcomePending, nil)
	require.NoError(t, store.SaveRating(&rating.Rating{
		EventID:        "EV1",
		Ticker:         "ACME",
		RatingDate:     catalyst.NewDate(2026, time.April, 1),
		CompositeScore: 71.5,
		Grade:          rating.GradeBPlus,
	}))

	var records []persistence.ExportRecord
	code := getJSON(t, srv.URL+"/export", &records)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, records, 2)

	byID := map[string]persistence.ExportRecord{}
	for _, rec := range records {
		byID[rec.EventID] = rec
	}
	require.NotNil(t, byID["EV1"].Rating)
	assert.Equal(t, 71.5, byID["EV1"].Rating.CompositeScore)
	assert.Nil(t, byID["EV2"].Rating, "unrated events export a null rating")
}

func TestStats(t *testing.T) {
	srv, store := newTestServer(t)
	move := 9.5
	seedEvent(t, store, "EV1", catalyst.OutcomePositive, &move)
	seedEvent(t, store, "EV2", catalyst.OutcomePending, nil)

	var stats analyst.BenchmarkStats
	code := getJSON(t, srv.URL+"/stats", &stats)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, stats.NEvents, "only resolved events with a move are compared")
	require.NotNil(t, stats.AvgActualMove)
	assert.InDelta(t, 9.5, *stats.AvgActualMove, 1e-9)
	assert.Nil(t, stats.AvgBenchmarkMove)
}
