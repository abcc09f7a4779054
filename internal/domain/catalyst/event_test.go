package catalyst

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	for _, typ := range EventTypes {
		parsed, err := ParseEventType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}
	_, err := ParseEventType("ipo")
	assert.Error(t, err)
}

func TestEventType_IsBinary(t *testing.T) {
	assert.True(t, EventRegulatoryDecision.IsBinary())
	assert.True(t, EventRegulatoryAdvisory.IsBinary())
	assert.True(t, EventTrialReadout.IsBinary())
	assert.False(t, EventEarnings.IsBinary())
	assert.False(t, EventMacroRelease.IsBinary())
	assert.False(t, EventOther.IsBinary())
}

func TestParseOutcomeAndSentiment(t *testing.T) {
	o, err := ParseOutcome("positive")
	require.NoError(t, err)
	assert.Equal(t, OutcomePositive, o)
	_, err = ParseOutcome("great")
	assert.Error(t, err)

	s, err := ParseSentiment("strong_sell")
	require.NoError(t, err)
	assert.Equal(t, SentimentStrongSell, s)
	_, err = ParseSentiment("bullish")
	assert.Error(t, err)
}

func TestNewEventID(t *testing.T) {
	date := NewDate(2026, time.September, 15)
	id := NewEventID("acme", date)

	assert.True(t, strings.HasPrefix(id, "ACME_2026-09-15_"), "got %s", id)
	assert.Len(t, id, len("ACME_2026-09-15_")+8)
	assert.NotEqual(t, id, NewEventID("acme", date), "ids must differ across calls")
}

func TestRelativeMove(t *testing.T) {
	e := &Event{}
	assert.Nil(t, e.RelativeMove(), "missing operands must not produce a zero")
	assert.Nil(t, e.SectorRelativeMove())

	actual, bench, sector := 12.5, 0.3, -1.2
	e.ActualMovePct = &actual
	assert.Nil(t, e.RelativeMove(), "benchmark still missing")

	e.BenchmarkMovePct = &bench
	e.SectorMovePct = &sector
	require.NotNil(t, e.RelativeMove())
	assert.InDelta(t, 12.2, *e.RelativeMove(), 1e-9)
	require.NotNil(t, e.SectorRelativeMove())
	assert.InDelta(t, 13.7, *e.SectorRelativeMove(), 1e-9)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.January, 5)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-05"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	assert.Error(t, json.Unmarshal([]byte(`"Jan 5 2026"`), &back))
}

func TestEvent_JSONPreservesNullsAndEmptySlices(t *testing.T) {
	e := &Event{
		EventID:        "ACME_2026-09-15_abcd1234",
		Ticker:         "ACME",
		EventType:      EventTrialReadout,
		EventDate:      NewDate(2026, time.September, 15),
		Sentiment:      SentimentNeutral,
		Outcome:        OutcomePending,
		CompetingDrugs: []string{},
		Tags:           []string{},
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"actual_move_pct":null`)
	assert.Contains(t, string(data), `"competing_drugs":[]`)

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.ActualMovePct)
	assert.NotNil(t, back.CompetingDrugs)
	assert.Empty(t, back.CompetingDrugs)
	assert.Equal(t, e.EventDate, back.EventDate)
}

func TestResolved(t *testing.T) {
	e := &Event{Outcome: OutcomePending}
	assert.False(t, e.Resolved())
	e.Outcome = OutcomeWithdrawn
	assert.True(t, e.Resolved())
}
