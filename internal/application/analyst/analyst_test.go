package analyst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
)

func ptr(v float64) *float64 { return &v }

func resolvedEvent(id string, outcome catalyst.Outcome, actual, bench, sector *float64) *catalyst.Event {
	return &catalyst.Event{
		EventID:          id,
		Ticker:           "ACME",
		EventType:        catalyst.EventTrialReadout,
		EventDate:        catalyst.NewDate(2026, time.March, 10),
		Outcome:          outcome,
		ActualMovePct:    actual,
		BenchmarkMovePct: bench,
		SectorMovePct:    sector,
	}
}

func TestBuildComparison_MissingOperandsStayNil(t *testing.T) {
	e := resolvedEvent("EV1", catalyst.OutcomePositive, ptr(15.0), nil, nil)

	c := BuildComparison(e, nil)
	assert.Equal(t, "EV1", c.EventID)
	require.NotNil(t, c.ActualMovePct)
	assert.Nil(t, c.AlphaVsBenchmark, "alpha must stay nil, never a computed zero")
	assert.Nil(t, c.AlphaVsSector)
	assert.Nil(t, c.RatingGrade)
	assert.Nil(t, c.RatingScore)
	assert.Nil(t, c.OutperformedBenchmark())
	assert.Nil(t, c.OutperformedSector())
}

func TestBuildComparison_WithRatingAndAlpha(t *testing.T) {
	e := resolvedEvent("EV1", catalyst.OutcomePositive, ptr(15.0), ptr(0.5), ptr(-1.0))
	r := &rating.Rating{EventID: "EV1", Grade: rating.GradeA, CompositeScore: 82.5}

	c := BuildComparison(e, r)
	require.NotNil(t, c.AlphaVsBenchmark)
	assert.InDelta(t, 14.5, *c.AlphaVsBenchmark, 1e-9)
	require.NotNil(t, c.AlphaVsSector)
	assert.InDelta(t, 16.0, *c.AlphaVsSector, 1e-9)
	require.NotNil(t, c.RatingGrade)
	assert.Equal(t, "A", *c.RatingGrade)
	require.NotNil(t, c.RatingScore)
	assert.Equal(t, 82.5, *c.RatingScore)

	ob := c.OutperformedBenchmark()
	require.NotNil(t, ob)
	assert.True(t, *ob)
}

func TestBatchCompare_FiltersUnresolvedAndMissingMoves(t *testing.T) {
	events := []*catalyst.Event{
		resolvedEvent("EV1", catalyst.OutcomePositive, ptr(10.0), ptr(0.2), nil),
		resolvedEvent("EV2", catalyst.OutcomePending, ptr(10.0), nil, nil),  // not resolved
		resolvedEvent("EV3", catalyst.OutcomeNegative, nil, ptr(0.2), nil), // no actual move
		resolvedEvent("EV4", catalyst.OutcomeMixed, ptr(-2.0), nil, nil),
	}
	ratings := map[string]*rating.Rating{
		"EV1": {EventID: "EV1", Grade: rating.GradeB, CompositeScore: 65},
	}

	comparisons := BatchCompare(events, ratings)
	require.Len(t, comparisons, 2)
	assert.Equal(t, "EV1", comparisons[0].EventID)
	assert.NotNil(t, comparisons[0].RatingGrade)
	assert.Equal(t, "EV4", comparisons[1].EventID)
	assert.Nil(t, comparisons[1].RatingGrade, "events without a rating are still compared")
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil)
	assert.Equal(t, 0, stats.NEvents)
	assert.Nil(t, stats.AvgActualMove)
	assert.Nil(t, stats.AvgAlphaVsBenchmark)
	assert.Nil(t, stats.PctOutperformBench)
	assert.Nil(t, stats.PositiveOutcomeRate)
}

func TestComputeStats_NilIgnoringAverages(t *testing.T) {
	events := []*catalyst.Event{
		resolvedEvent("EV1", catalyst.OutcomePositive, ptr(10.0), ptr(2.0), ptr(1.0)),
		resolvedEvent("EV2", catalyst.OutcomeNegative, ptr(-20.0), nil, nil),
	}
	comparisons := BatchCompare(events, nil)
	require.Len(t, comparisons, 2)

	stats := ComputeStats(comparisons, events)
	assert.Equal(t, 2, stats.NEvents)

	require.NotNil(t, stats.AvgActualMove)
	assert.InDelta(t, -5.0, *stats.AvgActualMove, 1e-9)

	// Benchmark known for one event only; its average uses that one value.
	require.NotNil(t, stats.AvgBenchmarkMove)
	assert.InDelta(t, 2.0, *stats.AvgBenchmarkMove, 1e-9)
	require.NotNil(t, stats.AvgAlphaVsBenchmark)
	assert.InDelta(t, 8.0, *stats.AvgAlphaVsBenchmark, 1e-9)

	// EV1 outperformed, EV2 unknown: 1 of 2 events.
	require.NotNil(t, stats.PctOutperformBench)
	assert.InDelta(t, 50.0, *stats.PctOutperformBench, 1e-9)

	assert.Nil(t, stats.AvgIVCrush, "all-nil column must average to nil, not zero")

	require.NotNil(t, stats.PositiveOutcomeRate)
	assert.InDelta(t, 50.0, *stats.PositiveOutcomeRate, 1e-9)
}

func TestComputeStats_PositiveRateCountsMixed(t *testing.T) {
	events := []*catalyst.Event{
		resolvedEvent("EV1", catalyst.OutcomePositive, ptr(5.0), nil, nil),
		resolvedEvent("EV2", catalyst.OutcomeMixed, ptr(1.0), nil, nil),
		resolvedEvent("EV3", catalyst.OutcomeNegative, ptr(-5.0), nil, nil),
		resolvedEvent("EV4", catalyst.OutcomeWithdrawn, ptr(-9.0), nil, nil),
	}
	stats := ComputeStats(BatchCompare(events, nil), events)
	require.NotNil(t, stats.PositiveOutcomeRate)
	assert.InDelta(t, 50.0, *stats.PositiveOutcomeRate, 1e-9)
}
