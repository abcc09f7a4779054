package rating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

func TestScoreToGrade_Bands(t *testing.T) {
	cases := []struct {
		score float64
		want  Grade
	}{
		{100, GradeAPlus}, {90, GradeAPlus},
		{89.99, GradeA}, {80, GradeA},
		{79.99, GradeBPlus}, {70, GradeBPlus},
		{69.99, GradeB}, {60, GradeB},
		{59.99, GradeC}, {50, GradeC},
		{49.99, GradeD}, {30, GradeD},
		{29.99, GradeF}, {0, GradeF},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ScoreToGrade(c.score), "score %.2f", c.score)
	}
}

func TestMaxRiskForGrade_MonotonicallyNonIncreasing(t *testing.T) {
	grades := []Grade{GradeAPlus, GradeA, GradeBPlus, GradeB, GradeC, GradeD, GradeF}
	prev := MaxRiskForGrade(grades[0])
	assert.Equal(t, 3.0, prev)
	for _, g := range grades[1:] {
		cur := MaxRiskForGrade(g)
		assert.LessOrEqual(t, cur, prev, "grade %s", g)
		prev = cur
	}
	assert.Equal(t, 0.0, MaxRiskForGrade(GradeF))
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)
}

func TestWeightedTotal_ClampsAndRounds(t *testing.T) {
	full := ScoreBreakdown{
		CatalystQuality:    100,
		SentimentAlignment: 100,
		MarketContext:      100,
		IVEnvironment:      100,
		HistoricalAccuracy: 100,
		CompetitiveMoat:    100,
		RiskReward:         100,
	}
	assert.Equal(t, 100.0, full.WeightedTotal(DefaultWeights()))

	// Weights summing above 1 would push past 100 without the clamp.
	heavy := Weights{CatalystQuality: 2.0}
	assert.Equal(t, 100.0, full.WeightedTotal(heavy))

	assert.Equal(t, 0.0, ScoreBreakdown{}.WeightedTotal(DefaultWeights()))
}

func TestRefresh_KeepsCompositeAndGradeConsistent(t *testing.T) {
	breakdown := ScoreBreakdown{
		CatalystQuality:    90,
		SentimentAlignment: 90,
		MarketContext:      90,
		IVEnvironment:      90,
		HistoricalAccuracy: 90,
		CompetitiveMoat:    90,
		RiskReward:         90,
	}
	r := New("EV1", "ACME", catalyst.NewDate(2026, time.March, 1), StrategyLongStraddle, breakdown, DefaultWeights())
	assert.Equal(t, 90.0, r.CompositeScore)
	assert.Equal(t, GradeAPlus, r.Grade)

	r.ScoreBreakdown.CatalystQuality = 10
	r.Refresh(DefaultWeights())
	assert.Equal(t, 70.0, r.CompositeScore)
	assert.Equal(t, GradeBPlus, r.Grade)
}
