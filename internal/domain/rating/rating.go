// Package rating defines the scoring engine's output record: the seven-part
// score breakdown, the weighted composite with its letter grade, and the
// recommended trade parameters. Composite and grade are derived projections
// of the breakdown and are recomputed on construction and on every refresh,
// never assigned independently.
package rating

import (
	"math"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

// Strategy is the closed set of recommendable options structures.
type Strategy string

const (
	StrategyLongCall       Strategy = "long_call"
	StrategyLongPut        Strategy = "long_put"
	StrategyLongStraddle   Strategy = "long_straddle"
	StrategyLongStrangle   Strategy = "long_strangle"
	StrategyBullCallSpread Strategy = "bull_call_spread"
	StrategyBearPutSpread  Strategy = "bear_put_spread"
	StrategyIronCondor     Strategy = "iron_condor"
	StrategyCalendarSpread Strategy = "calendar_spread"
)

// Grade is the letter tier derived from the composite score.
type Grade string

const (
	GradeAPlus Grade = "A+" // 90-100 highest conviction
	GradeA     Grade = "A"  // 80-89
	GradeBPlus Grade = "B+" // 70-79
	GradeB     Grade = "B"  // 60-69
	GradeC     Grade = "C"  // 50-59 average setup
	GradeD     Grade = "D"  // 30-49 below average
	GradeF     Grade = "F"  // 0-29  avoid
)

// ScoreToGrade maps a 0-100 composite score onto the grade bands. Bands are
// exhaustive and non-overlapping; boundary values belong to the higher band.
func ScoreToGrade(score float64) Grade {
	switch {
	case score >= 90:
		return GradeAPlus
	case score >= 80:
		return GradeA
	case score >= 70:
		return GradeBPlus
	case score >= 60:
		return GradeB
	case score >= 50:
		return GradeC
	case score >= 30:
		return GradeD
	default:
		return GradeF
	}
}

// MaxRiskForGrade returns the maximum portfolio-risk percentage allowed for a
// grade. Monotonically non-increasing as grades worsen.
func MaxRiskForGrade(g Grade) float64 {
	switch g {
	case GradeAPlus:
		return 3.0
	case GradeA:
		return 2.5
	case GradeBPlus:
		return 2.0
	case GradeB:
		return 1.5
	case GradeC:
		return 1.0
	case GradeD:
		return 0.5
	default:
		return 0.0
	}
}

// Weights maps each breakdown component to its share of the composite.
// A full default set sums to 1.0.
type Weights struct {
	CatalystQuality    float64 `json:"catalyst_quality" yaml:"catalyst_quality"`
	SentimentAlignment float64 `json:"sentiment_alignment" yaml:"sentiment_alignment"`
	MarketContext      float64 `json:"market_context" yaml:"market_context"`
	IVEnvironment      float64 `json:"iv_environment" yaml:"iv_environment"`
	HistoricalAccuracy float64 `json:"historical_accuracy" yaml:"historical_accuracy"`
	CompetitiveMoat    float64 `json:"competitive_moat" yaml:"competitive_moat"`
	RiskReward         float64 `json:"risk_reward" yaml:"risk_reward"`
}

// DefaultWeights returns the standard component weights (sum 1.0).
func DefaultWeights() Weights {
	return Weights{
		CatalystQuality:    0.25,
		SentimentAlignment: 0.15,
		MarketContext:      0.15,
		IVEnvironment:      0.15,
		HistoricalAccuracy: 0.10,
		CompetitiveMoat:    0.10,
		RiskReward:         0.10,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.CatalystQuality + w.SentimentAlignment + w.MarketContext +
		w.IVEnvironment + w.HistoricalAccuracy + w.CompetitiveMoat + w.RiskReward
}

// ScoreBreakdown holds the seven named sub-scores, each in [0,100].
type ScoreBreakdown struct {
	CatalystQuality    float64 `json:"catalyst_quality"`    // event type + stage strength
	SentimentAlignment float64 `json:"sentiment_alignment"` // analyst consensus tilt
	MarketContext      float64 `json:"market_context"`      // broad market / sector tailwinds
	IVEnvironment      float64 `json:"iv_environment"`      // IV rank favorability
	HistoricalAccuracy float64 `json:"historical_accuracy"` // past similar-event hit rate
	CompetitiveMoat    float64 `json:"competitive_moat"`    // differentiation vs competitors
	RiskReward         float64 `json:"risk_reward"`         // expected magnitude vs premium
}

// WeightedTotal computes the composite score as the weight dot product,
// clamped to [0,100] and rounded to 2 decimals. This is the single source of
// truth for the composite.
func (b ScoreBreakdown) WeightedTotal(w Weights) float64 {
	total := b.CatalystQuality*w.CatalystQuality +
		b.SentimentAlignment*w.SentimentAlignment +
		b.MarketContext*w.MarketContext +
		b.IVEnvironment*w.IVEnvironment +
		b.HistoricalAccuracy*w.HistoricalAccuracy +
		b.CompetitiveMoat*w.CompetitiveMoat +
		b.RiskReward*w.RiskReward
	return round2(clamp(total, 0, 100))
}

// Rating is the full options-trade rating for one event, attached by event
// id. CompositeScore and Grade are derived from ScoreBreakdown; mutate the
// breakdown through Refresh so they stay consistent.
type Rating struct {
	EventID             string         `json:"event_id"`
	Ticker              string         `json:"ticker"`
	RatingDate          catalyst.Date  `json:"rating_date"`
	RecommendedStrategy Strategy       `json:"recommended_strategy"`
	ScoreBreakdown      ScoreBreakdown `json:"score_breakdown"`

	CompositeScore float64 `json:"composite_score"`
	Grade          Grade   `json:"grade"`
	ConfidencePct  float64 `json:"confidence_pct"`

	TargetExpiryDays int      `json:"target_expiry_days"`
	SuggestedDelta   float64  `json:"suggested_delta"`   // magnitude only, sign dropped
	MaxRiskPctPort   float64  `json:"max_risk_pct_port"` // max % of portfolio to risk
	Notes            string   `json:"notes"`
	AnalystFlags     []string `json:"analyst_flags"`
}

// New builds a Rating with composite and grade derived from the breakdown.
func New(eventID, ticker string, ratingDate catalyst.Date, strategy Strategy, breakdown ScoreBreakdown, weights Weights) *Rating {
	r := &Rating{
		EventID:             eventID,
		Ticker:              ticker,
		RatingDate:          ratingDate,
		RecommendedStrategy: strategy,
		ScoreBreakdown:      breakdown,
		AnalystFlags:        []string{},
	}
	r.Refresh(weights)
	return r
}

// Refresh recomputes CompositeScore and Grade from the breakdown. Call after
// any edit to the breakdown or a change of weights.
func (r *Rating) Refresh(weights Weights) {
	r.CompositeScore = r.ScoreBreakdown.WeightedTotal(weights)
	r.Grade = ScoreToGrade(r.CompositeScore)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
