// Package pipeline contains the multi-factor scoring engine: seven
// independent sub-score calculators composed into a weighted composite score,
// letter grade, strategy recommendation and trade parameters.
package pipeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
)

// ErrNoEventID is returned when an event reaches the scorer without an
// assigned identity.
var ErrNoEventID = errors.New("event has no event_id; assign one before scoring")

// StageWeights maps known pipeline/development stage labels to strength
// multipliers in [0.30, 1.00]. Labels are free-form user input, so this stays
// an open table; unrecognized labels fall back to DefaultStageWeight.
var StageWeights = map[string]float64{
	"Preclinical": 0.30,
	"Phase 1":     0.45,
	"Phase 1/2":   0.50,
	"Phase 2":     0.65,
	"Phase 2/3":   0.75,
	"Phase 3":     0.90,
	"NDA filed":   0.92,
	"BLA filed":   0.92,
	"PDUFA date":  0.95,
	"Approved":    1.00,
	"Marketed":    1.00,
}

// DefaultStageWeight applies when a stage label is present but not in
// StageWeights.
const DefaultStageWeight = 0.70

// catalystPriority is the base catalyst-quality value per event type.
// Higher = more binary / higher impact.
func catalystPriority(t catalyst.EventType) float64 {
	switch t {
	case catalyst.EventRegulatoryDecision:
		return 95
	case catalyst.EventRegulatoryAdvisory:
		return 85
	case catalyst.EventTrialReadout:
		return 80
	case catalyst.EventPartnership:
		return 55
	case catalyst.EventEarnings:
		return 50
	case catalyst.EventCompetitorEvent:
		return 40
	case catalyst.EventMacroRelease:
		return 35
	case catalyst.EventInvestorConference:
		return 30
	case catalyst.EventRegulatoryFiling:
		return 20
	default:
		return 25
	}
}

// expectedMoveProxy is the fixed per-type risk/reward magnitude proxy.
func expectedMoveProxy(t catalyst.EventType) float64 {
	switch t {
	case catalyst.EventRegulatoryDecision:
		return 85
	case catalyst.EventRegulatoryAdvisory:
		return 75
	case catalyst.EventTrialReadout:
		return 70
	case catalyst.EventPartnership:
		return 50
	case catalyst.EventEarnings:
		return 45
	case catalyst.EventCompetitorEvent:
		return 35
	case catalyst.EventMacroRelease:
		return 30
	case catalyst.EventInvestorConference:
		return 25
	case catalyst.EventRegulatoryFiling:
		return 15
	case catalyst.EventOther:
		return 20
	default:
		return 30
	}
}

// sentimentAdjustment is the catalyst-quality bonus/penalty per sentiment tag.
func sentimentAdjustment(s catalyst.Sentiment) float64 {
	switch s {
	case catalyst.SentimentStrongBuy:
		return 8
	case catalyst.SentimentBuy:
		return 4
	case catalyst.SentimentSell:
		return -4
	case catalyst.SentimentStrongSell:
		return -8
	default:
		return 0
	}
}

// CatalystQualityScore computes the catalyst-quality sub-score (0-100) from
// event type priority, pipeline-stage strength, endpoint clarity and
// sentiment.
func CatalystQualityScore(e *catalyst.Event) float64 {
	raw := catalystPriority(e.EventType)

	// Stage multiplier applies only to binary catalysts with a stage label.
	if e.PipelineStage != "" && e.EventType.IsBinary() {
		mult, ok := StageWeights[e.PipelineStage]
		if !ok {
			mult = DefaultStageWeight
		}
		raw *= mult
	}

	// Bonus for a well-defined primary endpoint.
	if len(e.PrimaryEndpoint) > 10 {
		raw = math.Min(raw+5, 100)
	}

	raw += sentimentAdjustment(e.Sentiment)

	return round2(clamp(raw, 0, 100))
}

// SentimentAlignmentScore converts the sentiment tag into a directional
// alignment sub-score (0-100).
func SentimentAlignmentScore(e *catalyst.Event) float64 {
	switch e.Sentiment {
	case catalyst.SentimentStrongBuy:
		return 90
	case catalyst.SentimentBuy:
		return 72
	case catalyst.SentimentSell:
		return 28
	case catalyst.SentimentStrongSell:
		return 10
	default:
		return 50
	}
}

// MarketContextScore scores the market/sector environment (0-100) from the
// context snapshot frozen on the event. No snapshot scores neutral.
func MarketContextScore(e *catalyst.Event) float64 {
	ctx := e.MarketContext
	if ctx == nil {
		return 50
	}

	var base float64
	switch ctx.SectorTrend {
	case catalyst.TrendStrongRiskOn:
		base = 85
	case catalyst.TrendRiskOn:
		base = 70
	case catalyst.TrendRiskOff:
		base = 30
	case catalyst.TrendStrongRiskOff:
		base = 15
	default:
		base = 50
	}

	// Sector-ETF tailwind/headwind tweak for binary catalysts.
	if e.EventType.IsBinary() && ctx.Sector5dReturn != nil {
		if *ctx.Sector5dReturn > 3 {
			base = math.Min(base+10, 100)
		} else if *ctx.Sector5dReturn < -3 {
			base = math.Max(base-10, 0)
		}
	}

	return base
}

// IVEnvironmentScore scores the implied-volatility environment (0-100).
// With a supplied IV rank (0-100) the 40-70 band is the sweet spot: rich
// premium without extreme crush risk. Without one, a per-type heuristic
// applies.
func IVEnvironmentScore(e *catalyst.Event, ivRank *float64) float64 {
	if ivRank != nil {
		r := *ivRank
		switch {
		case r >= 40 && r <= 70:
			return 80
		case r >= 20 && r < 40:
			return 65
		case r > 70:
			return 55 // IV crush risk post-event
		default:
			return 40 // rank < 20, premium expensive on a relative basis
		}
	}

	switch {
	case e.EventType.IsBinary():
		return 62 // high IV but crush risk
	case e.EventType == catalyst.EventEarnings:
		return 68
	case e.EventType == catalyst.EventMacroRelease:
		return 55
	default:
		return 60
	}
}

// HistoricalAccuracyScore is the positive-or-mixed rate among resolved past
// events of the same ticker and type, as a percentage rounded to 2 decimals.
// No matching history scores a neutral 50.
func HistoricalAccuracyScore(e *catalyst.Event, past []*catalyst.Event) float64 {
	var matched, positives int
	for _, p := range past {
		if p.Ticker != e.Ticker || p.EventType != e.EventType || !p.Resolved() {
			continue
		}
		matched++
		if p.Outcome == catalyst.OutcomePositive || p.Outcome == catalyst.OutcomeMixed {
			positives++
		}
	}
	if matched == 0 {
		return 50
	}
	return round2(float64(positives) / float64(matched) * 100)
}

// CompetitiveMoatScore estimates differentiation vs competing treatments
// (0-100). Fewer competitors scores higher.
func CompetitiveMoatScore(e *catalyst.Event) float64 {
	switch n := len(e.CompetingDrugs); {
	case n == 0:
		return 85
	case n == 1:
		return 70
	case n <= 3:
		return 55
	case n <= 6:
		return 35
	default:
		return 20
	}
}

// RiskRewardScore estimates risk/reward attractiveness (0-100) from the
// expected-move proxy for the event type.
func RiskRewardScore(e *catalyst.Event) float64 {
	return expectedMoveProxy(e.EventType)
}

// RecommendStrategy picks an options structure from event type and the
// sentiment-alignment sub-score.
func RecommendStrategy(e *catalyst.Event, sentimentScore float64) rating.Strategy {
	switch {
	case e.EventType.IsBinary():
		if sentimentScore >= 70 {
			return rating.StrategyBullCallSpread
		}
		if sentimentScore <= 30 {
			return rating.StrategyBearPutSpread
		}
		return rating.StrategyLongStraddle

	case e.EventType == catalyst.EventEarnings:
		if sentimentScore >= 70 {
			return rating.StrategyBullCallSpread
		}
		if sentimentScore <= 30 {
			return rating.StrategyBearPutSpread
		}
		return rating.StrategyIronCondor // premium capture into the crush

	case e.EventType == catalyst.EventMacroRelease:
		return rating.StrategyCalendarSpread

	case e.EventType == catalyst.EventPartnership:
		if sentimentScore >= 65 {
			return rating.StrategyLongCall
		}
		return rating.StrategyBullCallSpread
	}

	return rating.StrategyLongStraddle
}

// suggestedDelta maps a strategy to the option delta magnitude used at entry.
func suggestedDelta(s rating.Strategy) float64 {
	switch s {
	case rating.StrategyLongStraddle, rating.StrategyLongStrangle, rating.StrategyIronCondor:
		return 0.35
	case rating.StrategyBullCallSpread, rating.StrategyLongCall:
		return 0.45
	case rating.StrategyBearPutSpread, rating.StrategyLongPut:
		return 0.45
	default:
		return 0.40
	}
}

// Options carries the optional inputs to a scoring run.
type Options struct {
	IVRank             *float64          // current IV rank 0-100; nil for heuristic
	PastEvents         []*catalyst.Event // history for the accuracy sub-score
	Weights            *rating.Weights   // override of the default composite weights
	ConfidenceOverride *float64          // manual confidence 0-100, used verbatim
}

// Scorer computes ratings for events. It is stateless apart from its default
// weights, so one instance can score any number of events deterministically.
type Scorer struct {
	weights rating.Weights
}

// NewScorer creates a scorer with the default component weights.
func NewScorer() *Scorer {
	return &Scorer{weights: rating.DefaultWeights()}
}

// ScoreEvent computes the full rating for an event. It fails only when the
// event has no identity; every optional input degrades to its documented
// neutral default.
func (s *Scorer) ScoreEvent(e *catalyst.Event, opts Options) (*rating.Rating, error) {
	if e.EventID == "" {
		return nil, ErrNoEventID
	}

	breakdown := rating.ScoreBreakdown{
		CatalystQuality:    CatalystQualityScore(e),
		SentimentAlignment: SentimentAlignmentScore(e),
		MarketContext:      MarketContextScore(e),
		IVEnvironment:      IVEnvironmentScore(e, opts.IVRank),
		HistoricalAccuracy: HistoricalAccuracyScore(e, opts.PastEvents),
		CompetitiveMoat:    CompetitiveMoatScore(e),
		RiskReward:         RiskRewardScore(e),
	}

	weights := s.weights
	if opts.Weights != nil {
		weights = *opts.Weights
	}

	strategy := RecommendStrategy(e, breakdown.SentimentAlignment)

	r := rating.New(e.EventID, e.Ticker, catalyst.Today(), strategy, breakdown, weights)

	if opts.ConfidenceOverride != nil {
		r.ConfidencePct = *opts.ConfidenceOverride
	} else {
		r.ConfidencePct = round2((breakdown.CatalystQuality + breakdown.HistoricalAccuracy) / 2)
	}

	if e.EventType.IsBinary() {
		r.TargetExpiryDays = 35
	} else {
		r.TargetExpiryDays = 21
	}
	r.SuggestedDelta = suggestedDelta(strategy)
	r.MaxRiskPctPort = rating.MaxRiskForGrade(r.Grade)

	stage := e.PipelineStage
	if stage == "" {
		stage = "N/A"
	}
	r.Notes = fmt.Sprintf("Auto-scored: %s | %s | sentiment=%s", e.EventType, stage, e.Sentiment)

	log.Info().
		Str("event_id", e.EventID).
		Str("grade", string(r.Grade)).
		Float64("composite", r.CompositeScore).
		Str("strategy", string(r.RecommendedStrategy)).
		Float64("max_risk_pct", r.MaxRiskPctPort).
		Msg("Event scored")

	return r, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
