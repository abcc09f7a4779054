// Package catalyst defines the event records tracked and rated by CatalystRun:
// binary-risk catalysts (regulatory decisions, trial readouts, earnings, macro
// releases) for a single security, plus the frozen market-context snapshot and
// post-event resolution data attached to them.
package catalyst

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EventType is the closed set of catalyst categories. The scoring tables in
// the pipeline package switch exhaustively over these values; adding a type
// here forces a decision in every table.
type EventType string

const (
	EventRegulatoryDecision EventType = "regulatory_decision" // binary agency action date
	EventRegulatoryAdvisory EventType = "regulatory_advisory" // advisory committee meeting
	EventTrialReadout       EventType = "trial_readout"       // pivotal trial data
	EventEarnings           EventType = "earnings"
	EventInvestorConference EventType = "investor_conference"
	EventPartnership        EventType = "partnership"
	EventRegulatoryFiling   EventType = "regulatory_filing"
	EventMacroRelease       EventType = "macro_release"
	EventCompetitorEvent    EventType = "competitor_event"
	EventOther              EventType = "other"
)

// EventTypes lists every valid EventType, in display order.
var EventTypes = []EventType{
	EventRegulatoryDecision,
	EventRegulatoryAdvisory,
	EventTrialReadout,
	EventEarnings,
	EventInvestorConference,
	EventPartnership,
	EventRegulatoryFiling,
	EventMacroRelease,
	EventCompetitorEvent,
	EventOther,
}

// ParseEventType validates a raw string against the closed set.
func ParseEventType(s string) (EventType, error) {
	for _, t := range EventTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown event type: %q", s)
}

// IsBinary reports whether the type is one of the three high-impact binary
// catalysts that get stage multipliers, sector tweaks and longer expiries.
func (t EventType) IsBinary() bool {
	switch t {
	case EventRegulatoryDecision, EventRegulatoryAdvisory, EventTrialReadout:
		return true
	}
	return false
}

// Outcome is the resolution state of an event.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomePositive  Outcome = "positive"
	OutcomeNegative  Outcome = "negative"
	OutcomeMixed     Outcome = "mixed"
	OutcomeWithdrawn Outcome = "withdrawn"
)

// ParseOutcome validates a raw outcome string.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomePending, OutcomePositive, OutcomeNegative, OutcomeMixed, OutcomeWithdrawn:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("unknown outcome: %q", s)
}

// Sentiment is the qualitative five-point analyst/community tag.
type Sentiment string

const (
	SentimentStrongBuy  Sentiment = "strong_buy"
	SentimentBuy        Sentiment = "buy"
	SentimentNeutral    Sentiment = "neutral"
	SentimentSell       Sentiment = "sell"
	SentimentStrongSell Sentiment = "strong_sell"
)

// ParseSentiment validates a raw sentiment string.
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(s) {
	case SentimentStrongBuy, SentimentBuy, SentimentNeutral, SentimentSell, SentimentStrongSell:
		return Sentiment(s), nil
	}
	return "", fmt.Errorf("unknown sentiment: %q", s)
}

// Trend labels for the market-context snapshot, ordinal from risk-on to
// risk-off.
const (
	TrendStrongRiskOn  = "strong_risk_on"
	TrendRiskOn        = "risk_on"
	TrendNeutral       = "neutral"
	TrendRiskOff       = "risk_off"
	TrendStrongRiskOff = "strong_risk_off"
)

// MarketContext is a snapshot of broad market conditions taken once at event
// creation and frozen thereafter. All fields are optional: a failed provider
// fetch leaves them nil rather than zero.
type MarketContext struct {
	Benchmark5dReturn *float64 `json:"benchmark_5d_return"` // benchmark ETF 5-day % return
	Sector5dReturn    *float64 `json:"sector_5d_return"`    // sector ETF 5-day % return
	VolIndex          *float64 `json:"vol_index"`           // volatility index level
	SectorTrend       string   `json:"sector_trend"`        // one of the Trend* labels
	Notes             string   `json:"notes"`
}

// Event is the core record for one trackable catalyst. Ticker, type and date
// are identity-defining and never change after creation; resolution fields
// stay nil/pending until the event is resolved.
type Event struct {
	EventID     string    `json:"event_id"`
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name"`
	EventType   EventType `json:"event_type"`
	EventDate   Date      `json:"event_date"`
	Description string    `json:"description"`

	Sentiment       Sentiment      `json:"sentiment"`
	AnalystNotes    string         `json:"analyst_notes"`
	PipelineStage   string         `json:"pipeline_stage,omitempty"` // consulted against the stage weight table
	Indication      string         `json:"indication,omitempty"`
	PrimaryEndpoint string         `json:"primary_endpoint,omitempty"`
	CompetingDrugs  []string       `json:"competing_drugs"`
	MarketContext   *MarketContext `json:"market_context"`

	Outcome          Outcome  `json:"outcome"`
	ActualMovePct    *float64 `json:"actual_move_pct"`
	BenchmarkMovePct *float64 `json:"benchmark_move_pct"`
	SectorMovePct    *float64 `json:"sector_move_pct"`
	IVCrushPct       *float64 `json:"iv_crush_pct"`
	OutcomeNotes     string   `json:"outcome_notes"`

	Tags []string `json:"tags"`
}

// NewEventID builds a stable identifier encoding ticker and date plus a short
// random suffix, so ids are practically unique without a central sequence.
func NewEventID(ticker string, eventDate Date) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%s_%s_%s", strings.ToUpper(ticker), eventDate.String(), suffix)
}

// Resolved reports whether resolution data is meaningful for this event.
func (e *Event) Resolved() bool {
	return e.Outcome != OutcomePending
}

// RelativeMove is the event-day stock move minus the benchmark move (alpha vs
// market). Nil when either operand is missing.
func (e *Event) RelativeMove() *float64 {
	if e.ActualMovePct == nil || e.BenchmarkMovePct == nil {
		return nil
	}
	v := round4(*e.ActualMovePct - *e.BenchmarkMovePct)
	return &v
}

// SectorRelativeMove is the event-day stock move minus the sector-ETF move
// (alpha vs sector). Nil when either operand is missing.
func (e *Event) SectorRelativeMove() *float64 {
	if e.ActualMovePct == nil || e.SectorMovePct == nil {
		return nil
	}
	v := round4(*e.ActualMovePct - *e.SectorMovePct)
	return &v
}
