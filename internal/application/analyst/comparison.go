// Package analyst performs post-event analysis: per-event return comparisons
// against the benchmark and sector ETFs, and aggregate statistics across a
// set of resolved events and their ratings.
package analyst

import (
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
)

// Comparison is the post-event return comparison for a single resolved event.
// Alpha fields are nil, never a computed zero, when an operand is missing;
// rating fields are nil when no rating was linked.
type Comparison struct {
	EventID          string   `json:"event_id"`
	Ticker           string   `json:"ticker"`
	EventType        string   `json:"event_type"`
	Outcome          string   `json:"outcome"`
	ActualMovePct    *float64 `json:"actual_move_pct"`
	BenchmarkMovePct *float64 `json:"benchmark_move_pct"`
	SectorMovePct    *float64 `json:"sector_move_pct"`
	AlphaVsBenchmark *float64 `json:"alpha_vs_benchmark"` // actual - benchmark
	AlphaVsSector    *float64 `json:"alpha_vs_sector"`    // actual - sector
	IVCrushPct       *float64 `json:"iv_crush_pct"`
	RatingGrade      *string  `json:"rating_grade"`
	RatingScore      *float64 `json:"rating_score"`
}

// OutperformedBenchmark reports whether the stock beat the benchmark on event
// day. Nil when the alpha is unknown.
func (c *Comparison) OutperformedBenchmark() *bool {
	if c.AlphaVsBenchmark == nil {
		return nil
	}
	v := *c.AlphaVsBenchmark > 0
	return &v
}

// OutperformedSector reports whether the stock beat the sector ETF on event
// day. Nil when the alpha is unknown.
func (c *Comparison) OutperformedSector() *bool {
	if c.AlphaVsSector == nil {
		return nil
	}
	v := *c.AlphaVsSector > 0
	return &v
}

// BuildComparison builds a Comparison from a resolved event and an optional
// linked rating. A missing rating leaves the rating fields nil rather than
// failing.
func BuildComparison(e *catalyst.Event, r *rating.Rating) Comparison {
	c := Comparison{
		EventID:          e.EventID,
		Ticker:           e.Ticker,
		EventType:        string(e.EventType),
		Outcome:          string(e.Outcome),
		ActualMovePct:    e.ActualMovePct,
		BenchmarkMovePct: e.BenchmarkMovePct,
		SectorMovePct:    e.SectorMovePct,
		AlphaVsBenchmark: e.RelativeMove(),
		AlphaVsSector:    e.SectorRelativeMove(),
		IVCrushPct:       e.IVCrushPct,
	}
	if r != nil {
		grade := string(r.Grade)
		score := r.CompositeScore
		c.RatingGrade = &grade
		c.RatingScore = &score
	}
	return c
}

// BatchCompare builds one comparison per resolved event with a known actual
// move. ratings maps event id to rating; events without one are still
// compared. An empty result is valid.
func BatchCompare(events []*catalyst.Event, ratings map[string]*rating.Rating) []Comparison {
	comparisons := make([]Comparison, 0, len(events))
	for _, e := range events {
		if !e.Resolved() || e.ActualMovePct == nil {
			continue
		}
		comparisons = append(comparisons, BuildComparison(e, ratings[e.EventID]))
	}
	log.Info().
		Int("comparisons", len(comparisons)).
		Int("events", len(events)).
		Msg("Built return comparisons")
	return comparisons
}
