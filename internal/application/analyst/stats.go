package analyst

import (
	"math"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

// BenchmarkStats aggregates a set of return comparisons. Every field except
// NEvents is nil when it cannot be computed; an all-nil input column is never
// averaged as zero.
type BenchmarkStats struct {
	NEvents             int      `json:"n_events"`
	AvgActualMove       *float64 `json:"avg_actual_move"`
	AvgBenchmarkMove    *float64 `json:"avg_benchmark_move"`
	AvgSectorMove       *float64 `json:"avg_sector_move"`
	AvgAlphaVsBenchmark *float64 `json:"avg_alpha_vs_benchmark"`
	AvgAlphaVsSector    *float64 `json:"avg_alpha_vs_sector"`
	PctOutperformBench  *float64 `json:"pct_outperform_benchmark"`
	PctOutperformSector *float64 `json:"pct_outperform_sector"`
	AvgIVCrush          *float64 `json:"avg_iv_crush"`
	PositiveOutcomeRate *float64 `json:"positive_outcome_rate"`
}

// safeAvg returns the nil-ignoring arithmetic mean rounded to 4 decimals, or
// nil when no value is present.
func safeAvg(values []*float64) *float64 {
	var sum float64
	var n int
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	avg := math.Round(sum/float64(n)*1e4) / 1e4
	return &avg
}

// ComputeStats aggregates benchmark stats across comparisons. The optional
// eventsForOutcome set feeds the positive-outcome rate independently of the
// comparison filter. Empty input yields NEvents=0 with all other fields nil.
func ComputeStats(comparisons []Comparison, eventsForOutcome []*catalyst.Event) BenchmarkStats {
	n := len(comparisons)
	if n == 0 {
		return BenchmarkStats{NEvents: 0}
	}

	actual := make([]*float64, 0, n)
	bench := make([]*float64, 0, n)
	sector := make([]*float64, 0, n)
	alphaBench := make([]*float64, 0, n)
	alphaSector := make([]*float64, 0, n)
	ivCrush := make([]*float64, 0, n)
	var outperformBench, outperformSector int
	for i := range comparisons {
		c := &comparisons[i]
		actual = append(actual, c.ActualMovePct)
		bench = append(bench, c.BenchmarkMovePct)
		sector = append(sector, c.SectorMovePct)
		alphaBench = append(alphaBench, c.AlphaVsBenchmark)
		alphaSector = append(alphaSector, c.AlphaVsSector)
		ivCrush = append(ivCrush, c.IVCrushPct)
		if ob := c.OutperformedBenchmark(); ob != nil && *ob {
			outperformBench++
		}
		if os := c.OutperformedSector(); os != nil && *os {
			outperformSector++
		}
	}

	pctBench := round2(float64(outperformBench) / float64(n) * 100)
	pctSector := round2(float64(outperformSector) / float64(n) * 100)

	var positiveRate *float64
	if len(eventsForOutcome) > 0 {
		var positives int
		for _, e := range eventsForOutcome {
			if e.Outcome == catalyst.OutcomePositive || e.Outcome == catalyst.OutcomeMixed {
				positives++
			}
		}
		rate := round2(float64(positives) / float64(len(eventsForOutcome)) * 100)
		positiveRate = &rate
	}

	return BenchmarkStats{
		NEvents:             n,
		AvgActualMove:       safeAvg(actual),
		AvgBenchmarkMove:    safeAvg(bench),
		AvgSectorMove:       safeAvg(sector),
		AvgAlphaVsBenchmark: safeAvg(alphaBench),
		AvgAlphaVsSector:    safeAvg(alphaSector),
		PctOutperformBench:  &pctBench,
		PctOutperformSector: &pctSector,
		AvgIVCrush:          safeAvg(ivCrush),
		PositiveOutcomeRate: positiveRate,
	}
}

func round2(v float64) float64 {
	return math.Round(v*1e2) / 1e2
}
