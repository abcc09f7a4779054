package main

import (
	"fmt"
	"strings"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
)

// printEventSummary prints the human-readable block shown after add, score and
// resolve. The rating section is skipped when r is nil.
func printEventSummary(e *catalyst.Event, r *rating.Rating) {
	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("  %s  %s (%s)\n", e.Ticker, e.CompanyName, e.EventID)
	fmt.Printf("  %-14s %s\n", "Type:", e.EventType)
	fmt.Printf("  %-14s %s\n", "Date:", e.EventDate)
	if e.PipelineStage != "" {
		fmt.Printf("  %-14s %s\n", "Stage:", e.PipelineStage)
	}
	if e.Description != "" {
		fmt.Printf("  %-14s %s\n", "Description:", e.Description)
	}
	fmt.Printf("  %-14s %s\n", "Sentiment:", e.Sentiment)
	fmt.Printf("  %-14s %s\n", "Outcome:", e.Outcome)
	if e.MarketContext != nil && e.MarketContext.SectorTrend != "" {
		fmt.Printf("  %-14s %s\n", "Sector trend:", e.MarketContext.SectorTrend)
	}
	if e.ActualMovePct != nil {
		fmt.Printf("  %-14s %s%%\n", "Actual move:", fmtFloat(e.ActualMovePct))
	}
	if e.BenchmarkMovePct != nil {
		fmt.Printf("  %-14s %s%%\n", "Bench move:", fmtFloat(e.BenchmarkMovePct))
	}
	if e.SectorMovePct != nil {
		fmt.Printf("  %-14s %s%%\n", "Sector move:", fmtFloat(e.SectorMovePct))
	}
	if e.IVCrushPct != nil {
		fmt.Printf("  %-14s %s%%\n", "IV crush:", fmtFloat(e.IVCrushPct))
	}

	if r != nil {
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("  %-14s %s (%.2f)\n", "Grade:", r.Grade, r.CompositeScore)
		fmt.Printf("  %-14s %s\n", "Strategy:", r.RecommendedStrategy)
		fmt.Printf("  %-14s %.1f%%\n", "Confidence:", r.ConfidencePct)
		fmt.Printf("  %-14s %d days, delta %.2f, max risk %.1f%% of portfolio\n",
			"Trade params:", r.TargetExpiryDays, r.SuggestedDelta, r.MaxRiskPctPort)
		if r.Notes != "" {
			fmt.Printf("  %-14s %s\n", "Notes:", r.Notes)
		}
	}
	fmt.Println(strings.Repeat("-", 60))
}
