package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/catalystrun/internal/application/analyst"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the post-event performance report",
	Long: `Compare resolved events against benchmark and sector moves and print
aggregate statistics. Output is a table on a terminal and JSON when piped
(or with --json).`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Force JSON output")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.LoadEvents()
	if err != nil {
		return err
	}
	ratings, err := persistence.RatingsByEvent(store)
	if err != nil {
		return err
	}

	comparisons := analyst.BatchCompare(events, ratings)
	if len(comparisons) == 0 {
		fmt.Println("No resolved events with price data to report.")
		return nil
	}
	stats := analyst.ComputeStats(comparisons, events)

	if reportJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		return json.NewEncoder(os.Stdout).Encode(struct {
			Comparisons []analyst.Comparison   `json:"comparisons"`
			Stats       analyst.BenchmarkStats `json:"stats"`
		}{comparisons, stats})
	}

	printComparisonTable(comparisons)
	fmt.Println("\nAggregate Stats:")
	fmt.Printf("  %-28s %d\n", "n_events", stats.NEvents)
	for _, row := range []struct {
		name  string
		value *float64
	}{
		{"avg_actual_move", stats.AvgActualMove},
		{"avg_benchmark_move", stats.AvgBenchmarkMove},
		{"avg_sector_move", stats.AvgSectorMove},
		{"avg_alpha_vs_benchmark", stats.AvgAlphaVsBenchmark},
		{"avg_alpha_vs_sector", stats.AvgAlphaVsSector},
		{"pct_outperform_benchmark", stats.PctOutperformBench},
		{"pct_outperform_sector", stats.PctOutperformSector},
		{"avg_iv_crush", stats.AvgIVCrush},
		{"positive_outcome_rate", stats.PositiveOutcomeRate},
	} {
		fmt.Printf("  %-28s %s\n", row.name, fmtFloat(row.value))
	}
	return nil
}

func printComparisonTable(comparisons []analyst.Comparison) {
	header := fmt.Sprintf("%-8s %-20s %-12s %7s %7s %7s %10s %10s %-6s %6s",
		"Ticker", "Event Type", "Outcome", "Move%", "Bench%", "Sect%",
		"AlphaBench", "AlphaSect", "Grade", "Score")
	sep := strings.Repeat("-", len(header))
	fmt.Println(sep)
	fmt.Println(header)
	fmt.Println(sep)
	for i := range comparisons {
		c := &comparisons[i]
		grade := "N/A"
		if c.RatingGrade != nil {
			grade = *c.RatingGrade
		}
		fmt.Printf("%-8s %-20s %-12s %7s %7s %7s %10s %10s %-6s %6s\n",
			c.Ticker, c.EventType, c.Outcome,
			fmtFloat(c.ActualMovePct), fmtFloat(c.BenchmarkMovePct), fmtFloat(c.SectorMovePct),
			fmtFloat(c.AlphaVsBenchmark), fmtFloat(c.AlphaVsSector),
			grade, fmtFloat(c.RatingScore))
	}
	fmt.Println(sep)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
