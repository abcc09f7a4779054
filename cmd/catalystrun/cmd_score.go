package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/application/pipeline"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

var (
	scoreEventID string
	scoreIVRank  float64
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score an event and save its options rating",
	Long: `Score an event against the seven-factor model and upsert the
resulting rating. Prior stored events feed the historical-accuracy factor;
--iv-rank supplies the current IV rank, otherwise a per-type heuristic is
used.`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreEventID, "event-id", "", "Event id to score (required)")
	scoreCmd.Flags().Float64Var(&scoreIVRank, "iv-rank", -1, "Current IV rank 0-100 (omit for heuristic)")
	_ = scoreCmd.MarkFlagRequired("event-id")
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	event, err := store.GetEvent(scoreEventID)
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("event not found: %s", scoreEventID)
	}
	if err != nil {
		return err
	}

	past, err := store.LoadEvents()
	if err != nil {
		return err
	}

	opts := pipeline.Options{PastEvents: past, Weights: cfg.Weights}
	if scoreIVRank >= 0 {
		opts.IVRank = &scoreIVRank
	}

	r, err := pipeline.NewScorer().ScoreEvent(event, opts)
	if err != nil {
		return err
	}
	if err := store.SaveRating(r); err != nil {
		return fmt.Errorf("save rating: %w", err)
	}

	printEventSummary(event, r)
	fmt.Println("\nScore Breakdown:")
	b := r.ScoreBreakdown
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"catalyst_quality", b.CatalystQuality},
		{"sentiment_alignment", b.SentimentAlignment},
		{"market_context", b.MarketContext},
		{"iv_environment", b.IVEnvironment},
		{"historical_accuracy", b.HistoricalAccuracy},
		{"competitive_moat", b.CompetitiveMoat},
		{"risk_reward", b.RiskReward},
	} {
		fmt.Printf("  %-25s %6.1f\n", row.name, row.value)
	}
	return nil
}
