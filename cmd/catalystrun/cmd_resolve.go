package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/application/tracker"
	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

var (
	resolveEventID string
	resolveOutcome string
	resolveNotes   string
	resolveMove    float64
	resolveIVCrush float64
	resolveNoFetch bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Mark an event as resolved with its outcome",
	Long: `Attach an outcome to a pending event. Realized single-day moves for
the ticker, benchmark and sector ETF are fetched unless --no-fetch is given;
a fetch failure still records the outcome with the moves left unset.`,
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveEventID, "event-id", "", "Event id to resolve (required)")
	resolveCmd.Flags().StringVar(&resolveOutcome, "outcome", "", "Outcome: positive|negative|mixed|withdrawn (required)")
	resolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "Outcome notes")
	resolveCmd.Flags().Float64Var(&resolveMove, "move", noOverride, "Override the actual move percentage")
	resolveCmd.Flags().Float64Var(&resolveIVCrush, "iv-crush", noOverride, "Post-event IV crush percentage")
	resolveCmd.Flags().BoolVar(&resolveNoFetch, "no-fetch", false, "Skip the realized-move fetch")
	_ = resolveCmd.MarkFlagRequired("event-id")
	_ = resolveCmd.MarkFlagRequired("outcome")
}

// noOverride is the sentinel for unset float flags.
const noOverride = -99999

func runResolve(cmd *cobra.Command, args []string) error {
	outcome, err := catalyst.ParseOutcome(resolveOutcome)
	if err != nil {
		return err
	}
	if outcome == catalyst.OutcomePending {
		return fmt.Errorf("cannot resolve an event back to pending")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	event, err := store.GetEvent(resolveEventID)
	if errors.Is(err, persistence.ErrNotFound) {
		return fmt.Errorf("event not found: %s", resolveEventID)
	}
	if err != nil {
		return err
	}

	trk := tracker.New(newProvider(cfg))
	trk.ResolveEvent(cmd.Context(), event, outcome, resolveNotes, !resolveNoFetch)

	if resolveMove != noOverride {
		v := resolveMove
		event.ActualMovePct = &v
	}
	if resolveIVCrush != noOverride {
		v := resolveIVCrush
		event.IVCrushPct = &v
	}

	if err := store.SaveEvent(event); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	fmt.Printf("[+] Resolved %s -> %s\n", event.EventID, event.Outcome)
	printEventSummary(event, nil)
	return nil
}
