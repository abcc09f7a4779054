package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/application/tracker"
	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

var (
	listUpcoming bool
	listTypes    []string
	listTicker   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked events",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listUpcoming, "upcoming", false, "Only pending events dated today or later")
	listCmd.Flags().StringSliceVar(&listTypes, "type", nil, "Filter by event type (comma-separated)")
	listCmd.Flags().StringVar(&listTicker, "ticker", "", "Filter by ticker")
}

func runList(cmd *cobra.Command, args []string) error {
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

	var types []catalyst.EventType
	for _, raw := range listTypes {
		t, err := catalyst.ParseEventType(raw)
		if err != nil {
			return err
		}
		types = append(types, t)
	}

	if listUpcoming {
		events = tracker.FilterUpcoming(events, catalyst.Today(), types)
	} else if len(types) > 0 {
		events = filterByType(events, types)
	}
	if listTicker != "" {
		events = filterByTicker(events, listTicker)
	}

	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	for _, e := range events {
		grade, score := "--", "--"
		if r := ratings[e.EventID]; r != nil {
			grade = string(r.Grade)
			score = fmt.Sprintf("%.1f", r.CompositeScore)
		}
		fmt.Printf("%-8s %s  %-22s %-12s Grade: %-4s Score: %s\n",
			e.Ticker, e.EventDate, e.EventType, e.Outcome, grade, score)
	}
	return nil
}

func filterByType(events []*catalyst.Event, types []catalyst.EventType) []*catalyst.Event {
	wanted := make(map[catalyst.EventType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	out := events[:0]
	for _, e := range events {
		if wanted[e.EventType] {
			out = append(out, e)
		}
	}
	return out
}

func filterByTicker(events []*catalyst.Event, ticker string) []*catalyst.Event {
	out := events[:0]
	for _, e := range events {
		if strings.EqualFold(e.Ticker, ticker) {
			out = append(out, e)
		}
	}
	return out
}
