package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/application/tracker"
	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
)

var (
	addTicker    string
	addCompany   string
	addType      string
	addDate      string
	addDesc      string
	addSentiment string
	addStage     string
	addIndic     string
	addEndpoint  string
	addCompeting []string
	addNotes     string
	addTags      []string
	addNoMarket  bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new catalyst event",
	Long: `Add a new catalyst event for tracking. A market-context snapshot is
fetched and frozen on the event unless --no-market is given; a fetch failure
still creates the event, just without context.`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addTicker, "ticker", "", "Security ticker (required)")
	addCmd.Flags().StringVar(&addCompany, "company", "", "Company name (required)")
	addCmd.Flags().StringVar(&addType, "type", "", "Event type (required)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Event date YYYY-MM-DD (required)")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Event description (required)")
	addCmd.Flags().StringVar(&addSentiment, "sentiment", string(catalyst.SentimentNeutral), "Sentiment tag")
	addCmd.Flags().StringVar(&addStage, "stage", "", "Pipeline/development stage label")
	addCmd.Flags().StringVar(&addIndic, "indication", "", "Disease / therapeutic area")
	addCmd.Flags().StringVar(&addEndpoint, "endpoint", "", "Primary endpoint description")
	addCmd.Flags().StringSliceVar(&addCompeting, "competing", nil, "Competing treatments (comma-separated)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Analyst notes")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Free-form tags (comma-separated)")
	addCmd.Flags().BoolVar(&addNoMarket, "no-market", false, "Skip the market context fetch")

	for _, f := range []string{"ticker", "company", "type", "date", "desc"} {
		_ = addCmd.MarkFlagRequired(f)
	}
}

func runAdd(cmd *cobra.Command, args []string) error {
	eventType, err := catalyst.ParseEventType(addType)
	if err != nil {
		return err
	}
	sentiment, err := catalyst.ParseSentiment(addSentiment)
	if err != nil {
		return err
	}
	eventDate, err := catalyst.ParseDate(addDate)
	if err != nil {
		return err
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

	trk := tracker.New(newProvider(cfg))
	event := trk.CreateEvent(cmd.Context(), tracker.CreateParams{
		Ticker:            addTicker,
		CompanyName:       addCompany,
		EventType:         eventType,
		EventDate:         eventDate,
		Description:       addDesc,
		Sentiment:         sentiment,
		PipelineStage:     addStage,
		Indication:        addIndic,
		PrimaryEndpoint:   addEndpoint,
		CompetingDrugs:    addCompeting,
		AnalystNotes:      addNotes,
		Tags:              addTags,
		AutoMarketContext: !addNoMarket,
	})

	if err := store.SaveEvent(event); err != nil {
		return fmt.Errorf("save event: %w", err)
	}

	fmt.Printf("[+] Event created: %s\n", event.EventID)
	printEventSummary(event, nil)
	return nil
}
