// Package tracker manages event lifecycle: creation with a fresh identity
// and an optional frozen market-context snapshot, resolution with realized
// outcome data, and upcoming-event filtering. Market-data failures never
// abort creation or resolution; the affected fields just stay nil.
package tracker

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/infrastructure/market"
)

// CreateParams are the inputs to CreateEvent. Ticker, company, type, date and
// description are identity-defining and required; the rest is qualitative
// color.
type CreateParams struct {
	Ticker          string
	CompanyName     string
	EventType       catalyst.EventType
	EventDate       catalyst.Date
	Description     string
	Sentiment       catalyst.Sentiment
	PipelineStage   string
	Indication      string
	PrimaryEndpoint string
	CompetingDrugs  []string
	AnalystNotes    string
	Tags            []string

	// AutoMarketContext fetches and freezes a context snapshot at creation.
	AutoMarketContext bool
}

// Tracker creates and resolves events against a market-data provider.
type Tracker struct {
	provider market.Provider
}

// New builds a tracker. provider may be nil when no market data is wanted.
func New(provider market.Provider) *Tracker {
	return &Tracker{provider: provider}
}

// CreateEvent builds a new event with a generated id. When AutoMarketContext
// is set and the provider fails, the event is created without a snapshot and
// a warning is logged.
func (t *Tracker) CreateEvent(ctx context.Context, p CreateParams) *catalyst.Event {
	if p.Sentiment == "" {
		p.Sentiment = catalyst.SentimentNeutral
	}
	ticker := strings.ToUpper(p.Ticker)

	var mc *catalyst.MarketContext
	if p.AutoMarketContext && t.provider != nil {
		var err error
		mc, err = t.provider.FetchContext(ctx, p.EventDate)
		if err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("Could not auto-fetch market context")
		}
	}

	e := &catalyst.Event{
		EventID:         catalyst.NewEventID(ticker, p.EventDate),
		Ticker:          ticker,
		CompanyName:     p.CompanyName,
		EventType:       p.EventType,
		EventDate:       p.EventDate,
		Description:     p.Description,
		Sentiment:       p.Sentiment,
		PipelineStage:   p.PipelineStage,
		Indication:      p.Indication,
		PrimaryEndpoint: p.PrimaryEndpoint,
		CompetingDrugs:  emptyIfNil(p.CompetingDrugs),
		AnalystNotes:    p.AnalystNotes,
		MarketContext:   mc,
		Outcome:         catalyst.OutcomePending,
		Tags:            emptyIfNil(p.Tags),
	}

	log.Info().
		Str("event_id", e.EventID).
		Str("event_type", string(e.EventType)).
		Str("ticker", ticker).
		Msg("Event created")
	return e
}

// ResolveEvent marks an event resolved with the given outcome. When
// autoFetchMoves is set the realized single-day moves are pulled from the
// provider; a fetch failure leaves them nil and still applies the outcome.
func (t *Tracker) ResolveEvent(ctx context.Context, e *catalyst.Event, outcome catalyst.Outcome, outcomeNotes string, autoFetchMoves bool) {
	e.Outcome = outcome
	e.OutcomeNotes = outcomeNotes

	if autoFetchMoves && t.provider != nil {
		actual, benchmark, sector, err := t.provider.FetchPostEventMoves(ctx, e.Ticker, e.EventDate)
		if err != nil {
			log.Warn().Err(err).Str("event_id", e.EventID).Msg("Could not auto-fetch post-event moves")
		} else {
			e.ActualMovePct = actual
			e.BenchmarkMovePct = benchmark
			e.SectorMovePct = sector
		}
	}

	log.Info().
		Str("event_id", e.EventID).
		Str("outcome", string(outcome)).
		Msg("Event resolved")
}

// FilterUpcoming returns the pending events dated on or after asOf, sorted
// by date. An empty eventTypes filter keeps every type.
func FilterUpcoming(events []*catalyst.Event, asOf catalyst.Date, eventTypes []catalyst.EventType) []*catalyst.Event {
	wanted := make(map[catalyst.EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		wanted[t] = true
	}

	upcoming := make([]*catalyst.Event, 0, len(events))
	for _, e := range events {
		if e.Outcome != catalyst.OutcomePending || e.EventDate.Before(asOf) {
			continue
		}
		if len(wanted) > 0 && !wanted[e.EventType] {
			continue
		}
		upcoming = append(upcoming, e)
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].EventDate.Before(upcoming[j].EventDate)
	})
	return upcoming
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
