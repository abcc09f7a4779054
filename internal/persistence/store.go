// Package persistence defines the keyed upsert contract for events and
// ratings, plus the denormalized export view. Backends: whole-file JSON
// (jsonstore), Badger keyed records (kvstore) and Postgres (postgres); all
// satisfy the same Store interface and the same upsert/idempotence laws.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
)

// ErrNotFound signals absence on keyed lookups. It is the expected signal for
// a missing id, not a failure.
var ErrNotFound = errors.New("record not found")

// Store is the upsert persistence contract over two independent collections,
// both keyed by event id. Saving an existing key replaces the record; at most
// one record per key survives any call. Loads on a missing or undecodable
// backing store degrade to empty collections.
type Store interface {
	SaveEvent(e *catalyst.Event) error
	GetEvent(eventID string) (*catalyst.Event, error)
	DeleteEvent(eventID string) (bool, error)
	LoadEvents() ([]*catalyst.Event, error)

	SaveRating(r *rating.Rating) error
	LoadRatings() ([]*rating.Rating, error)

	Close() error
}

// RatingsByEvent loads all ratings keyed by event id.
func RatingsByEvent(s Store) (map[string]*rating.Rating, error) {
	ratings, err := s.LoadRatings()
	if err != nil {
		return nil, err
	}
	byEvent := make(map[string]*rating.Rating, len(ratings))
	for _, r := range ratings {
		byEvent[r.EventID] = r
	}
	return byEvent, nil
}

// ExportRecord is one merged event with its rating (or null) nested, for
// dashboards or downstream analysis.
type ExportRecord struct {
	catalyst.Event
	Rating *rating.Rating `json:"rating"`
}

// BuildExport merges events with their ratings into a read-only view. A nil
// ratings map leaves every Rating field null.
func BuildExport(events []*catalyst.Event, ratings map[string]*rating.Rating) []ExportRecord {
	records := make([]ExportRecord, 0, len(events))
	for _, e := range events {
		records = append(records, ExportRecord{Event: *e, Rating: ratings[e.EventID]})
	}
	return records
}

// ExportJSON writes the merged export of a store to path. It only reads from
// the store.
func ExportJSON(s Store, path string, includeRatings bool) error {
	events, err := s.LoadEvents()
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	var ratings map[string]*rating.Rating
	if includeRatings {
		if ratings, err = RatingsByEvent(s); err != nil {
			return fmt.Errorf("load ratings: %w", err)
		}
	}

	data, err := json.MarshalIndent(BuildExport(events, ratings), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}

	log.Info().Int("records", len(events)).Str("path", path).Msg("Exported merged records")
	return nil
}
