// Package kvstore is the keyed-record backend on Badger via badgerhold.
// Each upsert is a per-key atomic transaction, so concurrent writers do not
// risk the lost-update hazard of the whole-file JSON backend.
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
	"github.com/timshannon/badgerhold/v4"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

// Store keeps events and ratings as individually keyed Badger records.
type Store struct {
	db *badgerhold.Store
}

// New opens (or creates) a Badger store under dir. Records are encoded as
// JSON so optional numeric fields keep their null-vs-zero distinction.
func New(dir string) (*Store, error) {
	opts := badgerhold.DefaultOptions
	opts.Options = badger.DefaultOptions(dir).WithLogger(nil)
	opts.Encoder = json.Marshal
	opts.Decoder = json.Unmarshal

	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// SaveEvent upserts an event by id in a single transaction.
func (s *Store) SaveEvent(e *catalyst.Event) error {
	if e.EventID == "" {
		return fmt.Errorf("event has no event_id")
	}
	if err := s.db.Upsert(e.EventID, e); err != nil {
		return fmt.Errorf("upsert event %s: %w", e.EventID, err)
	}
	log.Debug().Str("event_id", e.EventID).Msg("Event saved")
	return nil
}

// GetEvent returns the event with the given id, or persistence.ErrNotFound.
func (s *Store) GetEvent(eventID string) (*catalyst.Event, error) {
	var e catalyst.Event
	if err := s.db.Get(eventID, &e); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}
	return &e, nil
}

// DeleteEvent removes an event by id and reports whether a removal occurred.
func (s *Store) DeleteEvent(eventID string) (bool, error) {
	if err := s.db.Delete(eventID, &catalyst.Event{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return true, nil
}

// LoadEvents returns every stored event.
func (s *Store) LoadEvents() ([]*catalyst.Event, error) {
	var records []catalyst.Event
	if err := s.db.Find(&records, nil); err != nil {
		log.Error().Err(err).Msg("Failed to load events, treating as empty")
		return []*catalyst.Event{}, nil
	}
	events := make([]*catalyst.Event, len(records))
	for i := range records {
		events[i] = &records[i]
	}
	return events, nil
}

// SaveRating upserts a rating by event id, last write wins.
func (s *Store) SaveRating(r *rating.Rating) error {
	if r.EventID == "" {
		return fmt.Errorf("rating has no event_id")
	}
	if err := s.db.Upsert(r.EventID, r); err != nil {
		return fmt.Errorf("upsert rating %s: %w", r.EventID, err)
	}
	return nil
}

// LoadRatings returns every stored rating.
func (s *Store) LoadRatings() ([]*rating.Rating, error) {
	var records []rating.Rating
	if err := s.db.Find(&records, nil); err != nil {
		log.Error().Err(err).Msg("Failed to load ratings, treating as empty")
		return []*rating.Rating{}, nil
	}
	ratings := make([]*rating.Rating, len(records))
	for i := range records {
		ratings[i] = &records[i]
	}
	return ratings, nil
}

// Close releases the underlying Badger store.
func (s *Store) Close() error {
	return s.db.Close()
}
