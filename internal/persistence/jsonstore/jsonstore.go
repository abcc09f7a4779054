// Package jsonstore is the whole-file JSON backend: each collection lives in
// one file that is read, patched in memory and rewritten on every upsert.
// Simple and diff-friendly, but the load-modify-save cycle is not safe for
// concurrent writers; use the kvstore or postgres backend for that.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

const (
	eventsFile  = "events.json"
	ratingsFile = "ratings.json"
)

// Store persists events and ratings as two JSON array files under a data
// directory.
type Store struct {
	eventsPath  string
	ratingsPath string
}

// New creates a jsonstore rooted at dataDir, creating the directory if
// needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dataDir, err)
	}
	return &Store{
		eventsPath:  filepath.Join(dataDir, eventsFile),
		ratingsPath: filepath.Join(dataDir, ratingsFile),
	}, nil
}

// loadFile decodes a JSON array file. A missing file or a decode failure
// yields an empty collection: missing is the normal first-run state, and a
// corrupt file degrades to empty with a logged error. The decode is
// all-or-nothing; Unmarshal fills the slice before reporting a mid-array
// type error, so a partial result must never reach the caller.
func loadFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to decode store file, treating as empty")
		return []T{}, nil
	}
	return records, nil
}

func writeFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadEvents returns every stored event. A missing or corrupt file yields an
// empty slice.
func (s *Store) LoadEvents() ([]*catalyst.Event, error) {
	return loadFile[*catalyst.Event](s.eventsPath)
}

// SaveEvent upserts a single event by id: the full collection is loaded, the
// matching entry replaced or the event appended, and the collection
// rewritten. Idempotent for identical records.
func (s *Store) SaveEvent(e *catalyst.Event) error {
	events, err := s.LoadEvents()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range events {
		if existing.EventID == e.EventID {
			events[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, e)
	}
	if err := writeFile(s.eventsPath, events); err != nil {
		return err
	}
	log.Debug().Str("event_id", e.EventID).Bool("updated", replaced).Msg("Event saved")
	return nil
}

// GetEvent returns the event with the given id, or persistence.ErrNotFound.
func (s *Store) GetEvent(eventID string) (*catalyst.Event, error) {
	events, err := s.LoadEvents()
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.EventID == eventID {
			return e, nil
		}
	}
	return nil, persistence.ErrNotFound
}

// DeleteEvent removes an event by id and reports whether a removal occurred.
func (s *Store) DeleteEvent(eventID string) (bool, error) {
	events, err := s.LoadEvents()
	if err != nil {
		return false, err
	}
	kept := events[:0]
	for _, e := range events {
		if e.EventID != eventID {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(events) {
		return false, nil
	}
	if err := writeFile(s.eventsPath, kept); err != nil {
		return false, err
	}
	return true, nil
}

// LoadRatings returns every stored rating. A missing or corrupt file yields
// an empty slice.
func (s *Store) LoadRatings() ([]*rating.Rating, error) {
	return loadFile[*rating.Rating](s.ratingsPath)
}

// SaveRating upserts a single rating by event id, last write wins.
func (s *Store) SaveRating(r *rating.Rating) error {
	ratings, err := s.LoadRatings()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range ratings {
		if existing.EventID == r.EventID {
			ratings[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		ratings = append(ratings, r)
	}
	if err := writeFile(s.ratingsPath, ratings); err != nil {
		return err
	}
	log.Debug().Str("event_id", r.EventID).Bool("updated", replaced).Msg("Rating saved")
	return nil
}

// Close is a no-op; files are opened per operation.
func (s *Store) Close() error { return nil }
