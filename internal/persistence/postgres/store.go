// Package postgres is the Postgres backend. Records are stored as JSONB
// documents keyed by event id, upserted with INSERT .. ON CONFLICT so each
// save is atomic per key.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/domain/catalyst"
	"github.com/sawpanic/catalystrun/internal/domain/rating"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

const defaultTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS catalyst_events (
	event_id   TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS catalyst_ratings (
	event_id   TEXT PRIMARY KEY,
	doc        JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store persists events and ratings in two JSONB tables.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// New connects to Postgres with the given DSN and ensures the schema exists.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Store{db: db, timeout: defaultTimeout}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) upsert(table, eventID string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", eventID, err)
	}
	ctx, cancel := s.ctx()
	defer cancel()

	query := fmt.Sprintf(`
		INSERT INTO %s (event_id, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (event_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`, table)
	if _, err := s.db.ExecContext(ctx, query, eventID, doc); err != nil {
		return fmt.Errorf("upsert %s %s: %w", table, eventID, err)
	}
	return nil
}

func (s *Store) loadAll(table string, decode func([]byte) error) error {
	ctx, cancel := s.ctx()
	defer cancel()

	rows, err := s.db.QueryxContext(ctx, fmt.Sprintf("SELECT doc FROM %s ORDER BY updated_at", table))
	if err != nil {
		return fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("scan %s row: %w", table, err)
		}
		if err := decode(doc); err != nil {
			log.Error().Err(err).Str("table", table).Msg("Skipping undecodable record")
		}
	}
	return rows.Err()
}

// SaveEvent upserts an event by id.
func (s *Store) SaveEvent(e *catalyst.Event) error {
	if e.EventID == "" {
		return fmt.Errorf("event has no event_id")
	}
	return s.upsert("catalyst_events", e.EventID, e)
}

// GetEvent returns the event with the given id, or persistence.ErrNotFound.
func (s *Store) GetEvent(eventID string) (*catalyst.Event, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	var doc []byte
	err := s.db.QueryRowxContext(ctx,
		"SELECT doc FROM catalyst_events WHERE event_id = $1", eventID).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", eventID, err)
	}

	var e catalyst.Event
	if err := json.Unmarshal(doc, &e); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", eventID, err)
	}
	return &e, nil
}

// DeleteEvent removes an event by id and reports whether a removal occurred.
func (s *Store) DeleteEvent(eventID string) (bool, error) {
	ctx, cancel := s.ctx()
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM catalyst_events WHERE event_id = $1", eventID)
	if err != nil {
		return false, fmt.Errorf("delete event %s: %w", eventID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// LoadEvents returns every stored event.
func (s *Store) LoadEvents() ([]*catalyst.Event, error) {
	events := []*catalyst.Event{}
	err := s.loadAll("catalyst_events", func(doc []byte) error {
		var e catalyst.Event
		if err := json.Unmarshal(doc, &e); err != nil {
			return err
		}
		events = append(events, &e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// SaveRating upserts a rating by event id, last write wins.
func (s *Store) SaveRating(r *rating.Rating) error {
	if r.EventID == "" {
		return fmt.Errorf("rating has no event_id")
	}
	return s.upsert("catalyst_ratings", r.EventID, r)
}

// LoadRatings returns every stored rating.
func (s *Store) LoadRatings() ([]*rating.Rating, error) {
	ratings := []*rating.Rating{}
	err := s.loadAll("catalyst_ratings", func(doc []byte) error {
		var r rating.Rating
		if err := json.Unmarshal(doc, &r); err != nil {
			return err
		}
		ratings = append(ratings, &r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
