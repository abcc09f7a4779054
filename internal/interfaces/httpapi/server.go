// Package httpapi exposes a read-only JSON view of the event store: events,
// ratings, the merged export and aggregate benchmark stats. It never writes
// to the store; all mutation goes through the CLI.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/catalystrun/internal/application/analyst"
	"github.com/sawpanic/catalystrun/internal/persistence"
)

// Server serves the report API over a persistence.Store.
type Server struct {
	store  persistence.Store
	router *mux.Router
	server *http.Server
}

// NewServer builds the report server bound to addr.
func NewServer(addr string, store persistence.Store) *Server {
	s := &Server{
		store:  store,
		router: mux.NewRouter(),
	}
	s.routes()
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/events/{id}", s.handleEvent).Methods(http.MethodGet)
	s.router.HandleFunc("/ratings", s.handleRatings).Methods(http.MethodGet)
	s.router.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
}

// ListenAndServe blocks serving the API.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.server.Addr).Msg("Report API listening")
	return s.server.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.LoadEvents()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	event, err := s.store.GetEvent(id)
	if errors.Is(err, persistence.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found", "event_id": id})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := s.store.LoadRatings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.LoadEvents()
	if err != nil {
		writeError(w, err)
		return
	}
	ratings, err := persistence.RatingsByEvent(s.store)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, persistence.BuildExport(events, ratings))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.LoadEvents()
	if err != nil {
		writeError(w, err)
		return
	}
	ratings, err := persistence.RatingsByEvent(s.store)
	if err != nil {
		writeError(w, err)
		return
	}
	comparisons := analyst.BatchCompare(events, ratings)
	writeJSON(w, http.StatusOK, analyst.ComputeStats(comparisons, events))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
