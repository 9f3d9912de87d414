// Package server exposes game sessions over HTTP for a presentation layer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/lorenzotomasdiez/werewolf/internal/game"
	"github.com/lorenzotomasdiez/werewolf/internal/store"
)

// CreateRequest is the body of POST /sessions. Zero values take the
// server's defaults.
type CreateRequest struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
	Wolves  int    `json:"wolves"`
	Seed    uint64 `json:"seed"`
}

// Builder creates the engine for a new session. The CLI supplies one that
// wires the configured provider, personas and names.
type Builder func(ctx context.Context, req CreateRequest) (*game.Engine, error)

// Server bundles the router, the session store and the session builder.
type Server struct {
	r     *chi.Mux
	store *store.Memory
	build Builder
	log   zerolog.Logger
}

// New constructs a Server, installs middleware and registers routes.
func New(st *store.Memory, build Builder, logger zerolog.Logger) *Server {
	s := &Server{r: chi.NewRouter(), store: st, build: build, log: logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(s.requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": len(s.store.List())})
	})

	s.r.Post("/sessions", s.handleCreate)
	s.r.Get("/sessions/{id}", s.handleState)
	s.r.Delete("/sessions/{id}", s.handleDelete)
	s.r.Post("/sessions/{id}/messages", s.handleMessage)
	s.r.Post("/sessions/{id}/votes", s.handleVote)
	s.r.Post("/sessions/{id}/night-target", s.handleNightTarget)
	s.r.Post("/sessions/{id}/discuss", s.handleDiscuss)
	s.r.Post("/sessions/{id}/advance", s.handleAdvance)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.r }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, game.ErrConfiguration):
		writeError(w, http.StatusBadRequest, "invalid_configuration")
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over")
	case errors.Is(err, game.ErrNotDay):
		writeError(w, http.StatusConflict, "not_day")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled")
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("handler failed")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (*store.Entry, bool) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return e, true
}
