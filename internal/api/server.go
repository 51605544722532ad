package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pbaille/wellkit/internal/classifier"
	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/insights"
	"github.com/pbaille/wellkit/internal/journal"
	"github.com/pbaille/wellkit/internal/logger"
	"github.com/pbaille/wellkit/internal/prompts"
	"github.com/pbaille/wellkit/internal/store"
	"github.com/pbaille/wellkit/internal/streak"
)

// Deps are the services the API exposes
type Deps struct {
	Store      *store.Store
	Journals   *journal.Service
	Insights   *insights.Service
	Ledger     *streak.Ledger
	Prompts    *prompts.Service
	Classifier *classifier.Model
}

// Options configures the HTTP layer
type Options struct {
	Addr       string
	CORSOrigin string
	// JWTSecret enables bearer-token auth. When empty the owner is read from
	// the X-User-ID header.
	JWTSecret string
	Location  *time.Location
	Log       *logger.Logger
}

// Server handles HTTP requests for the wellness API
type Server struct {
	Deps
	addr   string
	cors   string
	secret []byte
	loc    *time.Location
	log    *logger.Logger
	now    func() time.Time
}

// New creates a new API server
func New(deps Deps, opts Options) *Server {
	s := &Server{
		Deps:   deps,
		addr:   opts.Addr,
		cors:   opts.CORSOrigin,
		secret: []byte(opts.JWTSecret),
		loc:    opts.Location,
		log:    opts.Log,
		now:    time.Now,
	}
	if s.cors == "" {
		s.cors = "*"
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s
}

// Handler returns the routed handler with CORS and request logging applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	// Journals
	mux.HandleFunc("POST /journals", s.withOwner(s.addJournal))
	mux.HandleFunc("GET /journals", s.withOwner(s.listJournals))
	mux.HandleFunc("DELETE /journals/{id}", s.withOwner(s.deleteJournal))

	// Moods
	mux.HandleFunc("POST /moods", s.withOwner(s.logMood))
	mux.HandleFunc("GET /moods", s.withOwner(s.listMoods))
	mux.HandleFunc("DELETE /moods/{id}", s.withOwner(s.deleteMood))
	mux.HandleFunc("GET /moods/trend", s.withOwner(s.moodTrend))
	mux.HandleFunc("GET /moods/stats", s.withOwner(s.moodStats))

	// Todos
	mux.HandleFunc("POST /todos", s.withOwner(s.addTodo))
	mux.HandleFunc("GET /todos", s.withOwner(s.listTodos))
	mux.HandleFunc("PATCH /todos/{id}", s.withOwner(s.updateTodo))
	mux.HandleFunc("DELETE /todos/{id}", s.withOwner(s.deleteTodo))

	// Streak
	mux.HandleFunc("GET /streak", s.withOwner(s.getStreak))
	mux.HandleFunc("POST /streak/activities/{kind}", s.withOwner(s.toggleActivity))
	mux.HandleFunc("POST /streak/sync", s.withOwner(s.syncStreak))
	mux.HandleFunc("POST /streak/complete", s.withOwner(s.completeDay))

	// Daily prompts and preferences
	mux.HandleFunc("GET /daily", s.withOwner(s.daily))
	mux.HandleFunc("GET /preferences/{key}", s.withOwner(s.getPreference))
	mux.HandleFunc("PUT /preferences/{key}", s.withOwner(s.setPreference))

	mux.HandleFunc("POST /classify", s.withOwner(s.classify))

	return s.withLogging(withCORS(s.cors, mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", s.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// withCORS adds CORS headers for browser clients
func withCORS(origin string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		kv := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		}
		if rec.status >= 500 {
			s.log.Error("request failed", kv...)
			return
		}
		s.log.Debug("request", kv...)
	})
}

// location resolves the owner's timezone preference, falling back to the
// server default
func (s *Server) location(ctx context.Context, owner string) *time.Location {
	name, err := s.Store.GetPreference(ctx, owner, prefTimezone)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("timezone preference unavailable", "owner", owner, "error", err)
		}
		return s.loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.log.Warn("invalid timezone preference", "owner", owner, "timezone", name)
		return s.loc
	}
	return loc
}

// today is the owner's current calendar date
func (s *Server) today(ctx context.Context, owner string) (domain.Date, *time.Location) {
	loc := s.location(ctx, owner)
	return domain.DateOf(s.now(), loc), loc
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain and store errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		completed  *streak.AlreadyCompletedError
		incomplete *streak.IncompleteActivitiesError
		persist    *streak.PersistenceError
	)
	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":   err.Error(),
			"missing": incomplete.Missing,
		})
	case errors.As(err, &completed), errors.Is(err, streak.ErrClockSkew):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, streak.ErrUnknownActivity),
		errors.Is(err, journal.ErrEmptyContent),
		errors.Is(err, journal.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &persist):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
