// internal/httpserver/server.go
//
// HTTP server wiring for the memory game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health", "/debug/deck".
//   - Game endpoints (optional auth): mounted under /game.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - Each player's board lives in the session store, keyed by the
//     memory_session cookie; every request restores it, applies one
//     operation and saves the new snapshot.
//   - Optional auth decorates requests with user context when a valid token
//     is present; only signed-in players get results recorded.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/config"
	"github.com/robalobadob/memorygame/internal/daily"
	"github.com/robalobadob/memorygame/internal/deck"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/results"
	"github.com/robalobadob/memorygame/internal/store"
)

// Server bundles router, session store, DB-backed stores and configuration.
type Server struct {
	r       *chi.Mux
	cfg     config.Config
	store   store.Store
	db      *sql.DB
	deck    *deck.Deck
	results *results.Store
	daily   *daily.Store
	locks   sessionLocks

	// newRand supplies the randomness for each fresh deal.
	newRand func() game.Rand
	now     func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB, dk *deck.Deck) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		cfg:     cfg,
		store:   st,
		db:      db,
		deck:    dk,
		results: results.NewStore(db),
		daily:   daily.NewStore(db),
		newRand: cryptoSeededRand,
		now:     time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one log line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"memory-go","endpoints":["/health","/game/*","/daily/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/deck", func(w http.ResponseWriter, r *http.Request) {
		levels := map[deck.Level]int{}
		for _, l := range deck.Levels() {
			levels[l] = l.Pairs()
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"pools": s.deck.Stats(), "levels": levels})
	})

	// Game endpoints: optional auth, guests can play
	s.mountGame(s.r.With(s.withOptionalAuth()))

	// Daily Challenge: optional auth, wins land on the leaderboard
	s.mountDaily(s.r.With(s.withOptionalAuth()))

	// Auth + profile/stats
	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// cryptoSeededRand seeds math/rand from crypto/rand, falling back to the clock.
func cryptoSeededRand() game.Rand {
	seed, err := game.NewSeed()
	if err != nil {
		log.Warn().Err(err).Msg("crypto seed unavailable, using clock")
		seed = time.Now().UnixNano()
	}
	return game.NewRand(seed)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg} with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
