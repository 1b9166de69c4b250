// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → deal (or resume) today's board into the session
//   - GET  /daily/leaderboard → top 20 results for today (or ?date=YYYY-MM-DD)
//
// Play itself goes through the regular /game routes; the session remembers
// the daily date so a win lands on the leaderboard.
// Each player can finish the daily board once per day. Guests are named on
// the leaderboard by their memory_player cookie, never by the session id.
// The daily clock starts at the player's first memorize or play of the date
// and survives a restart.
// Deterministic deals are based on date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/daily"
	"github.com/robalobadob/memorygame/internal/deck"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.handleDailyNew)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

// dailyNewRes is returned by /daily/new when today's board was already finished.
type dailyNewRes struct {
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleDailyNew deals today's board into the caller's session.
//   - If the player already has a result for today → Played=true, board untouched.
//   - If the session already holds today's board → it is returned as is.
//   - Otherwise the deterministic board for today replaces the session board.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSessionID(w, r)
	defer s.locks.lock(sid)()
	player := s.playerID(w, r)
	now := s.now()
	date := daily.DateKey(now)

	played, err := s.daily.AlreadyPlayed(r.Context(), player, date)
	if err != nil {
		log.Warn().Err(err).Msg("daily already played")
	}
	if played {
		_ = json.NewEncoder(w).Encode(dailyNewRes{Date: date, Played: true})
		return
	}

	sess, err := s.store.Get(r.Context(), sid)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	if err == nil && sess.DailyDate == date {
		b := game.Restore(sess.Snapshot)
		b.SetClock(s.now)
		s.respond(w, r, sess, b, nil)
		return
	}

	level := deck.ParseLevel(s.cfg.DailyLevel)
	b, err := daily.Deal(now, s.cfg.DailySalt, level.Pairs(), s.deck.Pool(s.cfg.DeckPool))
	if err != nil {
		s.dealFailed(w, err)
		return
	}
	b.SetClock(s.now)
	sess = &store.Session{ID: sid, Level: string(level), DailyDate: date}
	s.respond(w, r, sess, b, nil)
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleDailyLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
