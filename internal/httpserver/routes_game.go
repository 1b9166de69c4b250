// internal/httpserver/routes_game.go
//
// HTTP routes driving a player's board.
//   - POST /game/new           → deal a board for {level, pool}
//   - GET  /game               → current board (dealt on first visit)
//   - POST /game/memorize      → show all cards, start the clock
//   - POST /game/play          → hide all cards, allow flips
//   - POST /game/flip          → {index}; null or -1 resolves a pending mismatch
//   - POST /game/flip/{index}  → same, index in the path
//   - POST /game/restart       → forget the board
//
// The first time a board is won or lost its outcome is recorded for
// signed-in players (and on the daily leaderboard for daily wins).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/memorygame/internal/daily"
	"github.com/robalobadob/memorygame/internal/deck"
	"github.com/robalobadob/memorygame/internal/game"
	"github.com/robalobadob/memorygame/internal/results"
	"github.com/robalobadob/memorygame/internal/store"
)

const (
	sessionCookieName = "memory_session"
	// playerCookieName holds a guest's public id on the daily leaderboard.
	// It is never the session id, which is the only credential for a board.
	playerCookieName = "memory_player"
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/", s.handleGetGame)
		r.Post("/new", s.handleNewGame)
		r.Post("/memorize", s.handleMemorize)
		r.Post("/play", s.handlePlay)
		r.Post("/flip", s.handleFlip)
		r.Post("/flip/{index}", s.handleFlip)
		r.Post("/restart", s.handleRestart)
	})
}

// boardView is the client-facing board.
// Hidden faces are blanked except while memorizing, when every card is shown.
type boardView struct {
	Cards     []game.FaceValue `json:"cards"`
	States    []game.CardState `json:"states"`
	Moves     int              `json:"moves"`
	Errors    int              `json:"errors"`
	Phase     game.Phase       `json:"phase"`
	Level     string           `json:"level"`
	DailyDate string           `json:"dailyDate,omitempty"`
	Win       bool             `json:"win"`
	Lose      bool             `json:"lose"`
	Mismatch  *bool            `json:"mismatch,omitempty"`
}

func newBoardView(sess *store.Session, b *game.Board, mismatch *bool) boardView {
	cards, states := b.Cards(), b.States()
	win, lose := b.IsWin(), b.IsLose()
	if b.Phase() == game.PhaseMemorizing {
		for i := range states {
			states[i] = game.Revealed
		}
		// Replaying a finished board starts a fresh attempt.
		win, lose = false, false
	} else {
		for i := range cards {
			if i >= len(states) || states[i] == game.Hidden {
				cards[i] = ""
			}
		}
	}
	if cards == nil {
		cards = []game.FaceValue{}
	}
	if states == nil {
		states = []game.CardState{}
	}
	return boardView{
		Cards:     cards,
		States:    states,
		Moves:     b.Moves(),
		Errors:    b.Errors(),
		Phase:     b.Phase(),
		Level:     sess.Level,
		DailyDate: sess.DailyDate,
		Win:       win,
		Lose:      lose,
		Mismatch:  mismatch,
	}
}

// newGameReq is the payload for POST /game/new.
type newGameReq struct {
	Level string `json:"level"` // facil | medio | dificil
	Pool  string `json:"pool"`  // optional symbol pool name
}

// handleNewGame deals a fresh board into the caller's session.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	level := deck.ParseLevel(req.Level)
	if req.Pool != "" && !s.deck.Has(req.Pool) {
		log.Debug().Str("pool", req.Pool).Msg("unknown pool, using default")
		req.Pool = ""
	}
	b, err := s.deal(level, req.Pool)
	if err != nil {
		s.dealFailed(w, err)
		return
	}
	sid := s.ensureSessionID(w, r)
	defer s.locks.lock(sid)()
	sess := &store.Session{ID: sid, Level: string(level)}
	s.respond(w, r, sess, b, nil)
}

// handleGetGame returns the current board, dealing one if none exists.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.withBoard(w, r, func(*game.Board) *bool { return nil })
}

// handleMemorize enters the memorizing phase.
func (s *Server) handleMemorize(w http.ResponseWriter, r *http.Request) {
	s.withBoard(w, r, func(b *game.Board) *bool {
		b.StartMemorizing()
		return nil
	})
}

// handlePlay enters the playing phase.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	s.withBoard(w, r, func(b *game.Board) *bool {
		b.StartPlaying()
		return nil
	})
}

// flipReq is the payload for POST /game/flip.
type flipReq struct {
	Index *int `json:"index"`
}

// handleFlip flips one card, or resolves a pending mismatch when the index
// is null/-1. Illegal flips are not errors: the board is returned unchanged.
func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	var index *int
	if p := chi.URLParam(r, "index"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_index")
			return
		}
		index = &n
	} else {
		var req flipReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
		index = req.Index
	}
	if index != nil && *index == -1 {
		index = nil
	}

	s.withBoard(w, r, func(b *game.Board) *bool {
		m := b.Flip(index)
		return &m
	})
}

// handleRestart drops the caller's board; the next request deals a new one.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSessionID(w, r)
	defer s.locks.lock(sid)()
	if err := s.store.Delete(r.Context(), sid); err != nil {
		log.Error().Err(err).Str("session", sid).Msg("delete session")
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ------------------------------ helpers -------------------------------------

// withBoard restores the caller's board (dealing one at the session's level
// if missing), applies op and responds with the saved result. The session
// stays locked from load to save.
func (s *Server) withBoard(w http.ResponseWriter, r *http.Request, op func(*game.Board) *bool) {
	sid := s.ensureSessionID(w, r)
	defer s.locks.lock(sid)()
	sess, b, err := s.loadOrDeal(r.Context(), sid)
	if err != nil {
		if errors.Is(err, game.ErrInvalidConfiguration) {
			s.dealFailed(w, err)
			return
		}
		log.Error().Err(err).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	mismatch := op(b)
	s.respond(w, r, sess, b, mismatch)
}

// loadOrDeal fetches the session's board, or deals a new easy one.
func (s *Server) loadOrDeal(ctx context.Context, sid string) (*store.Session, *game.Board, error) {
	sess, err := s.store.Get(ctx, sid)
	switch {
	case err == nil:
		b := game.Restore(sess.Snapshot)
		b.SetClock(s.now)
		return sess, b, nil
	case errors.Is(err, store.ErrNotFound):
		b, err := s.deal(deck.Easy, "")
		if err != nil {
			return nil, nil, err
		}
		return &store.Session{ID: sid, Level: string(deck.Easy)}, b, nil
	default:
		return nil, nil, err
	}
}

// respond records a newly finished game, saves the session and writes the view.
// Callers hold the session lock.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, sess *store.Session, b *game.Board, mismatch *bool) {
	if sess.StartedAt.IsZero() && b.Phase() != game.PhaseSetup {
		s.startClock(w, r, sess)
	}
	s.settle(w, r, sess, b)
	sess.Snapshot = b.Snapshot()
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(newBoardView(sess, b, mismatch))
}

// startClock stamps the first memorize or play of the session's board.
// A daily board takes the player's first start on that date instead, so
// dealing today's board again does not reset its clock.
func (s *Server) startClock(w http.ResponseWriter, r *http.Request, sess *store.Session) {
	now := s.now()
	sess.StartedAt = now
	if sess.DailyDate == "" {
		return
	}
	started, err := s.daily.Start(r.Context(), s.playerID(w, r), sess.DailyDate, now)
	if err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("daily start")
		return
	}
	sess.StartedAt = started
}

// settle records the outcome the first time a board is won or lost.
// Failures are logged, never surfaced: the move itself already happened.
func (s *Server) settle(w http.ResponseWriter, r *http.Request, sess *store.Session, b *game.Board) {
	if sess.Recorded || !(b.IsWin() || b.IsLose()) || len(b.Cards()) == 0 {
		return
	}
	if sess.StartedAt.IsZero() {
		// Outcomes need a play clock; flips are only accepted after one starts.
		return
	}
	sess.Recorded = true

	ctx := r.Context()
	won := b.IsWin() && !b.IsLose()
	elapsed := s.now().Sub(sess.StartedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	if sess.DailyDate != "" && won {
		player := s.playerID(w, r)
		if err := s.daily.InsertResult(ctx, daily.Result{
			UserID: player, Date: sess.DailyDate, Moves: b.Moves(), ElapsedMs: int(elapsed.Milliseconds()),
		}); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("insert daily result")
		}
	}
	me := userFrom(ctx)
	if me == nil {
		return
	}
	if err := s.results.Record(ctx, results.Result{
		UserID:       me.ID,
		Level:        sess.Level,
		TimeTakenSec: int(elapsed.Seconds()),
		Won:          won,
	}); err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("record result")
	}
}

// deal builds a fresh board for level from the named pool (config default if empty).
func (s *Server) deal(level deck.Level, pool string) (*game.Board, error) {
	if pool == "" {
		pool = s.cfg.DeckPool
	}
	b, err := game.New(level.Pairs(), s.deck.Pool(pool), s.newRand())
	if err != nil {
		return nil, err
	}
	b.SetClock(s.now)
	return b, nil
}

func (s *Server) dealFailed(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("deal board")
	writeError(w, http.StatusUnprocessableEntity, err.Error())
}

// ensureSessionID returns the session cookie, setting a new one if absent.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	s.setCookie(w, sessionCookieName, id, time.Now().Add(180*24*time.Hour), 0)
	// Later handlers in this request see the same id.
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
	return id
}

// playerID names the caller for daily results: the user id when signed in,
// otherwise the guest's memory_player cookie, set on first use.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if me := userFrom(r.Context()); me != nil {
		return me.ID
	}
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	s.setCookie(w, playerCookieName, id, time.Now().Add(180*24*time.Hour), 0)
	r.AddCookie(&http.Cookie{Name: playerCookieName, Value: id})
	return id
}
