// internal/store/store.go
//
// Persistence of board sessions between requests.
// A session is one player's current board (as a snapshot) plus the
// bookkeeping the HTTP layer needs around it.

package store

import (
	"context"
	"errors"
	"time"

	"github.com/robalobadob/memorygame/internal/game"
)

// ErrNotFound is returned by Get when no session exists for the ID.
var ErrNotFound = errors.New("session not found")

// Session is a stored board plus its request-layer metadata.
type Session struct {
	ID        string        // session cookie value
	Level     string        // difficulty the board was dealt at
	DailyDate string        // YYYY-MM-DD when this is a daily board, else empty
	Recorded  bool          // outcome already written to results
	StartedAt time.Time     // first memorize or play of this board, zero until then
	Snapshot  game.Snapshot // serialized board
	UpdatedAt time.Time
}

// Store defines the persistence interface for board sessions.
// Implementations may be backed by memory or SQL.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session does not exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}
