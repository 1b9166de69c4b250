// internal/store/sqlite.go
//
// SQLite-backed Store. The snapshot column holds the board as JSON and is
// read back through game.ParseSnapshot, so rows written by older versions
// (or edited by hand) still load with defaults for missing fields.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/memorygame/internal/game"
)

type sqlStore struct {
	db *sql.DB
}

// NewSQLStore returns a Store over an already migrated database.
func NewSQLStore(db *sql.DB) Store { return &sqlStore{db: db} }

// Save upserts the session row.
func (s *sqlStore) Save(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, level, daily_date, recorded, started_at, snapshot, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            level=excluded.level, daily_date=excluded.daily_date, recorded=excluded.recorded,
            started_at=excluded.started_at, snapshot=excluded.snapshot, updated_at=excluded.updated_at`,
		sess.ID, sess.Level, sess.DailyDate, sess.Recorded, formatTime(sess.StartedAt), string(raw),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a session row.
func (s *sqlStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess    Session
		raw     string
		started string
		updated string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, level, daily_date, recorded, started_at, snapshot, updated_at FROM sessions WHERE id=?`, id,
	).Scan(&sess.ID, &sess.Level, &sess.DailyDate, &sess.Recorded, &started, &raw, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	sess.Snapshot = game.ParseSnapshot([]byte(raw))
	sess.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	if started != "" {
		sess.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	}
	return &sess, nil
}

// Delete removes the session row if present.
func (s *sqlStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// formatTime stores zero times as "".
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
