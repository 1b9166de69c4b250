package daily

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result is one player's completed daily board.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether the user has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult stores r; a second result for the same user and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, moves, elapsed_ms)
         VALUES(?,?,?,?)`, r.UserID, r.Date, r.Moves, r.ElapsedMs,
	)
	return err
}

// Start records at as the player's start on the date's board and returns the
// first start ever recorded for that pair. Re-dealing the same daily board
// therefore keeps the original clock.
func (s *Store) Start(ctx context.Context, userID, date string, at time.Time) (time.Time, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_starts(user_id, date, started_ms) VALUES(?,?,?)`,
		userID, date, at.UnixMilli(),
	); err != nil {
		return time.Time{}, fmt.Errorf("record daily start: %w", err)
	}
	var ms int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT started_ms FROM daily_starts WHERE user_id=? AND date=?`, userID, date,
	).Scan(&ms); err != nil {
		return time.Time{}, fmt.Errorf("load daily start: %w", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Moves     int    `json:"moves"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard returns the fastest results for date (ties: fewer moves, then earliest).
// limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, moves, elapsed_ms
         FROM daily_results
         WHERE date=?
         ORDER BY elapsed_ms ASC, moves ASC, created_at ASC
         LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
