// internal/results/results.go
//
// Finished-game history and per-user aggregates.
//
// Every finished game of a signed-in player becomes one game_results row;
// user_stats keeps the running totals so /stats/me is a single lookup:
//   - wins / losses / total_games
//   - average_time: mean seconds per game, updated incrementally
//   - favorite_level: level with the most games (ties → most recently played)

package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultFavorite is reported for users who have not finished a game.
const DefaultFavorite = "facil"

// Result is one finished game.
type Result struct {
	UserID       string    `json:"-"`
	Level        string    `json:"level"`
	TimeTakenSec int       `json:"timeTaken"`
	Won          bool      `json:"won"`
	PlayedAt     time.Time `json:"playedAt"`
}

// Stats are a user's aggregates.
type Stats struct {
	UserID        string  `json:"id"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	TotalGames    int     `json:"totalGames"`
	AverageTime   float64 `json:"averageTime"`
	FavoriteLevel string  `json:"favoriteLevel"`
}

// Store reads and writes results.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r and folds it into the user's aggregates in one transaction.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.UserID == "" {
		return errors.New("record result: empty user id")
	}
	if r.TimeTakenSec < 0 {
		r.TimeTakenSec = 0
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_results (user_id, level, time_taken, won) VALUES (?, ?, ?, ?)`,
		r.UserID, r.Level, r.TimeTakenSec, r.Won,
	); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	st, err := loadStats(ctx, tx, r.UserID)
	if err != nil {
		return err
	}
	st.AverageTime = (st.AverageTime*float64(st.TotalGames) + float64(r.TimeTakenSec)) / float64(st.TotalGames+1)
	st.TotalGames++
	if r.Won {
		st.Wins++
	} else {
		st.Losses++
	}
	fav, err := favoriteLevel(ctx, tx, r.UserID)
	if err != nil {
		return err
	}
	st.FavoriteLevel = fav

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO user_stats (user_id, wins, losses, total_games, average_time, favorite_level)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            wins=excluded.wins, losses=excluded.losses, total_games=excluded.total_games,
            average_time=excluded.average_time, favorite_level=excluded.favorite_level`,
		r.UserID, st.Wins, st.Losses, st.TotalGames, st.AverageTime, st.FavoriteLevel,
	); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	return tx.Commit()
}

// Stats returns the user's aggregates; zero values if they never finished a game.
func (s *Store) Stats(ctx context.Context, userID string) (Stats, error) {
	return loadStats(ctx, s.db, userID)
}

// Recent returns the user's latest results, newest first.
// limit <= 0 means 50.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT level, time_taken, won, played_at
        FROM game_results
        WHERE user_id=?
        ORDER BY played_at DESC, id DESC
        LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r      Result
			played string
		)
		if err := rows.Scan(&r.Level, &r.TimeTakenSec, &r.Won, &played); err != nil {
			return nil, err
		}
		r.UserID = userID
		r.PlayedAt, _ = time.Parse(time.RFC3339Nano, played)
		out = append(out, r)
	}
	return out, rows.Err()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadStats(ctx context.Context, q querier, userID string) (Stats, error) {
	st := Stats{UserID: userID, FavoriteLevel: DefaultFavorite}
	err := q.QueryRowContext(ctx, `
        SELECT wins, losses, total_games, average_time, favorite_level
        FROM user_stats WHERE user_id=?`, userID,
	).Scan(&st.Wins, &st.Losses, &st.TotalGames, &st.AverageTime, &st.FavoriteLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return st, nil
}

func favoriteLevel(ctx context.Context, q querier, userID string) (string, error) {
	var level string
	err := q.QueryRowContext(ctx, `
        SELECT level FROM game_results
        WHERE user_id=?
        GROUP BY level
        ORDER BY COUNT(*) DESC, MAX(id) DESC
        LIMIT 1`, userID,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultFavorite, nil
	}
	if err != nil {
		return "", fmt.Errorf("favorite level: %w", err)
	}
	return level, nil
}
