// internal/daily/daily.go
//
// Deterministic "board of the day": every player gets the same deal on a
// given UTC date, derived from HMAC(salt, YYYY-MM-DD).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/memorygame/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic RNG seed for the date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes are plenty of entropy for a seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Deal builds the daily board for date from pool.
func Deal(date time.Time, salt string, numPairs int, pool []game.FaceValue) (*game.Board, error) {
	return game.New(numPairs, pool, game.NewRand(Seed(date, salt)))
}
