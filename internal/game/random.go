package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed returns a high-entropy seed read from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewRand returns a math/rand source seeded with seed.
// Equal seeds deal equal boards.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
