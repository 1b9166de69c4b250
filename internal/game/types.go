// internal/game/types.go
//
// Core type definitions for the memory board.
// Defines:
//   - FaceValue: the symbol printed on a card (emoji, image path, or number).
//   - CardState: per-card visibility (hidden/revealed/matched).
//   - Phase: board lifecycle stage (setup → memorizing → playing).
//   - Board: state for a single game.

package game

import (
	"errors"
	"time"
)

// FaceValue is the symbol printed on a card.
// Two cards form a pair iff their face values are equal.
type FaceValue string

// CardState represents the visibility of a single card.
// Encoded as an integer so snapshots stay compatible with existing clients:
//   - 0: hidden (face down)
//   - 1: revealed (face up, not yet matched)
//   - 2: matched (terminal)
type CardState int

const (
	Hidden CardState = iota
	Revealed
	Matched
)

func (s CardState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	}
	return "unknown"
}

// Phase is the coarse lifecycle stage of a board.
type Phase string

const (
	PhaseSetup      Phase = "setup"
	PhaseMemorizing Phase = "memorizing"
	PhasePlaying    Phase = "playing"
)

// ErrInvalidConfiguration is returned when a board cannot be dealt
// with the requested parameters (e.g. more pairs than distinct symbols).
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Rand is the randomness a board needs when dealing.
// *math/rand.Rand satisfies it; tests pass a seeded source.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Board holds the state of a single memory game.
// A Board is not safe for concurrent use; callers serialize access per game.
type Board struct {
	cards     []FaceValue // face values, each appearing an even number of times
	states    []CardState // index-aligned with cards
	moves     int         // completed pair comparisons
	errors    int         // mismatched comparisons (never decreases)
	phase     Phase
	startTime *time.Time // set on entering memorizing

	now func() time.Time
}
