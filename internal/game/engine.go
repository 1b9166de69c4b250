// internal/game/engine.go
//
// Core engine for a single memory board.
// Responsibilities:
//   - Deal new boards: sample distinct symbols, double them, shuffle.
//   - Drive phase transitions: setup → memorizing → playing.
//   - Apply flips, evaluate pair comparisons and resolve mismatches.
//   - Report win/lose.
//
// Notes:
//   - Illegal flips are silently rejected (return false, no mutation).
//   - Matched is terminal per index.
//   - Timing (how long memorizing lasts) belongs to the caller; the board
//     only records when memorizing started.
package game

import (
	"fmt"
	"time"
)

// New deals a fresh board with numPairs pairs drawn from pool.
// Duplicate symbols in pool count once. Returns ErrInvalidConfiguration if
// numPairs < 1 or the pool holds fewer than numPairs distinct symbols.
func New(numPairs int, pool []FaceValue, rng Rand) (*Board, error) {
	if numPairs < 1 {
		return nil, fmt.Errorf("%w: pairs must be positive, got %d", ErrInvalidConfiguration, numPairs)
	}
	distinct := uniq(pool)
	if len(distinct) < numPairs {
		return nil, fmt.Errorf("%w: %d pairs requested but pool has %d distinct symbols",
			ErrInvalidConfiguration, numPairs, len(distinct))
	}

	// Partial Fisher–Yates: the first numPairs slots end up a uniform sample.
	for i := 0; i < numPairs; i++ {
		j := i + rng.Intn(len(distinct)-i)
		distinct[i], distinct[j] = distinct[j], distinct[i]
	}
	selected := distinct[:numPairs]

	cards := make([]FaceValue, 0, 2*numPairs)
	cards = append(cards, selected...)
	cards = append(cards, selected...)
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	return &Board{
		cards:  cards,
		states: make([]CardState, len(cards)),
		phase:  PhaseSetup,
		now:    time.Now,
	}, nil
}

// StartMemorizing enters the memorizing phase and records the start time.
// Cards and states are untouched.
func (b *Board) StartMemorizing() {
	b.phase = PhaseMemorizing
	t := b.clock()()
	b.startTime = &t
}

// StartPlaying enters the playing phase, hides every card and resets moves.
// Errors and cards are kept, so a memorized board can be replayed.
func (b *Board) StartPlaying() {
	b.phase = PhasePlaying
	for i := range b.states {
		b.states[i] = Hidden
	}
	b.moves = 0
}

// CanFlip reports whether flips are accepted in the current phase.
func (b *Board) CanFlip() bool { return b.phase == PhasePlaying }

// Flip reveals the card at *index and evaluates the pair once two cards are up.
// It returns true only when the flip completed a mismatched comparison.
//
// A nil index is a resolve call: if exactly two cards are revealed and they
// differ, both are hidden again. Resolve always returns false.
//
// A flip is rejected (false, no mutation) when:
//   - the board is not in the playing phase,
//   - index is outside [0, len(cards)),
//   - the target card is not hidden,
//   - two cards are already revealed and waiting to be resolved.
func (b *Board) Flip(index *int) bool {
	if index == nil {
		b.resolveMismatch()
		return false
	}
	i := *index
	if !b.CanFlip() {
		return false
	}
	if i < 0 || i >= len(b.cards) || i >= len(b.states) {
		return false
	}
	if b.states[i] != Hidden {
		return false
	}
	if len(b.Revealed()) == 2 {
		return false
	}

	b.states[i] = Revealed
	up := b.Revealed()
	if len(up) != 2 {
		return false
	}

	mismatch := false
	x, y := up[0], up[1]
	if b.sameFace(x, y) {
		b.states[x], b.states[y] = Matched, Matched
	} else {
		mismatch = true
		b.errors++
	}
	b.moves++
	return mismatch
}

// resolveMismatch hides the two revealed cards if they do not match.
func (b *Board) resolveMismatch() {
	up := b.Revealed()
	if len(up) != 2 {
		return
	}
	x, y := up[0], up[1]
	if !b.sameFace(x, y) {
		b.states[x], b.states[y] = Hidden, Hidden
	}
}

// sameFace compares two card faces. Indices without a card (possible after
// restoring a lopsided snapshot) never match.
func (b *Board) sameFace(x, y int) bool {
	if x >= len(b.cards) || y >= len(b.cards) {
		return false
	}
	return b.cards[x] == b.cards[y]
}

// IsWin reports whether every card is matched.
// An empty board counts as won.
func (b *Board) IsWin() bool {
	for _, s := range b.states {
		if s != Matched {
			return false
		}
	}
	return true
}

// IsLose reports whether any comparison has failed.
// A single mismatch ends the game.
func (b *Board) IsLose() bool { return b.errors >= 1 }

// Revealed returns the indices currently face up but not matched, in order.
func (b *Board) Revealed() []int {
	var out []int
	for i, s := range b.states {
		if s == Revealed {
			out = append(out, i)
		}
	}
	return out
}

// Cards returns a copy of the face values.
func (b *Board) Cards() []FaceValue { return append([]FaceValue(nil), b.cards...) }

// States returns a copy of the per-card states.
func (b *Board) States() []CardState { return append([]CardState(nil), b.states...) }

func (b *Board) Moves() int   { return b.moves }
func (b *Board) Errors() int  { return b.errors }
func (b *Board) Phase() Phase { return b.phase }

// StartTime returns when memorizing started, if it has.
func (b *Board) StartTime() (time.Time, bool) {
	if b.startTime == nil {
		return time.Time{}, false
	}
	return *b.startTime, true
}

// SetClock overrides the time source used by StartMemorizing.
func (b *Board) SetClock(now func() time.Time) { b.now = now }

func (b *Board) clock() func() time.Time {
	if b.now == nil {
		return time.Now
	}
	return b.now
}

// uniq returns the distinct values of pool in first-seen order.
func uniq(pool []FaceValue) []FaceValue {
	seen := make(map[FaceValue]struct{}, len(pool))
	out := make([]FaceValue, 0, len(pool))
	for _, v := range pool {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
