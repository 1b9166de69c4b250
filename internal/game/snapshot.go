// internal/game/snapshot.go
//
// Serializable form of a Board, used by callers to persist a game between
// requests (session store, database row, CLI output).
//
// Restore is deliberately permissive: absent fields take defaults and no
// consistency checks run (cards/states length, pairing). A lopsided snapshot
// yields a lopsided board; flips against it stay safe and simply reject.

package game

import (
	"math"
	"time"

	"github.com/tidwall/gjson"
)

// Snapshot is the persisted shape of a Board.
//
// StartTime is unix seconds (fractional), nil until memorizing starts.
type Snapshot struct {
	Cards     []FaceValue `json:"cards" yaml:"cards"`
	States    []CardState `json:"states" yaml:"states,flow"`
	Moves     int         `json:"moves" yaml:"moves"`
	Errors    int         `json:"errors,omitempty" yaml:"errors,omitempty"`
	Phase     Phase       `json:"phase" yaml:"phase"`
	StartTime *float64    `json:"startTime" yaml:"startTime"`
}

// Snapshot captures the board's full state.
func (b *Board) Snapshot() Snapshot {
	s := Snapshot{
		Cards:  b.Cards(),
		States: b.States(),
		Moves:  b.moves,
		Errors: b.errors,
		Phase:  b.phase,
	}
	if s.Cards == nil {
		s.Cards = []FaceValue{}
	}
	if s.States == nil {
		s.States = []CardState{}
	}
	if b.startTime != nil {
		secs := float64(b.startTime.UnixNano()) / float64(time.Second)
		s.StartTime = &secs
	}
	return s
}

// Restore rebuilds a board from a snapshot without validating it.
// Unknown phases fall back to setup.
func Restore(s Snapshot) *Board {
	b := &Board{
		cards:  append([]FaceValue(nil), s.Cards...),
		states: append([]CardState(nil), s.States...),
		moves:  s.Moves,
		errors: s.Errors,
		phase:  normalizePhase(s.Phase),
		now:    time.Now,
	}
	if s.StartTime != nil {
		t := fromUnixSeconds(*s.StartTime)
		b.startTime = &t
	}
	return b
}

// ParseSnapshot builds a Snapshot from raw JSON field by field.
// Missing or ill-typed fields take their defaults instead of failing the
// whole parse:
//   - cards: [] (non-string entries are stringified)
//   - states: [] (non-numeric entries become hidden)
//   - moves, errors: 0
//   - phase: setup
//   - startTime: nil
func ParseSnapshot(data []byte) Snapshot {
	s := Snapshot{
		Cards:  []FaceValue{},
		States: []CardState{},
		Phase:  PhaseSetup,
	}
	if !gjson.ValidBytes(data) {
		return s
	}
	root := gjson.ParseBytes(data)

	if v := root.Get("cards"); v.IsArray() {
		for _, c := range v.Array() {
			s.Cards = append(s.Cards, FaceValue(c.String()))
		}
	}
	if v := root.Get("states"); v.IsArray() {
		for _, st := range v.Array() {
			if st.Type == gjson.Number {
				s.States = append(s.States, CardState(st.Int()))
			} else {
				s.States = append(s.States, Hidden)
			}
		}
	}
	if v := root.Get("moves"); v.Type == gjson.Number {
		s.Moves = int(v.Int())
	}
	if v := root.Get("errors"); v.Type == gjson.Number {
		s.Errors = int(v.Int())
	}
	if v := root.Get("phase"); v.Type == gjson.String {
		s.Phase = normalizePhase(Phase(v.String()))
	}
	// Older snapshots used snake_case for the start time.
	st := root.Get("startTime")
	if !st.Exists() {
		st = root.Get("start_time")
	}
	if st.Type == gjson.Number {
		f := st.Float()
		s.StartTime = &f
	}
	return s
}

func normalizePhase(p Phase) Phase {
	switch p {
	case PhaseSetup, PhaseMemorizing, PhasePlaying:
		return p
	}
	return PhaseSetup
}

func fromUnixSeconds(f float64) time.Time {
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}
