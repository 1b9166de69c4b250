package game

import (
	"encoding/json"
	"math"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	b, err := New(4, testPool, NewRand(11))
	if err != nil {
		t.Fatal(err)
	}
	start := time.Date(2026, 5, 2, 8, 30, 15, 250_000_000, time.UTC)
	b.SetClock(func() time.Time { return start })
	b.StartMemorizing()
	b.StartPlaying()
	b.Flip(idx(0))
	b.Flip(idx(1))

	got := Restore(b.Snapshot())

	if got.Phase() != b.Phase() || got.Moves() != b.Moves() || got.Errors() != b.Errors() {
		t.Fatalf("counters differ: got %+v want %+v", got.Snapshot(), b.Snapshot())
	}
	wc, gc := b.Cards(), got.Cards()
	ws, gs := b.States(), got.States()
	for i := range wc {
		if wc[i] != gc[i] || ws[i] != gs[i] {
			t.Fatalf("card %d differs", i)
		}
	}
	st, ok := got.StartTime()
	if !ok {
		t.Fatal("start time lost")
	}
	if d := st.Sub(start); d > time.Millisecond || d < -time.Millisecond {
		t.Fatalf("start time drifted by %v", d)
	}
}

func TestSnapshotJSONThroughParse(t *testing.T) {
	b := playing("a", "b", "a", "b")
	b.Flip(idx(0))
	b.Flip(idx(1))

	raw, err := json.Marshal(b.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	s := ParseSnapshot(raw)
	if s.Phase != PhasePlaying || s.Moves != 1 || s.Errors != 1 {
		t.Fatalf("parsed %+v", s)
	}
	if len(s.Cards) != 4 || s.States[0] != Revealed || s.States[1] != Revealed {
		t.Fatalf("parsed %+v", s)
	}
	if s.StartTime != nil {
		t.Fatal("start time should stay nil when never memorized")
	}
}

func TestEmptySnapshotDefaults(t *testing.T) {
	s := Restore(Snapshot{}).Snapshot()
	if s.Cards == nil || s.States == nil {
		t.Fatal("empty board must serialize as empty arrays, not null")
	}
	if s.Phase != PhaseSetup || s.Moves != 0 || s.StartTime != nil {
		t.Fatalf("defaults wrong: %+v", s)
	}
}

func TestParseSnapshotPermissive(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		check func(t *testing.T, s Snapshot)
	}{
		{"not json", `{{{`, func(t *testing.T, s Snapshot) {
			if s.Phase != PhaseSetup || len(s.Cards) != 0 || len(s.States) != 0 {
				t.Fatalf("got %+v", s)
			}
		}},
		{"empty object", `{}`, func(t *testing.T, s Snapshot) {
			if s.Phase != PhaseSetup || s.Moves != 0 || s.StartTime != nil {
				t.Fatalf("got %+v", s)
			}
		}},
		{"cards only", `{"cards":["a","a"]}`, func(t *testing.T, s Snapshot) {
			if len(s.Cards) != 2 || len(s.States) != 0 {
				t.Fatalf("got %+v", s)
			}
		}},
		{"numeric faces", `{"cards":[1,2,1,2],"states":[0,0,0,0],"phase":"playing"}`, func(t *testing.T, s Snapshot) {
			if s.Cards[0] != "1" || s.Cards[1] != "2" || s.Phase != PhasePlaying {
				t.Fatalf("got %+v", s)
			}
		}},
		{"bad moves type", `{"moves":"three","phase":"memorizing"}`, func(t *testing.T, s Snapshot) {
			if s.Moves != 0 || s.Phase != PhaseMemorizing {
				t.Fatalf("got %+v", s)
			}
		}},
		{"unknown phase", `{"phase":"paused"}`, func(t *testing.T, s Snapshot) {
			if s.Phase != PhaseSetup {
				t.Fatalf("got %+v", s)
			}
		}},
		{"null start", `{"startTime":null}`, func(t *testing.T, s Snapshot) {
			if s.StartTime != nil {
				t.Fatalf("got %+v", s)
			}
		}},
		{"legacy start_time", `{"start_time":1700000000.5}`, func(t *testing.T, s Snapshot) {
			if s.StartTime == nil || math.Abs(*s.StartTime-1700000000.5) > 1e-6 {
				t.Fatalf("got %+v", s)
			}
		}},
		{"garbage states", `{"states":[0,"x",2]}`, func(t *testing.T, s Snapshot) {
			if len(s.States) != 3 || s.States[1] != Hidden || s.States[2] != Matched {
				t.Fatalf("got %+v", s)
			}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, ParseSnapshot([]byte(tc.in)))
		})
	}
}

func TestRestoreIsDetached(t *testing.T) {
	s := Snapshot{Cards: []FaceValue{"a", "a"}, States: []CardState{Hidden, Hidden}, Phase: PhasePlaying}
	b := Restore(s)
	b.Flip(idx(0))
	if s.States[0] != Hidden {
		t.Fatal("Restore must copy states")
	}
}
