package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/memorygame/internal/db"
	"github.com/robalobadob/memorygame/internal/game"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLStore(sqlDB),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			b, err := game.New(3, []game.FaceValue{"a", "b", "c"}, game.NewRand(1))
			if err != nil {
				t.Fatal(err)
			}
			b.StartMemorizing()
			b.StartPlaying()
			i := 0
			b.Flip(&i)

			in := &Session{ID: "s1", Level: "medio", DailyDate: "2026-06-01", Snapshot: b.Snapshot()}
			if err := st.Save(ctx, in); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			out, err := st.Get(ctx, "s1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if out.Level != "medio" || out.DailyDate != "2026-06-01" || out.Recorded {
				t.Fatalf("metadata mismatch: %+v", out)
			}
			got := game.Restore(out.Snapshot)
			if got.Phase() != game.PhasePlaying || got.States()[0] != game.Revealed {
				t.Fatalf("board mismatch: %+v", out.Snapshot)
			}
			if _, ok := got.StartTime(); !ok {
				t.Fatal("start time lost")
			}
			if len(got.Cards()) != 6 {
				t.Fatalf("cards lost: %v", got.Cards())
			}

			if !out.StartedAt.IsZero() {
				t.Fatalf("unstarted session has StartedAt %v", out.StartedAt)
			}
			// Overwrite.
			started := time.Date(2026, 6, 1, 8, 0, 0, 500_000_000, time.UTC)
			in.Recorded = true
			in.StartedAt = started
			if err := st.Save(ctx, in); err != nil {
				t.Fatal(err)
			}
			out, _ = st.Get(ctx, "s1")
			if !out.Recorded || !out.StartedAt.Equal(started) {
				t.Fatalf("update not persisted: %+v", out)
			}
		})
	}
}

func TestStoreNotFoundAndDelete(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := st.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("got %v, want ErrNotFound", err)
			}
			if err := st.Save(ctx, &Session{ID: "gone", Snapshot: game.Restore(game.Snapshot{}).Snapshot()}); err != nil {
				t.Fatal(err)
			}
			if err := st.Delete(ctx, "gone"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := st.Delete(ctx, "gone"); err != nil {
				t.Fatalf("second Delete failed: %v", err)
			}
			if _, err := st.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("got %v after delete", err)
			}
		})
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	s := &Session{ID: "x", Snapshot: game.Snapshot{Cards: []game.FaceValue{"a", "a"}, States: []game.CardState{0, 0}}}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	s.Snapshot.States[0] = game.Matched
	got, _ := st.Get(ctx, "x")
	if got.Snapshot.States[0] != game.Hidden {
		t.Fatal("stored session shares memory with caller")
	}
}

func TestSQLStoreToleratesPartialRows(t *testing.T) {
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "partial.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	if _, err := sqlDB.Exec(`INSERT INTO sessions (id, snapshot, updated_at) VALUES ('old', '{"cards":["a","a"]}', '')`); err != nil {
		t.Fatal(err)
	}
	got, err := NewSQLStore(sqlDB).Get(context.Background(), "old")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Level != "facil" || got.Snapshot.Phase != game.PhaseSetup || len(got.Snapshot.States) != 0 {
		t.Fatalf("defaults not applied: %+v", got)
	}
}
