package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/memorygame/internal/db"
	"github.com/robalobadob/memorygame/internal/deck"
)

func TestDateKeyIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := DateKey(time.Date(2026, 1, 31, 22, 0, 0, 0, loc))
	if got != "2026-02-01" {
		t.Fatalf("DateKey = %s, want 2026-02-01", got)
	}
}

func TestDealIsStablePerDate(t *testing.T) {
	pool := deck.NumericPool(20)
	day := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a, err := Deal(day, "salt", 6, pool)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Deal(later, "salt", 6, pool)
	if err != nil {
		t.Fatal(err)
	}
	ca, cb := a.Cards(), b.Cards()
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("same date dealt different boards at %d", i)
		}
	}

	if Seed(day, "salt") == Seed(day.AddDate(0, 0, 1), "salt") {
		t.Fatal("consecutive days share a seed")
	}
	if Seed(day, "salt") == Seed(day, "pepper") {
		t.Fatal("salt does not affect the seed")
	}
}

func TestStoreLeaderboard(t *testing.T) {
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "daily.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	s := NewStore(sqlDB)
	ctx := context.Background()

	for _, r := range []Result{
		{UserID: "slow", Date: "2026-06-01", Moves: 6, ElapsedMs: 9000},
		{UserID: "fast", Date: "2026-06-01", Moves: 8, ElapsedMs: 4000},
		{UserID: "tidy", Date: "2026-06-01", Moves: 6, ElapsedMs: 4000},
		{UserID: "fast", Date: "2026-06-01", Moves: 6, ElapsedMs: 1}, // ignored: already played
		{UserID: "other", Date: "2026-06-02", Moves: 6, ElapsedMs: 1},
	} {
		if err := s.InsertResult(ctx, r); err != nil {
			t.Fatalf("InsertResult failed: %v", err)
		}
	}

	played, err := s.AlreadyPlayed(ctx, "fast", "2026-06-01")
	if err != nil || !played {
		t.Fatalf("AlreadyPlayed = %v, %v", played, err)
	}
	played, _ = s.AlreadyPlayed(ctx, "fast", "2026-06-02")
	if played {
		t.Fatal("fast did not play on 06-02")
	}

	top, err := s.Leaderboard(ctx, "2026-06-01", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"tidy", "fast", "slow"}
	if len(top) != len(want) {
		t.Fatalf("got %d rows, want %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].UserID != id {
			t.Fatalf("row %d = %s, want %s", i, top[i].UserID, id)
		}
	}
	if top[1].ElapsedMs != 4000 {
		t.Fatal("duplicate insert overwrote the first result")
	}
}

func TestStoreStartKeepsFirstTime(t *testing.T) {
	sqlDB, err := db.OpenMigrated(filepath.Join(t.TempDir(), "starts.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()
	s := NewStore(sqlDB)
	ctx := context.Background()

	first := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	got, err := s.Start(ctx, "p1", "2026-06-01", first)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !got.Equal(first) {
		t.Fatalf("Start = %v, want %v", got, first)
	}

	got, err = s.Start(ctx, "p1", "2026-06-01", first.Add(10*time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(first) {
		t.Fatalf("second Start moved the clock to %v", got)
	}

	other, _ := s.Start(ctx, "p2", "2026-06-01", first.Add(time.Hour))
	if !other.Equal(first.Add(time.Hour)) {
		t.Fatalf("players share a start: %v", other)
	}
}
