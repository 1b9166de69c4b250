package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestMigrateIsIdempotent(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer sqlDB.Close()

	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("first Migrate failed: %v", err)
	}
	if err := Migrate(sqlDB); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("recorded %d migrations, want 4", n)
	}
	for _, table := range []string{"users", "sessions", "game_results", "user_stats", "daily_results", "daily_starts"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrateRollsBackFailedScript(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sqlDB.Close()

	fsys := fstest.MapFS{
		"m/001_ok.sql":  {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"m/002_bad.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); SELECT * FROM missing_table;`)},
	}
	if err := migrateFS(sqlDB, fsys, "m"); err == nil {
		t.Fatal("expected failure from bad migration")
	}

	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("recorded %d migrations, want 1", n)
	}
	var name string
	if err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE name='b'`).Scan(&name); err == nil {
		t.Fatal("table b should have been rolled back")
	}
}
