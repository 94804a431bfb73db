package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hx.db")
	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	for _, table := range []string{"run_summary", "solve_runs", "users"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s: %v", table, err)
		}
	}

	var mode string
	if err := conn.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode %q, want wal", mode)
	}

	// a second open must find the schema in place
	_ = conn.Close()
	again, err := InitDB(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	_ = again.Close()
}

func TestInitDB_BadPath(t *testing.T) {
	if _, err := InitDB(filepath.Join(t.TempDir(), "missing", "dir", "hx.db")); err == nil {
		t.Fatalf("expected error for unreachable path")
	}
}
