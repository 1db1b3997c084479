package storage

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestInitDB_Fresh verifies the schema applies cleanly to an empty database.
func TestInitDB_Fresh(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed on fresh db: %v", err)
	}

	tables := []string{
		"account", "admin_user", "authorized_code", "client_session",
		"announcement", "event", "feedback", "portal_setting", "outbox_entry",
	}
	for _, tbl := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", tbl).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", tbl, err)
		}
	}
}

// TestInitDB_Idempotent verifies that running InitDB twice produces no errors.
func TestInitDB_Idempotent(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("first InitDB failed: %v", err)
	}
	if err := InitDB(db); err != nil {
		t.Fatalf("second InitDB failed: %v", err)
	}
}

// TestUniqueTCode verifies the unique constraint on authorized_code.t_code.
func TestUniqueTCode(t *testing.T) {
	db := openTestDB(t)
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	_, err := db.Exec(
		"INSERT INTO authorized_code (id, t_code, created_at) VALUES ('a', 'T1', '2026-01-01T00:00:00Z')")
	if err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err = db.Exec(
		"INSERT INTO authorized_code (id, t_code, created_at) VALUES ('b', 'T1', '2026-01-01T00:00:00Z')")
	if err == nil {
		t.Error("expected unique constraint violation on duplicate t_code")
	}
}
