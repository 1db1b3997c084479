package setting

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/setting"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return NewSQLiteStore(db)
}

var baseTime = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

// TestGet_Missing tests that an unset key yields sql.ErrNoRows.
func TestGet_Missing(t *testing.T) {
	s := openStore(t)
	_, err := s.Get(context.Background(), domain.KeyGoogleCalendarID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestUpsert_ReplacesByKey tests that writing the same key twice keeps
// one row with the latest value.
func TestUpsert_ReplacesByKey(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first := domain.Setting{Key: domain.KeyGoogleCalendarID, Value: "cal-one", UpdatedAt: baseTime}
	if err := s.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second := domain.Setting{Key: domain.KeyGoogleCalendarID, Value: "cal-two", UpdatedAt: baseTime.Add(time.Hour)}
	if err := s.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.Get(ctx, domain.KeyGoogleCalendarID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Value != "cal-two" {
		t.Errorf("value = %s, want cal-two", got.Value)
	}
	if !got.UpdatedAt.Equal(baseTime.Add(time.Hour)) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, baseTime.Add(time.Hour))
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("len = %d, want 1", len(list))
	}
}
