package outbox

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/outbox"
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

var baseTime = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func entry(id, status string, attempts int, createdAt time.Time) domain.Entry {
	return domain.Entry{
		ID: id, ActionType: domain.ActionTypeFeedbackEmail,
		Payload: `{"feedbackId":"` + id + `"}`,
		Status:  status, Attempts: attempts, MaxAttempts: 5,
		CreatedAt: createdAt,
	}
}

// TestSaveAndGet tests the round trip including the zero LastAttemptedAt.
func TestSaveAndGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	e := entry("o1", domain.StatusPending, 0, baseTime)
	if err := s.Save(ctx, e); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusPending || got.Payload != e.Payload {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !got.LastAttemptedAt.IsZero() {
		t.Errorf("last_attempted_at = %v, want zero", got.LastAttemptedAt)
	}
}

// TestListPending_FiltersAndOrders tests that only pending/retrying entries
// surface, oldest first.
func TestListPending_FiltersAndOrders(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, e := range []domain.Entry{
		entry("o-retrying", domain.StatusRetrying, 2, baseTime.Add(time.Hour)),
		entry("o-done", domain.StatusDone, 1, baseTime),
		entry("o-pending", domain.StatusPending, 0, baseTime),
		entry("o-abandoned", domain.StatusAbandoned, 3, baseTime),
	} {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("save %s: %v", e.ID, err)
		}
	}

	list, err := s.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	want := []string{"o-pending", "o-retrying"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].ID != w {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, w)
		}
	}
}

// TestListFailed tests that only exhausted failures surface.
func TestListFailed(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	failed := entry("o-failed", domain.StatusFailed, 5, baseTime)
	failed.LastAttemptedAt = baseTime.Add(time.Hour)
	failed.ErrorMessage = "provider unavailable"
	if err := s.Save(ctx, failed); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, entry("o-pending", domain.StatusPending, 0, baseTime)); err != nil {
		t.Fatalf("save: %v", err)
	}

	list, err := s.ListFailed(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "o-failed" {
		t.Fatalf("unexpected failed list: %+v", list)
	}
	if list[0].ErrorMessage != "provider unavailable" {
		t.Errorf("error_message = %q", list[0].ErrorMessage)
	}
}
