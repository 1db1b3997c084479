package announcement

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/announcement"
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

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func save(t *testing.T, s *SQLiteStore, id string, priority int, active bool, createdAt time.Time) {
	t.Helper()
	a := domain.Announcement{
		ID: id, Title: "Title " + id, Content: "Body " + id,
		Priority: priority, Active: active,
		CreatedAt: createdAt, UpdatedAt: createdAt,
	}
	if err := s.Save(context.Background(), a); err != nil {
		t.Fatalf("save %s: %v", id, err)
	}
}

// TestList_PriorityThenRecency tests the display ordering: priority DESC,
// then created_at DESC within the same priority.
func TestList_PriorityThenRecency(t *testing.T) {
	s := openStore(t)

	save(t, s, "a-low-old", 0, true, baseTime)
	save(t, s, "a-high", 5, true, baseTime.Add(time.Hour))
	save(t, s, "a-low-new", 0, true, baseTime.Add(2*time.Hour))

	list, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a-high", "a-low-new", "a-low-old"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].ID != w {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, w)
		}
	}
}

// TestListActive_FiltersAndLimits tests the banner query: inactive rows are
// excluded and the limit is applied after ordering.
func TestListActive_FiltersAndLimits(t *testing.T) {
	s := openStore(t)

	save(t, s, "a1", 3, true, baseTime)
	save(t, s, "a2", 2, true, baseTime)
	save(t, s, "a3", 1, true, baseTime)
	save(t, s, "a4", 0, true, baseTime)
	save(t, s, "a-hidden", 9, false, baseTime)

	list, err := s.ListActive(context.Background(), 3)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	want := []string{"a1", "a2", "a3"}
	if len(list) != len(want) {
		t.Fatalf("len = %d, want %d", len(list), len(want))
	}
	for i, w := range want {
		if list[i].ID != w {
			t.Errorf("list[%d] = %s, want %s", i, list[i].ID, w)
		}
	}
}

// TestSave_Upsert tests that editing an announcement updates in place.
func TestSave_Upsert(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	save(t, s, "a1", 0, true, baseTime)
	a, err := s.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	a.Title = "Revised"
	a.Active = false
	a.UpdatedAt = baseTime.Add(time.Hour)
	if err := s.Save(ctx, a); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.Title != "Revised" || got.Active {
		t.Errorf("upsert not applied: %+v", got)
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
