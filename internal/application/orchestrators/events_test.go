package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"primeportal/internal/domain/event"
)

type mockEventStore struct {
	items map[string]event.Event
}

func (m *mockEventStore) GetByID(_ context.Context, id string) (event.Event, error) {
	e, ok := m.items[id]
	if !ok {
		return event.Event{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockEventStore) Save(_ context.Context, e event.Event) error {
	m.items[e.ID] = e
	return nil
}

func (m *mockEventStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// TestCreateEvent tests the happy path with an open-ended event.
func TestCreateEvent(t *testing.T) {
	store := &mockEventStore{items: map[string]event.Event{}}
	deps := CreateEventDeps{EventStore: store, GenerateID: fixedID(), Now: fixedNow}

	starts := fixedNow().Add(48 * time.Hour)
	e, err := ExecuteCreateEvent(context.Background(),
		CreateEventInput{Title: "Site walkthrough", Location: "Yard 3", StartsAt: starts, Active: true}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Title != "Site walkthrough" || !e.StartsAt.Equal(starts) {
		t.Errorf("unexpected event: %+v", e)
	}
	if !e.EndsAt.IsZero() {
		t.Errorf("ends_at = %v, want zero", e.EndsAt)
	}
}

// TestCreateEvent_EndBeforeStart tests the ordering invariant.
func TestCreateEvent_EndBeforeStart(t *testing.T) {
	store := &mockEventStore{items: map[string]event.Event{}}
	deps := CreateEventDeps{EventStore: store, GenerateID: fixedID(), Now: fixedNow}

	starts := fixedNow().Add(48 * time.Hour)
	_, err := ExecuteCreateEvent(context.Background(),
		CreateEventInput{Title: "Bad window", StartsAt: starts, EndsAt: starts.Add(-time.Hour), Active: true}, deps)
	if !errors.Is(err, event.ErrEndBeforeStart) {
		t.Errorf("expected ErrEndBeforeStart, got %v", err)
	}
	if len(store.items) != 0 {
		t.Error("invalid event was persisted")
	}
}

// TestEditEvent_ClearsEnd tests that a zero EndsAt clears the end time.
func TestEditEvent_ClearsEnd(t *testing.T) {
	starts := fixedNow().Add(48 * time.Hour)
	store := &mockEventStore{items: map[string]event.Event{
		"e1": {ID: "e1", Title: "Meeting", StartsAt: starts, EndsAt: starts.Add(time.Hour), Active: true, CreatedAt: fixedNow()},
	}}

	e, err := ExecuteEditEvent(context.Background(),
		EditEventInput{EventID: "e1", Title: "Meeting", StartsAt: starts, Active: true},
		EditEventDeps{EventStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !e.EndsAt.IsZero() {
		t.Errorf("ends_at = %v, want zero", e.EndsAt)
	}
}

// TestToggleEvent tests the flip.
func TestToggleEvent(t *testing.T) {
	store := &mockEventStore{items: map[string]event.Event{
		"e1": {ID: "e1", Title: "Meeting", StartsAt: fixedNow(), Active: true, CreatedAt: fixedNow()},
	}}

	e, err := ExecuteToggleEvent(context.Background(), "e1", ToggleEventDeps{EventStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Active {
		t.Error("expected event to be inactive after toggle")
	}
}

// TestDeleteEvent tests removal.
func TestDeleteEvent(t *testing.T) {
	store := &mockEventStore{items: map[string]event.Event{
		"e1": {ID: "e1", Title: "Meeting", StartsAt: fixedNow(), CreatedAt: fixedNow()},
	}}

	if err := ExecuteDeleteEvent(context.Background(), "e1", DeleteEventDeps{EventStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.items) != 0 {
		t.Errorf("events remaining = %d, want 0", len(store.items))
	}
}
