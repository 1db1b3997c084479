package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"primeportal/internal/domain/event"
)

// EventStoreForOrchestrator defines the store interface needed by event orchestrators.
type EventStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
	Save(ctx context.Context, e event.Event) error
	Delete(ctx context.Context, id string) error
}

// --- Create Event ---

// CreateEventInput carries input for the create event orchestrator.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time // zero means open-ended
	Active      bool
}

// CreateEventDeps holds dependencies for CreateEvent.
type CreateEventDeps struct {
	EventStore EventStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateEvent creates a new event.
// PRE: Title and StartsAt are set; EndsAt (if set) is not before StartsAt
// POST: Event created with generated ID
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.Event, error) {
	e := event.Event{
		ID:          deps.GenerateID(),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Active:      input.Active,
		CreatedAt:   deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	slog.Info("events_event", "event", "event_created", "event_id", e.ID, "starts_at", e.StartsAt)
	return e, nil
}

// --- Edit Event ---

// EditEventInput carries input for the edit event orchestrator.
type EditEventInput struct {
	EventID     string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time // zero clears the end time
	Active      bool
}

// EditEventDeps holds dependencies for EditEvent.
type EditEventDeps struct {
	EventStore EventStoreForOrchestrator
}

// ExecuteEditEvent replaces the editable fields of an event.
// The console always submits the full form, so this is a whole-record update.
// PRE: EventID is non-empty; event must exist
// POST: Fields replaced
func ExecuteEditEvent(ctx context.Context, input EditEventInput, deps EditEventDeps) (event.Event, error) {
	if input.EventID == "" {
		return event.Event{}, errors.New("event ID is required")
	}

	e, err := deps.EventStore.GetByID(ctx, input.EventID)
	if err != nil {
		return event.Event{}, err
	}

	e.Title = input.Title
	e.Description = input.Description
	e.Location = input.Location
	e.StartsAt = input.StartsAt
	e.EndsAt = input.EndsAt
	e.Active = input.Active

	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	slog.Info("events_event", "event", "event_edited", "event_id", e.ID)
	return e, nil
}

// --- Toggle Event ---

// ToggleEventDeps holds dependencies for ToggleEvent.
type ToggleEventDeps struct {
	EventStore EventStoreForOrchestrator
}

// ExecuteToggleEvent flips the active flag on an event.
// PRE: eventID is non-empty; event must exist
// POST: Active flag inverted and persisted
func ExecuteToggleEvent(ctx context.Context, eventID string, deps ToggleEventDeps) (event.Event, error) {
	if eventID == "" {
		return event.Event{}, errors.New("event ID is required")
	}

	e, err := deps.EventStore.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	e.Toggle()
	if err := deps.EventStore.Save(ctx, e); err != nil {
		return event.Event{}, err
	}

	slog.Info("events_event", "event", "event_toggled", "event_id", e.ID, "active", e.Active)
	return e, nil
}

// --- Delete Event ---

// DeleteEventDeps holds dependencies for DeleteEvent.
type DeleteEventDeps struct {
	EventStore EventStoreForOrchestrator
}

// ExecuteDeleteEvent permanently removes an event.
// PRE: eventID is non-empty
// POST: Event removed; already-gone is not an error
func ExecuteDeleteEvent(ctx context.Context, eventID string, deps DeleteEventDeps) error {
	if eventID == "" {
		return errors.New("event ID is required")
	}
	if err := deps.EventStore.Delete(ctx, eventID); err != nil {
		return err
	}
	slog.Info("events_event", "event", "event_deleted", "event_id", eventID)
	return nil
}
