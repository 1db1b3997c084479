package event

import (
	"errors"
	"time"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxLocationLength    = 200
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("event title cannot be empty")
	ErrMissingStart    = errors.New("event start time is required")
	ErrEndBeforeStart  = errors.New("event end time cannot be before start time")
	ErrTitleTooLong    = errors.New("event title cannot exceed 200 characters")
	ErrDescTooLong     = errors.New("event description cannot exceed 2000 characters")
	ErrLocationTooLong = errors.New("event location cannot exceed 200 characters")
)

// Event is a scheduled portal event (webinar, release call, training).
// INVARIANT: EndsAt >= StartsAt when EndsAt is set.
type Event struct {
	ID          string
	Title       string
	Description string // optional
	Location    string // optional, physical or virtual
	StartsAt    time.Time
	EndsAt      time.Time // zero value means open-ended
	Active      bool
	CreatedAt   time.Time
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if e.StartsAt.IsZero() {
		return ErrMissingStart
	}
	if !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return ErrEndBeforeStart
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if len(e.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	return nil
}

// Toggle flips the active flag.
// PRE: none
// POST: Active is inverted
func (e *Event) Toggle() {
	e.Active = !e.Active
}
