package announcement

import (
	"errors"
	"time"
)

// Max length constants.
const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
)

// Domain errors
var (
	ErrEmptyTitle     = errors.New("announcement title cannot be empty")
	ErrEmptyContent   = errors.New("announcement content cannot be empty")
	ErrTitleTooLong   = errors.New("announcement title cannot exceed 200 characters")
	ErrContentTooLong = errors.New("announcement content cannot exceed 5000 characters")
)

// Announcement is a portal notice shown to authenticated clients.
// Content supports Markdown. Higher priority means more prominent placement;
// ties break by recency (newest first).
type Announcement struct {
	ID        string
	Title     string
	Content   string // Markdown content
	Priority  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if a.Content == "" {
		return ErrEmptyContent
	}
	if len(a.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	return nil
}

// Toggle flips the active flag.
// PRE: none
// POST: Active is inverted
func (a *Announcement) Toggle() {
	a.Active = !a.Active
}
