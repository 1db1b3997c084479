package setting

import (
	"errors"
	"time"
)

// Known setting keys.
const (
	KeyGoogleCalendarID = "google_calendar_id"
)

// PlaceholderCalendarID is the seed value meaning "not configured yet".
const PlaceholderCalendarID = "YOUR_CALENDAR_ID_HERE"

// Setting is a single mutable key-value row with upsert semantics.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Validate checks if the Setting has valid data.
// PRE: Setting struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Setting) Validate() error {
	if s.Key == "" {
		return errors.New("setting key cannot be empty")
	}
	return nil
}

// SchedulingURL builds the public scheduling page URL from a calendar ID
// setting. Returns "" when the ID is empty or still the placeholder.
// INVARIANT: Setting fields are not mutated
func (s *Setting) SchedulingURL() string {
	if s.Key != KeyGoogleCalendarID {
		return ""
	}
	if s.Value == "" || s.Value == PlaceholderCalendarID {
		return ""
	}
	return "https://calendar.google.com/calendar/appointments/schedules/" + s.Value
}
