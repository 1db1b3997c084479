package feedback

import (
	"errors"
	"strings"
	"time"
)

// Feedback kinds
const (
	KindComplaint  = "complaint"
	KindCompliment = "compliment"
)

// ValidKinds contains all valid feedback kinds.
var ValidKinds = []string{KindComplaint, KindCompliment}

// Max length constants.
const (
	MaxSubjectLength = 200
	MaxMessageLength = 5000
	MaxEmailLength   = 254
)

// Domain errors
var (
	ErrEmptyTCode      = errors.New("feedback T-code cannot be empty")
	ErrEmptyMessage    = errors.New("feedback message cannot be empty")
	ErrInvalidKind     = errors.New("feedback kind must be one of: complaint, compliment")
	ErrSubjectTooLong  = errors.New("feedback subject cannot exceed 200 characters")
	ErrMessageTooLong  = errors.New("feedback message cannot exceed 5000 characters")
	ErrInvalidEmail    = errors.New("contact email must contain '@'")
	ErrEmailTooLong    = errors.New("contact email cannot exceed 254 characters")
)

// Feedback is a client submission (compliment or complaint). Immutable after
// creation except for admin deletion.
type Feedback struct {
	ID           string
	TCode        string // taken from the client session, never user-supplied
	Kind         string // complaint, compliment
	Subject      string // optional
	Message      string
	ContactEmail string // optional, for follow-up
	CreatedAt    time.Time
}

// Validate checks if the Feedback has valid data.
// PRE: Feedback struct is populated
// POST: Returns nil if valid, error otherwise
func (f *Feedback) Validate() error {
	if f.TCode == "" {
		return ErrEmptyTCode
	}
	if !isValidKind(f.Kind) {
		return ErrInvalidKind
	}
	if strings.TrimSpace(f.Message) == "" {
		return ErrEmptyMessage
	}
	if len(f.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if len(f.Subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	if f.ContactEmail != "" {
		if len(f.ContactEmail) > MaxEmailLength {
			return ErrEmailTooLong
		}
		if !strings.Contains(f.ContactEmail, "@") {
			return ErrInvalidEmail
		}
	}
	return nil
}

// KindLabel returns the human-readable label used in notification subjects.
// INVARIANT: Feedback fields are not mutated
func (f *Feedback) KindLabel() string {
	if f.Kind == KindComplaint {
		return "Complaint"
	}
	return "Compliment"
}

func isValidKind(k string) bool {
	for _, v := range ValidKinds {
		if v == k {
			return true
		}
	}
	return false
}
