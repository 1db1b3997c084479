package clientsession

import (
	"errors"
	"time"
)

// Session is an audit record of one successful T-code login. Insert-only;
// it is never read on the login path and carries no authority.
type Session struct {
	ID        string
	TCode     string
	CreatedAt time.Time
}

// Validate checks if the Session has valid data.
// PRE: Session struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Session) Validate() error {
	if s.TCode == "" {
		return errors.New("session T-code cannot be empty")
	}
	if s.CreatedAt.IsZero() {
		return errors.New("session created_at must be set")
	}
	return nil
}
