package code

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for admin-editable fields.
const (
	MaxTCodeLength       = 32
	MaxCompanyNameLength = 200
)

// Domain errors
var (
	ErrEmptyTCode       = errors.New("T-code cannot be empty")
	ErrTCodeTooLong     = errors.New("T-code cannot exceed 32 characters")
	ErrCompanyTooLong   = errors.New("company name cannot exceed 200 characters")
	ErrInvalidCharacter = errors.New("T-code may only contain letters, digits and hyphens")
)

// AuthorizedCode is a client access code issued out-of-band. It acts as a
// shared-secret login token: no password, no rotation. Codes are deactivated
// rather than deleted so past feedback keeps a valid reference.
type AuthorizedCode struct {
	ID          string
	TCode       string // unique, stored uppercase
	CompanyName string // optional display name for the admin console
	Active      bool
	CreatedAt   time.Time
}

// Normalize canonicalizes a raw T-code: trimmed, uppercase.
// PRE: none
// POST: Returns the canonical form used for storage and lookup
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate checks if the AuthorizedCode has valid data.
// PRE: TCode has been normalized
// POST: Returns nil if valid, error otherwise
func (c *AuthorizedCode) Validate() error {
	if c.TCode == "" {
		return ErrEmptyTCode
	}
	if len(c.TCode) > MaxTCodeLength {
		return ErrTCodeTooLong
	}
	for _, r := range c.TCode {
		if !isCodeRune(r) {
			return ErrInvalidCharacter
		}
	}
	if len(c.CompanyName) > MaxCompanyNameLength {
		return ErrCompanyTooLong
	}
	return nil
}

// Toggle flips the active flag.
// PRE: none
// POST: Active is inverted
func (c *AuthorizedCode) Toggle() {
	c.Active = !c.Active
}

func isCodeRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '-':
		return true
	}
	return false
}
