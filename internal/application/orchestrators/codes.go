package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"primeportal/internal/domain/code"
)

// CodeStoreForOrchestrator defines the store interface needed by code orchestrators.
type CodeStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (code.AuthorizedCode, error)
	GetByTCode(ctx context.Context, tCode string) (code.AuthorizedCode, error)
	Save(ctx context.Context, c code.AuthorizedCode) error
	Delete(ctx context.Context, id string) error
}

// ErrDuplicateTCode is returned when creating or renaming to a code that
// already exists.
var ErrDuplicateTCode = errors.New("a code with this value already exists")

// --- Create Code ---

// CreateCodeInput carries input for the create code orchestrator.
type CreateCodeInput struct {
	TCode       string // raw, normalized here
	CompanyName string
}

// CreateCodeDeps holds dependencies for CreateCode.
type CreateCodeDeps struct {
	CodeStore  CodeStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateCode creates a new authorized code, active by default.
// PRE: TCode is non-empty after normalization
// POST: Code created with generated ID, active = true
// INVARIANT: Normalized T-codes are unique
func ExecuteCreateCode(ctx context.Context, input CreateCodeInput, deps CreateCodeDeps) (code.AuthorizedCode, error) {
	c := code.AuthorizedCode{
		ID:          deps.GenerateID(),
		TCode:       code.Normalize(input.TCode),
		CompanyName: input.CompanyName,
		Active:      true,
		CreatedAt:   deps.Now(),
	}
	if err := c.Validate(); err != nil {
		return code.AuthorizedCode{}, err
	}

	if _, err := deps.CodeStore.GetByTCode(ctx, c.TCode); err == nil {
		return code.AuthorizedCode{}, ErrDuplicateTCode
	} else if !errors.Is(err, sql.ErrNoRows) {
		return code.AuthorizedCode{}, err
	}

	if err := deps.CodeStore.Save(ctx, c); err != nil {
		return code.AuthorizedCode{}, err
	}

	slog.Info("code_event", "event", "code_created", "code_id", c.ID, "t_code", c.TCode)
	return c, nil
}

// --- Update Code ---

// UpdateCodeInput carries input for the update code orchestrator.
type UpdateCodeInput struct {
	CodeID      string
	TCode       string // raw; empty leaves the code unchanged
	CompanyName string // always overwritten, empty clears
}

// UpdateCodeDeps holds dependencies for UpdateCode.
type UpdateCodeDeps struct {
	CodeStore CodeStoreForOrchestrator
}

// ExecuteUpdateCode updates fields on an existing code.
// PRE: CodeID is non-empty; code must exist
// POST: Code fields updated
// INVARIANT: Renaming to another code's value is rejected
func ExecuteUpdateCode(ctx context.Context, input UpdateCodeInput, deps UpdateCodeDeps) (code.AuthorizedCode, error) {
	if input.CodeID == "" {
		return code.AuthorizedCode{}, errors.New("code ID is required")
	}

	c, err := deps.CodeStore.GetByID(ctx, input.CodeID)
	if err != nil {
		return code.AuthorizedCode{}, err
	}

	if input.TCode != "" {
		normalized := code.Normalize(input.TCode)
		if normalized != c.TCode {
			existing, err := deps.CodeStore.GetByTCode(ctx, normalized)
			if err == nil && existing.ID != c.ID {
				return code.AuthorizedCode{}, ErrDuplicateTCode
			}
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return code.AuthorizedCode{}, err
			}
			c.TCode = normalized
		}
	}
	c.CompanyName = input.CompanyName

	if err := c.Validate(); err != nil {
		return code.AuthorizedCode{}, err
	}
	if err := deps.CodeStore.Save(ctx, c); err != nil {
		return code.AuthorizedCode{}, err
	}

	slog.Info("code_event", "event", "code_updated", "code_id", c.ID, "t_code", c.TCode)
	return c, nil
}

// --- Toggle Code ---

// ToggleCodeDeps holds dependencies for ToggleCode.
type ToggleCodeDeps struct {
	CodeStore CodeStoreForOrchestrator
}

// ExecuteToggleCode flips the active flag on a code.
// PRE: codeID is non-empty; code must exist
// POST: Active flag inverted and persisted
func ExecuteToggleCode(ctx context.Context, codeID string, deps ToggleCodeDeps) (code.AuthorizedCode, error) {
	if codeID == "" {
		return code.AuthorizedCode{}, errors.New("code ID is required")
	}

	c, err := deps.CodeStore.GetByID(ctx, codeID)
	if err != nil {
		return code.AuthorizedCode{}, err
	}
	c.Toggle()
	if err := deps.CodeStore.Save(ctx, c); err != nil {
		return code.AuthorizedCode{}, err
	}

	slog.Info("code_event", "event", "code_toggled", "code_id", c.ID, "active", c.Active)
	return c, nil
}

// --- Delete Code ---

// DeleteCodeDeps holds dependencies for DeleteCode.
type DeleteCodeDeps struct {
	CodeStore CodeStoreForOrchestrator
}

// ExecuteDeleteCode permanently removes a code. Past feedback rows keep
// their T-code string, so deletion does not orphan them.
// PRE: codeID is non-empty
// POST: Code removed; already-gone is not an error
func ExecuteDeleteCode(ctx context.Context, codeID string, deps DeleteCodeDeps) error {
	if codeID == "" {
		return errors.New("code ID is required")
	}
	if err := deps.CodeStore.Delete(ctx, codeID); err != nil {
		return err
	}
	slog.Info("code_event", "event", "code_deleted", "code_id", codeID)
	return nil
}
