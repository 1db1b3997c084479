package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	clientsession "primeportal/internal/domain/clientsession"
	"primeportal/internal/domain/code"
)

// CodeStoreForClientAuth defines the store interface needed by AuthenticateClient.
type CodeStoreForClientAuth interface {
	GetByTCode(ctx context.Context, tCode string) (code.AuthorizedCode, error)
}

// ClientSessionStoreForClientAuth defines the audit store interface needed by AuthenticateClient.
type ClientSessionStoreForClientAuth interface {
	Save(ctx context.Context, s clientsession.Session) error
}

// AuthenticateClientInput carries input for the client login orchestrator.
type AuthenticateClientInput struct {
	TCode string // raw, as typed by the client
}

// AuthenticateClientResult carries the result of a successful client login.
type AuthenticateClientResult struct {
	TCode       string // normalized form
	CompanyName string
}

// AuthenticateClientDeps holds dependencies for AuthenticateClient.
type AuthenticateClientDeps struct {
	CodeStore    CodeStoreForClientAuth
	SessionStore ClientSessionStoreForClientAuth
	GenerateID   func() string
	Now          func() time.Time
}

// ErrInvalidTCode is returned for unknown and deactivated codes alike.
var ErrInvalidTCode = errors.New("invalid access code")

// ExecuteAuthenticateClient validates a T-code and records a login audit row.
// Unknown and deactivated codes produce the same error so the response does
// not reveal which codes exist.
// PRE: Input carries the code as typed, normalization happens here
// POST: Returns the normalized code and company name on success
// INVARIANT: Audit insert failure never fails the login
func ExecuteAuthenticateClient(ctx context.Context, input AuthenticateClientInput, deps AuthenticateClientDeps) (AuthenticateClientResult, error) {
	normalized := code.Normalize(input.TCode)
	if normalized == "" {
		return AuthenticateClientResult{}, ErrInvalidTCode
	}

	c, err := deps.CodeStore.GetByTCode(ctx, normalized)
	if err != nil {
		slog.Info("client_auth_event", "event", "login_failed", "t_code", normalized, "reason", "not_found")
		return AuthenticateClientResult{}, ErrInvalidTCode
	}
	if !c.Active {
		slog.Info("client_auth_event", "event", "login_failed", "t_code", normalized, "reason", "inactive")
		return AuthenticateClientResult{}, ErrInvalidTCode
	}

	audit := clientsession.Session{
		ID:        deps.GenerateID(),
		TCode:     c.TCode,
		CreatedAt: deps.Now(),
	}
	if err := deps.SessionStore.Save(ctx, audit); err != nil {
		slog.Warn("client_auth_event", "event", "audit_save_failed", "t_code", c.TCode, "error", err)
	}

	slog.Info("client_auth_event", "event", "login_success", "t_code", c.TCode)

	return AuthenticateClientResult{
		TCode:       c.TCode,
		CompanyName: c.CompanyName,
	}, nil
}
