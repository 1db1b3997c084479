package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	clientsession "primeportal/internal/domain/clientsession"
	"primeportal/internal/domain/code"
)

type mockCodeStore struct {
	codes map[string]code.AuthorizedCode // keyed by t_code
}

func (m *mockCodeStore) GetByTCode(_ context.Context, tCode string) (code.AuthorizedCode, error) {
	c, ok := m.codes[tCode]
	if !ok {
		return code.AuthorizedCode{}, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockCodeStore) GetByID(_ context.Context, id string) (code.AuthorizedCode, error) {
	for _, c := range m.codes {
		if c.ID == id {
			return c, nil
		}
	}
	return code.AuthorizedCode{}, sql.ErrNoRows
}

func (m *mockCodeStore) Save(_ context.Context, c code.AuthorizedCode) error {
	for k, existing := range m.codes {
		if existing.ID == c.ID && k != c.TCode {
			delete(m.codes, k)
		}
	}
	m.codes[c.TCode] = c
	return nil
}

func (m *mockCodeStore) Delete(_ context.Context, id string) error {
	for k, c := range m.codes {
		if c.ID == id {
			delete(m.codes, k)
		}
	}
	return nil
}

type mockClientSessionStore struct {
	saved   []clientsession.Session
	saveErr error
}

func (m *mockClientSessionStore) Save(_ context.Context, s clientsession.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, s)
	return nil
}

var fixedNow = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

func fixedID() func() string {
	n := 0
	return func() string {
		n++
		return "id-" + string(rune('0'+n))
	}
}

func clientAuthDeps(codes *mockCodeStore, sessions *mockClientSessionStore) AuthenticateClientDeps {
	return AuthenticateClientDeps{
		CodeStore:    codes,
		SessionStore: sessions,
		GenerateID:   fixedID(),
		Now:          fixedNow,
	}
}

// TestAuthenticateClient_NormalizesInput tests that lowercase padded input
// matches a stored uppercase code.
func TestAuthenticateClient_NormalizesInput(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T12345": {ID: "c1", TCode: "T12345", CompanyName: "Acme", Active: true},
	}}
	sessions := &mockClientSessionStore{}

	result, err := ExecuteAuthenticateClient(context.Background(),
		AuthenticateClientInput{TCode: "  t12345  "}, clientAuthDeps(codes, sessions))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TCode != "T12345" || result.CompanyName != "Acme" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(sessions.saved) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(sessions.saved))
	}
	if sessions.saved[0].TCode != "T12345" {
		t.Errorf("audit t_code = %s", sessions.saved[0].TCode)
	}
}

// TestAuthenticateClient_UnknownCode tests the rejection path.
func TestAuthenticateClient_UnknownCode(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{}}
	sessions := &mockClientSessionStore{}

	_, err := ExecuteAuthenticateClient(context.Background(),
		AuthenticateClientInput{TCode: "T99999"}, clientAuthDeps(codes, sessions))
	if !errors.Is(err, ErrInvalidTCode) {
		t.Errorf("expected ErrInvalidTCode, got %v", err)
	}
	if len(sessions.saved) != 0 {
		t.Errorf("audit rows = %d, want 0", len(sessions.saved))
	}
}

// TestAuthenticateClient_InactiveCode tests that deactivated codes are
// rejected with the same error as unknown codes.
func TestAuthenticateClient_InactiveCode(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T12345": {ID: "c1", TCode: "T12345", Active: false},
	}}
	sessions := &mockClientSessionStore{}

	_, err := ExecuteAuthenticateClient(context.Background(),
		AuthenticateClientInput{TCode: "T12345"}, clientAuthDeps(codes, sessions))
	if !errors.Is(err, ErrInvalidTCode) {
		t.Errorf("expected ErrInvalidTCode, got %v", err)
	}
}

// TestAuthenticateClient_EmptyInput tests that blank input is rejected
// before any store call.
func TestAuthenticateClient_EmptyInput(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{}}
	sessions := &mockClientSessionStore{}

	_, err := ExecuteAuthenticateClient(context.Background(),
		AuthenticateClientInput{TCode: "   "}, clientAuthDeps(codes, sessions))
	if !errors.Is(err, ErrInvalidTCode) {
		t.Errorf("expected ErrInvalidTCode, got %v", err)
	}
}

// TestAuthenticateClient_AuditFailureDoesNotFailLogin tests that a broken
// audit store still yields a successful login.
func TestAuthenticateClient_AuditFailureDoesNotFailLogin(t *testing.T) {
	codes := &mockCodeStore{codes: map[string]code.AuthorizedCode{
		"T12345": {ID: "c1", TCode: "T12345", Active: true},
	}}
	sessions := &mockClientSessionStore{saveErr: errors.New("disk full")}

	result, err := ExecuteAuthenticateClient(context.Background(),
		AuthenticateClientInput{TCode: "T12345"}, clientAuthDeps(codes, sessions))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TCode != "T12345" {
		t.Errorf("unexpected result: %+v", result)
	}
}
