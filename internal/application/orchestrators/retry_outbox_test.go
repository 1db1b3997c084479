package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"primeportal/internal/adapters/email"
	domain "primeportal/internal/domain/outbox"
)

type mockOutboxProcessorStore struct {
	entries map[string]domain.Entry
}

func (m *mockOutboxProcessorStore) GetByID(_ context.Context, id string) (domain.Entry, error) {
	e, ok := m.entries[id]
	if !ok {
		return domain.Entry{}, sql.ErrNoRows
	}
	return e, nil
}

func (m *mockOutboxProcessorStore) Save(_ context.Context, e domain.Entry) error {
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxProcessorStore) ListPending(_ context.Context, limit int) ([]domain.Entry, error) {
	var out []domain.Entry
	for _, e := range m.entries {
		if e.Status == domain.StatusPending || e.Status == domain.StatusRetrying {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOutboxProcessorStore) ListFailed(_ context.Context, limit int) ([]domain.Entry, error) {
	var out []domain.Entry
	for _, e := range m.entries {
		if e.Status == domain.StatusFailed && e.Attempts >= e.MaxAttempts {
			out = append(out, e)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockOutboxProcessorStore) Delete(_ context.Context, id string) error {
	delete(m.entries, id)
	return nil
}

func pendingEmailEntry(id string) domain.Entry {
	return domain.Entry{
		ID:         id,
		ActionType: domain.ActionTypeFeedbackEmail,
		Payload:    `{"feedbackId":"f1","to":"ops@example.com","subject":"[Complaint] T100","html":"<p>x</p>"}`,
		Status:     domain.StatusPending, MaxAttempts: 5,
		CreatedAt: fixedNow(),
	}
}

func newProcessor(store *mockOutboxProcessorStore, sender email.Sender) *OutboxProcessor {
	p := NewOutboxProcessor(store, map[string]ActionExecutor{
		domain.ActionTypeFeedbackEmail: &FeedbackEmailExecutor{Sender: sender},
	})
	p.now = fixedNow
	return p
}

// TestProcessPending_Success tests that a pending entry is delivered and
// marked done with the provider message ID.
func TestProcessPending_Success(t *testing.T) {
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{
		"o1": pendingEmailEntry("o1"),
	}}
	sender := &mockSender{}
	p := newProcessor(store, sender)

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	got := store.entries["o1"]
	if got.Status != domain.StatusDone {
		t.Errorf("status = %s, want done", got.Status)
	}
	if got.ExternalID != "msg-1" {
		t.Errorf("external_id = %q, want msg-1", got.ExternalID)
	}
	if len(sender.requests) != 1 || sender.requests[0].To[0] != "ops@example.com" {
		t.Errorf("unexpected sends: %+v", sender.requests)
	}
}

// TestProcessPending_FailureRecordsAttempt tests that a failing send keeps
// the entry retryable with the error recorded.
func TestProcessPending_FailureRecordsAttempt(t *testing.T) {
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{
		"o1": pendingEmailEntry("o1"),
	}}
	sender := &mockSender{err: errors.New("provider down")}
	p := newProcessor(store, sender)

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	got := store.entries["o1"]
	if got.Status != domain.StatusRetrying {
		t.Errorf("status = %s, want retrying", got.Status)
	}
	if got.Attempts != 1 || got.ErrorMessage != "provider down" {
		t.Errorf("unexpected entry: %+v", got)
	}
}

// TestProcessPending_RespectsBackoff tests that a recently attempted entry
// is skipped.
func TestProcessPending_RespectsBackoff(t *testing.T) {
	entry := pendingEmailEntry("o1")
	entry.Status = domain.StatusRetrying
	entry.Attempts = 2
	entry.LastAttemptedAt = fixedNow().Add(-time.Second)
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{"o1": entry}}
	sender := &mockSender{}
	p := newProcessor(store, sender)

	if err := p.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(sender.requests) != 0 {
		t.Errorf("sends = %d, want 0", len(sender.requests))
	}
	if store.entries["o1"].Attempts != 2 {
		t.Errorf("attempts = %d, want 2", store.entries["o1"].Attempts)
	}
}

// TestProcessSingle_TerminalRejected tests that admin retry refuses
// terminal entries.
func TestProcessSingle_TerminalRejected(t *testing.T) {
	entry := pendingEmailEntry("o1")
	entry.Status = domain.StatusAbandoned
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{"o1": entry}}
	p := newProcessor(store, &mockSender{})

	if err := p.ProcessSingle(context.Background(), "o1"); err == nil {
		t.Error("expected error for terminal entry")
	}
}

// TestProcessSingle_IgnoresBackoff tests that admin retry runs immediately.
func TestProcessSingle_IgnoresBackoff(t *testing.T) {
	entry := pendingEmailEntry("o1")
	entry.Status = domain.StatusRetrying
	entry.Attempts = 2
	entry.LastAttemptedAt = fixedNow().Add(-time.Second)
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{"o1": entry}}
	sender := &mockSender{}
	p := newProcessor(store, sender)

	if err := p.ProcessSingle(context.Background(), "o1"); err != nil {
		t.Fatalf("process single: %v", err)
	}
	if len(sender.requests) != 1 {
		t.Errorf("sends = %d, want 1", len(sender.requests))
	}
	if store.entries["o1"].Status != domain.StatusDone {
		t.Errorf("status = %s, want done", store.entries["o1"].Status)
	}
}

// TestAbandonEntry tests the admin abandon path.
func TestAbandonEntry(t *testing.T) {
	store := &mockOutboxProcessorStore{entries: map[string]domain.Entry{
		"o1": pendingEmailEntry("o1"),
	}}
	p := newProcessor(store, &mockSender{})

	if err := p.AbandonEntry(context.Background(), "o1"); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if store.entries["o1"].Status != domain.StatusAbandoned {
		t.Errorf("status = %s, want abandoned", store.entries["o1"].Status)
	}
}

// TestFeedbackEmailExecutor_BadPayload tests that malformed payloads fail
// without sending.
func TestFeedbackEmailExecutor_BadPayload(t *testing.T) {
	sender := &mockSender{}
	e := &FeedbackEmailExecutor{Sender: sender}

	if _, err := e.Execute(context.Background(), "not-json"); err == nil {
		t.Error("expected unmarshal error")
	}
	if len(sender.requests) != 0 {
		t.Errorf("sends = %d, want 0", len(sender.requests))
	}
}
