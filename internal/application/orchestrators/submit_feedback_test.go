package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"primeportal/internal/adapters/email"
	"primeportal/internal/domain/feedback"
	outboxDomain "primeportal/internal/domain/outbox"
)

type mockFeedbackStore struct {
	saved []feedback.Feedback
}

func (m *mockFeedbackStore) Save(_ context.Context, f feedback.Feedback) error {
	m.saved = append(m.saved, f)
	return nil
}

type mockOutboxStore struct {
	saved []outboxDomain.Entry
}

func (m *mockOutboxStore) Save(_ context.Context, e outboxDomain.Entry) error {
	m.saved = append(m.saved, e)
	return nil
}

type mockSender struct {
	requests []email.SendRequest
	err      error
}

func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	return email.SendResult{MessageID: "msg-1"}, nil
}

func submitDeps(fs *mockFeedbackStore, os *mockOutboxStore, sender *mockSender) SubmitFeedbackDeps {
	return SubmitFeedbackDeps{
		FeedbackStore: fs,
		OutboxStore:   os,
		Sender:        sender,
		NotifyTo:      "ops@example.com",
		GenerateID:    fixedID(),
		Now:           fixedNow,
	}
}

// TestSubmitFeedback_SendsEmail tests the happy path: row saved, email sent,
// no outbox entry.
func TestSubmitFeedback_SendsEmail(t *testing.T) {
	fs := &mockFeedbackStore{}
	os := &mockOutboxStore{}
	sender := &mockSender{}

	result, err := ExecuteSubmitFeedback(context.Background(), SubmitFeedbackInput{
		TCode: "T100", Kind: "complaint", Subject: "Gate", Message: "Gate was broken.",
		ContactEmail: "sam@acme.example",
	}, submitDeps(fs, os, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.EmailSent || result.Notice != "" {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(fs.saved) != 1 {
		t.Fatalf("feedback rows = %d, want 1", len(fs.saved))
	}
	if len(os.saved) != 0 {
		t.Errorf("outbox rows = %d, want 0", len(os.saved))
	}
	if len(sender.requests) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.requests))
	}
	req := sender.requests[0]
	if req.To[0] != "ops@example.com" || req.ReplyTo != "sam@acme.example" {
		t.Errorf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.Subject, "Complaint") || !strings.Contains(req.Subject, "T100") {
		t.Errorf("subject = %q", req.Subject)
	}
}

// TestSubmitFeedback_SendFailureParksOutbox tests that a failed send still
// succeeds but returns a notice and parks a retry entry.
func TestSubmitFeedback_SendFailureParksOutbox(t *testing.T) {
	fs := &mockFeedbackStore{}
	os := &mockOutboxStore{}
	sender := &mockSender{err: errors.New("provider down")}

	result, err := ExecuteSubmitFeedback(context.Background(), SubmitFeedbackInput{
		TCode: "T100", Kind: "compliment", Message: "Great service.",
	}, submitDeps(fs, os, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.EmailSent {
		t.Error("expected EmailSent = false")
	}
	if result.Notice == "" {
		t.Error("expected a user-facing notice")
	}
	if len(fs.saved) != 1 {
		t.Errorf("feedback rows = %d, want 1", len(fs.saved))
	}
	if len(os.saved) != 1 {
		t.Fatalf("outbox rows = %d, want 1", len(os.saved))
	}
	entry := os.saved[0]
	if entry.ActionType != outboxDomain.ActionTypeFeedbackEmail || entry.Status != outboxDomain.StatusPending {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if !strings.Contains(entry.Payload, result.FeedbackID) {
		t.Errorf("payload missing feedback ID: %s", entry.Payload)
	}
}

// TestSubmitFeedback_InvalidKind tests that validation rejects before any
// side effects.
func TestSubmitFeedback_InvalidKind(t *testing.T) {
	fs := &mockFeedbackStore{}
	os := &mockOutboxStore{}
	sender := &mockSender{}

	_, err := ExecuteSubmitFeedback(context.Background(), SubmitFeedbackInput{
		TCode: "T100", Kind: "rant", Message: "hello",
	}, submitDeps(fs, os, sender))
	if !errors.Is(err, feedback.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got %v", err)
	}
	if len(fs.saved) != 0 || len(sender.requests) != 0 {
		t.Error("side effects after validation failure")
	}
}

// TestSubmitFeedback_EscapesHTML tests that user text is escaped in the
// notification body.
func TestSubmitFeedback_EscapesHTML(t *testing.T) {
	fs := &mockFeedbackStore{}
	os := &mockOutboxStore{}
	sender := &mockSender{}

	_, err := ExecuteSubmitFeedback(context.Background(), SubmitFeedbackInput{
		TCode: "T100", Kind: "complaint", Message: "<script>alert(1)</script>",
	}, submitDeps(fs, os, sender))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(sender.requests[0].HTML, "<script>") {
		t.Error("message HTML not escaped")
	}
}
