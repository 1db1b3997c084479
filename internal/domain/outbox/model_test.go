package outbox

import (
	"errors"
	"testing"
	"time"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func entry() Entry {
	return Entry{
		ID:          "o1",
		ActionType:  ActionTypeFeedbackEmail,
		Payload:     `{"to":"x"}`,
		Status:      StatusPending,
		MaxAttempts: 3,
		CreatedAt:   now,
	}
}

// TestValidate tests required fields and the MaxAttempts default.
func TestValidate(t *testing.T) {
	e := entry()
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.ActionType = ""
	if err := e.Validate(); err != ErrEmptyActionType {
		t.Errorf("expected ErrEmptyActionType, got %v", err)
	}
	e = entry()
	e.MaxAttempts = 0
	if err := e.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.MaxAttempts != 5 {
		t.Errorf("MaxAttempts default = %d, want 5", e.MaxAttempts)
	}
}

// TestRetryLifecycle walks an entry through attempts to terminal failure.
func TestRetryLifecycle(t *testing.T) {
	e := entry()
	if !e.CanRetry() {
		t.Fatal("fresh pending entry should be retryable")
	}
	for i := 0; i < 3; i++ {
		e.MarkAttempt(now.Add(time.Duration(i) * time.Minute))
		e.MarkFailed(errors.New("provider down"))
	}
	if e.Status != StatusFailed {
		t.Errorf("status = %s, want failed", e.Status)
	}
	if e.CanRetry() {
		t.Error("exhausted entry should not be retryable")
	}
	if !e.IsTerminal() {
		t.Error("exhausted failed entry should be terminal")
	}
}

// TestMarkSuccess tests terminal success state.
func TestMarkSuccess(t *testing.T) {
	e := entry()
	e.MarkAttempt(now)
	e.MarkSuccess("msg-123")
	if e.Status != StatusDone || e.ExternalID != "msg-123" || e.ErrorMessage != "" {
		t.Errorf("unexpected entry after success: %+v", e)
	}
	if !e.IsTerminal() {
		t.Error("done entry should be terminal")
	}
}

// TestNextRetryDelay tests exponential backoff with cap.
func TestNextRetryDelay(t *testing.T) {
	e := entry()
	e.Attempts = 1
	if got := e.NextRetryDelay(30*time.Second, time.Hour); got != time.Minute {
		t.Errorf("delay = %v, want 1m", got)
	}
	e.Attempts = 10
	if got := e.NextRetryDelay(30*time.Second, time.Hour); got != time.Hour {
		t.Errorf("delay = %v, want cap 1h", got)
	}
}
