package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"time"

	"primeportal/internal/adapters/email"
	"primeportal/internal/domain/feedback"
	outboxDomain "primeportal/internal/domain/outbox"
)

// FeedbackStoreForSubmit defines the store interface needed by SubmitFeedback.
type FeedbackStoreForSubmit interface {
	Save(ctx context.Context, f feedback.Feedback) error
}

// OutboxStoreForSubmit defines the outbox interface needed by SubmitFeedback.
type OutboxStoreForSubmit interface {
	Save(ctx context.Context, e outboxDomain.Entry) error
}

// SubmitFeedbackInput carries input for the feedback orchestrator.
type SubmitFeedbackInput struct {
	TCode        string // taken from the session principal, not the request body
	Kind         string
	Subject      string
	Message      string
	ContactEmail string
}

// SubmitFeedbackResult carries the result of a feedback submission.
type SubmitFeedbackResult struct {
	FeedbackID string
	EmailSent  bool
	Notice     string // user-facing note when notification is delayed
}

// SubmitFeedbackDeps holds dependencies for SubmitFeedback.
type SubmitFeedbackDeps struct {
	FeedbackStore FeedbackStoreForSubmit
	OutboxStore   OutboxStoreForSubmit
	Sender        email.Sender
	NotifyTo      string // ops inbox for feedback notifications
	GenerateID    func() string
	Now           func() time.Time
}

// ExecuteSubmitFeedback stores a feedback row, then makes a best-effort
// attempt to notify the ops inbox. A failed send parks an outbox entry for
// background retry; the submission itself has already succeeded.
// PRE: Input TCode comes from an authenticated client session
// POST: Feedback row persisted; email sent or parked for retry
// INVARIANT: Email failure never fails the submission
func ExecuteSubmitFeedback(ctx context.Context, input SubmitFeedbackInput, deps SubmitFeedbackDeps) (SubmitFeedbackResult, error) {
	f := feedback.Feedback{
		ID:           deps.GenerateID(),
		TCode:        input.TCode,
		Kind:         input.Kind,
		Subject:      input.Subject,
		Message:      input.Message,
		ContactEmail: input.ContactEmail,
		CreatedAt:    deps.Now(),
	}
	if err := f.Validate(); err != nil {
		return SubmitFeedbackResult{}, err
	}
	if err := deps.FeedbackStore.Save(ctx, f); err != nil {
		return SubmitFeedbackResult{}, err
	}

	slog.Info("feedback_event", "event", "feedback_submitted", "feedback_id", f.ID, "t_code", f.TCode, "kind", f.Kind)

	req := buildFeedbackEmail(f, deps.NotifyTo)
	if _, err := deps.Sender.Send(ctx, req); err != nil {
		slog.Warn("feedback_event", "event", "notify_failed", "feedback_id", f.ID, "error", err)
		parkFeedbackEmail(ctx, f, deps)
		return SubmitFeedbackResult{
			FeedbackID: f.ID,
			EmailSent:  false,
			Notice:     "Your feedback was recorded. The notification email is delayed and will be retried.",
		}, nil
	}

	return SubmitFeedbackResult{FeedbackID: f.ID, EmailSent: true}, nil
}

// FeedbackEmailPayload is the JSON structure parked in the outbox when an
// inline send fails.
type FeedbackEmailPayload struct {
	FeedbackID string `json:"feedbackId"`
	To         string `json:"to"`
	Subject    string `json:"subject"`
	HTML       string `json:"html"`
	ReplyTo    string `json:"replyTo,omitempty"`
}

// parkFeedbackEmail writes an outbox entry so the background worker can
// retry the notification. Park failure is logged and swallowed.
func parkFeedbackEmail(ctx context.Context, f feedback.Feedback, deps SubmitFeedbackDeps) {
	req := buildFeedbackEmail(f, deps.NotifyTo)
	payload, err := json.Marshal(FeedbackEmailPayload{
		FeedbackID: f.ID,
		To:         deps.NotifyTo,
		Subject:    req.Subject,
		HTML:       req.HTML,
		ReplyTo:    req.ReplyTo,
	})
	if err != nil {
		slog.Error("feedback_event", "event", "outbox_marshal_failed", "feedback_id", f.ID, "error", err)
		return
	}

	entry := outboxDomain.Entry{
		ID:          deps.GenerateID(),
		ActionType:  outboxDomain.ActionTypeFeedbackEmail,
		Payload:     string(payload),
		Status:      outboxDomain.StatusPending,
		MaxAttempts: 5,
		CreatedAt:   deps.Now(),
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		slog.Error("feedback_event", "event", "outbox_park_failed", "feedback_id", f.ID, "error", err)
		return
	}
	slog.Info("feedback_event", "event", "notify_parked", "feedback_id", f.ID, "entry_id", entry.ID)
}

// buildFeedbackEmail renders the ops notification for one submission.
func buildFeedbackEmail(f feedback.Feedback, to string) email.SendRequest {
	subject := fmt.Sprintf("[%s] %s", f.KindLabel(), f.TCode)
	if f.Subject != "" {
		subject = fmt.Sprintf("[%s] %s: %s", f.KindLabel(), f.TCode, f.Subject)
	}

	body := fmt.Sprintf(
		"<h2>New %s</h2><p><strong>Access code:</strong> %s</p><p><strong>Message:</strong></p><p>%s</p>",
		html.EscapeString(f.KindLabel()), html.EscapeString(f.TCode), html.EscapeString(f.Message))
	if f.ContactEmail != "" {
		body += fmt.Sprintf("<p><strong>Contact:</strong> %s</p>", html.EscapeString(f.ContactEmail))
	}

	return email.SendRequest{
		To:      []string{to},
		Subject: subject,
		HTML:    body,
		ReplyTo: f.ContactEmail,
	}
}
