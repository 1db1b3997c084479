package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"primeportal/internal/adapters/http/middleware"
	"primeportal/internal/application/orchestrators"
	"primeportal/internal/application/projections"
	"primeportal/internal/domain/event"
	"primeportal/internal/domain/feedback"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// maxListLimit caps client-supplied list limits.
const maxListLimit = 50

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// limitParam reads a ?limit=N query parameter, falling back to def and
// clamping to maxLimit.
func limitParam(r *http.Request, def, maxLimit int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// --- Client session ---

// handleClientLogin handles POST /api/client/login
func handleClientLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		TCode string `json:"tCode"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteAuthenticateClient(r.Context(),
		orchestrators.AuthenticateClientInput{TCode: input.TCode},
		orchestrators.AuthenticateClientDeps{
			CodeStore:    stores.CodeStore,
			SessionStore: stores.ClientSessionStore,
			GenerateID:   generateID,
			Now:          timeNow,
		})
	if err != nil {
		if errors.Is(err, orchestrators.ErrInvalidTCode) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	token, err := sessions.CreateClient(result.TCode, result.CompanyName)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, middleware.ClientCookieName, token)

	writeJSON(w, http.StatusOK, map[string]string{
		"tCode":       result.TCode,
		"companyName": result.CompanyName,
	})
}

// handleClientLogout handles POST /api/client/logout
func handleClientLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(middleware.ClientCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, middleware.ClientCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// --- Portal reads ---

type announcementView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ContentHTML string    `json:"contentHtml"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
}

// handlePortalAnnouncements handles GET /api/portal/announcements
func handlePortalAnnouncements(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := limitParam(r, projections.BannerAnnouncementLimit, maxListLimit)
	views, err := projections.QueryGetBannerAnnouncements(r.Context(), limit, stores.AnnouncementStore)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]announcementView, 0, len(views))
	for _, v := range views {
		out = append(out, announcementView{
			ID:          v.Announcement.ID,
			Title:       v.Announcement.Title,
			ContentHTML: v.ContentHTML,
			Priority:    v.Announcement.Priority,
			CreatedAt:   v.Announcement.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcements": out})
}

type eventView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
}

func toEventView(e event.Event) eventView {
	v := eventView{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
	}
	if !e.EndsAt.IsZero() {
		ends := e.EndsAt
		v.EndsAt = &ends
	}
	return v
}

// handlePortalEvents handles GET /api/portal/events
func handlePortalEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := limitParam(r, projections.UpcomingEventLimit, maxListLimit)
	events, err := projections.QueryGetUpcomingEvents(r.Context(), limit, stores.EventStore)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]eventView, 0, len(events))
	for _, e := range events {
		out = append(out, toEventView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

// handlePortalCalendar handles GET /api/portal/calendar
func handlePortalCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	v, err := orchestrators.GetCalendarSetting(r.Context(), stores.SettingStore)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"calendarId":    v.Value,
		"schedulingUrl": v.SchedulingURL(),
	})
}

// --- Feedback ---

// handlePortalFeedback handles POST /api/portal/feedback
func handlePortalFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, _ := middleware.GetClientSession(r.Context())

	var input struct {
		Kind         string `json:"kind"`
		Subject      string `json:"subject"`
		Message      string `json:"message"`
		ContactEmail string `json:"contactEmail"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteSubmitFeedback(r.Context(),
		orchestrators.SubmitFeedbackInput{
			TCode:        session.TCode,
			Kind:         input.Kind,
			Subject:      input.Subject,
			Message:      input.Message,
			ContactEmail: input.ContactEmail,
		},
		orchestrators.SubmitFeedbackDeps{
			FeedbackStore: stores.FeedbackStore,
			OutboxStore:   stores.OutboxStore,
			Sender:        emailSender,
			NotifyTo:      feedbackNotifyTo,
			GenerateID:    generateID,
			Now:           timeNow,
		})
	if err != nil {
		switch {
		case errors.Is(err, feedback.ErrEmptyTCode),
			errors.Is(err, feedback.ErrEmptyMessage),
			errors.Is(err, feedback.ErrInvalidKind),
			errors.Is(err, feedback.ErrSubjectTooLong),
			errors.Is(err, feedback.ErrMessageTooLong),
			errors.Is(err, feedback.ErrInvalidEmail),
			errors.Is(err, feedback.ErrEmailTooLong):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":          result.FeedbackID,
		"emailQueued": result.EmailSent,
		"notice":      result.Notice,
	})
}
