package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"primeportal/internal/adapters/http/middleware"
	"primeportal/internal/application/orchestrators"
	"primeportal/internal/application/projections"
	"primeportal/internal/domain/announcement"
	"primeportal/internal/domain/code"
	"primeportal/internal/domain/event"
	"primeportal/internal/domain/feedback"
	outboxDomain "primeportal/internal/domain/outbox"
	"primeportal/internal/domain/setting"
)

// pathIDAndAction splits "/api/admin/codes/abc/toggle" into ("abc", "toggle").
// The action is empty for plain "/api/admin/codes/abc".
func pathIDAndAction(path, prefix string) (string, string) {
	rest := strings.TrimPrefix(path, prefix)
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}
	return id, action
}

// notFoundOr translates a store miss into 404 and anything else into 500.
func notFoundOr(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	internalError(w, err)
}

// --- Admin session ---

// handleAdminLogin handles POST /api/admin/login
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteAdminLogin(r.Context(),
		orchestrators.AdminLoginInput{Email: input.Email, Password: input.Password},
		orchestrators.AdminLoginDeps{
			AccountStore:   stores.AccountStore,
			AdminUserStore: stores.AdminUserStore,
		})
	if err != nil {
		switch {
		case errors.Is(err, orchestrators.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, orchestrators.ErrAccountLocked):
			writeError(w, http.StatusForbidden, err.Error())
		case errors.Is(err, orchestrators.ErrNotAuthorized):
			// Valid credentials, wrong audience. No session is left behind.
			writeError(w, http.StatusForbidden, err.Error())
		default:
			internalError(w, err)
		}
		return
	}

	token, err := sessions.CreateAdmin(result.AccountID, result.Email)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, middleware.AdminCookieName, token)

	writeJSON(w, http.StatusOK, map[string]string{"email": result.Email})
}

// handleAdminLogout handles POST /api/admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if cookie, err := r.Cookie(middleware.AdminCookieName); err == nil {
		sessions.Delete(cookie.Value)
	}
	middleware.ClearSessionCookie(w, middleware.AdminCookieName)
	w.WriteHeader(http.StatusNoContent)
}

// --- Dashboard ---

// handleAdminDashboard handles GET /api/admin/dashboard
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result := projections.QueryGetDashboard(r.Context(), projections.GetDashboardDeps{
		CodeStore:          stores.CodeStore,
		AnnouncementStore:  stores.AnnouncementStore,
		EventStore:         stores.EventStore,
		FeedbackStore:      stores.FeedbackStore,
		ClientSessionStore: stores.ClientSessionStore,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"codes":         result.Codes,
		"announcements": result.Announcements,
		"events":        result.Events,
		"feedback":      result.Feedback,
		"recentLogins":  result.RecentLogins,
		"activeCodes":   result.ActiveCodes,
		"feedbackTotal": result.FeedbackTotal,
		"sectionErrors": result.SectionErrors,
	})
}

// --- Authorized codes ---

// handleAdminCodes handles GET (list) and POST (create) for /api/admin/codes
func handleAdminCodes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		codes, err := stores.CodeStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"codes": codes})

	case "POST":
		var input struct {
			TCode       string `json:"tCode"`
			CompanyName string `json:"companyName"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		c, err := orchestrators.ExecuteCreateCode(ctx,
			orchestrators.CreateCodeInput{TCode: input.TCode, CompanyName: input.CompanyName},
			orchestrators.CreateCodeDeps{CodeStore: stores.CodeStore, GenerateID: generateID, Now: timeNow})
		if err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrDuplicateTCode):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, code.ErrEmptyTCode), errors.Is(err, code.ErrTCodeTooLong),
				errors.Is(err, code.ErrCompanyTooLong), errors.Is(err, code.ErrInvalidCharacter):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, c)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAdminCodeByID handles PUT/DELETE /api/admin/codes/{id} and
// PATCH /api/admin/codes/{id}/toggle
func handleAdminCodeByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, action := pathIDAndAction(r.URL.Path, "/api/admin/codes/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case action == "toggle" && r.Method == "PATCH":
		c, err := orchestrators.ExecuteToggleCode(ctx, id,
			orchestrators.ToggleCodeDeps{CodeStore: stores.CodeStore})
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)

	case action == "" && r.Method == "PUT":
		var input struct {
			TCode       string `json:"tCode"`
			CompanyName string `json:"companyName"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		c, err := orchestrators.ExecuteUpdateCode(ctx,
			orchestrators.UpdateCodeInput{CodeID: id, TCode: input.TCode, CompanyName: input.CompanyName},
			orchestrators.UpdateCodeDeps{CodeStore: stores.CodeStore})
		if err != nil {
			switch {
			case errors.Is(err, orchestrators.ErrDuplicateTCode):
				writeError(w, http.StatusConflict, err.Error())
			case errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, "not found")
			case errors.Is(err, code.ErrEmptyTCode), errors.Is(err, code.ErrTCodeTooLong),
				errors.Is(err, code.ErrCompanyTooLong), errors.Is(err, code.ErrInvalidCharacter):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusOK, c)

	case action == "" && r.Method == "DELETE":
		if err := orchestrators.ExecuteDeleteCode(ctx, id,
			orchestrators.DeleteCodeDeps{CodeStore: stores.CodeStore}); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- Announcements ---

// handleAdminAnnouncements handles GET (list) and POST (create) for /api/admin/announcements
func handleAdminAnnouncements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		items, err := stores.AnnouncementStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"announcements": items})

	case "POST":
		var input struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Priority int    `json:"priority"`
			Active   bool   `json:"active"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		a, err := orchestrators.ExecuteCreateAnnouncement(ctx,
			orchestrators.CreateAnnouncementInput{
				Title: input.Title, Content: input.Content,
				Priority: input.Priority, Active: input.Active,
			},
			orchestrators.CreateAnnouncementDeps{
				AnnouncementStore: stores.AnnouncementStore,
				GenerateID:        generateID, Now: timeNow,
			})
		if err != nil {
			switch {
			case errors.Is(err, announcement.ErrEmptyTitle), errors.Is(err, announcement.ErrEmptyContent),
				errors.Is(err, announcement.ErrTitleTooLong), errors.Is(err, announcement.ErrContentTooLong):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, a)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAdminAnnouncementByID handles PUT/DELETE /api/admin/announcements/{id}
// and PATCH /api/admin/announcements/{id}/toggle
func handleAdminAnnouncementByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, action := pathIDAndAction(r.URL.Path, "/api/admin/announcements/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case action == "toggle" && r.Method == "PATCH":
		a, err := orchestrators.ExecuteToggleAnnouncement(ctx, id,
			orchestrators.ToggleAnnouncementDeps{AnnouncementStore: stores.AnnouncementStore, Now: timeNow})
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case action == "" && r.Method == "PUT":
		var input struct {
			Title    string `json:"title"`
			Content  string `json:"content"`
			Priority int    `json:"priority"`
			Active   bool   `json:"active"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		a, err := orchestrators.ExecuteEditAnnouncement(ctx,
			orchestrators.EditAnnouncementInput{
				AnnouncementID: id, Title: input.Title, Content: input.Content,
				Priority: input.Priority, Active: input.Active,
			},
			orchestrators.EditAnnouncementDeps{AnnouncementStore: stores.AnnouncementStore, Now: timeNow})
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, "not found")
			case errors.Is(err, announcement.ErrEmptyTitle), errors.Is(err, announcement.ErrEmptyContent),
				errors.Is(err, announcement.ErrTitleTooLong), errors.Is(err, announcement.ErrContentTooLong):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusOK, a)

	case action == "" && r.Method == "DELETE":
		if err := orchestrators.ExecuteDeleteAnnouncement(ctx, id,
			orchestrators.DeleteAnnouncementDeps{AnnouncementStore: stores.AnnouncementStore}); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- Events ---

type eventInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    time.Time  `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
	Active      bool       `json:"active"`
}

func (in eventInput) endsAt() time.Time {
	if in.EndsAt == nil {
		return time.Time{}
	}
	return *in.EndsAt
}

// handleAdminEvents handles GET (list) and POST (create) for /api/admin/events
func handleAdminEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		items, err := stores.EventStore.List(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": items})

	case "POST":
		var input eventInput
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		e, err := orchestrators.ExecuteCreateEvent(ctx,
			orchestrators.CreateEventInput{
				Title: input.Title, Description: input.Description, Location: input.Location,
				StartsAt: input.StartsAt, EndsAt: input.endsAt(), Active: input.Active,
			},
			orchestrators.CreateEventDeps{EventStore: stores.EventStore, GenerateID: generateID, Now: timeNow})
		if err != nil {
			switch {
			case errors.Is(err, event.ErrEmptyTitle), errors.Is(err, event.ErrMissingStart),
				errors.Is(err, event.ErrEndBeforeStart), errors.Is(err, event.ErrTitleTooLong),
				errors.Is(err, event.ErrDescTooLong), errors.Is(err, event.ErrLocationTooLong):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusCreated, e)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleAdminEventByID handles PUT/DELETE /api/admin/events/{id} and
// PATCH /api/admin/events/{id}/toggle
func handleAdminEventByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, action := pathIDAndAction(r.URL.Path, "/api/admin/events/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch {
	case action == "toggle" && r.Method == "PATCH":
		e, err := orchestrators.ExecuteToggleEvent(ctx, id,
			orchestrators.ToggleEventDeps{EventStore: stores.EventStore})
		if err != nil {
			notFoundOr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)

	case action == "" && r.Method == "PUT":
		var input eventInput
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		e, err := orchestrators.ExecuteEditEvent(ctx,
			orchestrators.EditEventInput{
				EventID: id, Title: input.Title, Description: input.Description,
				Location: input.Location, StartsAt: input.StartsAt,
				EndsAt: input.endsAt(), Active: input.Active,
			},
			orchestrators.EditEventDeps{EventStore: stores.EventStore})
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				writeError(w, http.StatusNotFound, "not found")
			case errors.Is(err, event.ErrEmptyTitle), errors.Is(err, event.ErrMissingStart),
				errors.Is(err, event.ErrEndBeforeStart), errors.Is(err, event.ErrTitleTooLong),
				errors.Is(err, event.ErrDescTooLong), errors.Is(err, event.ErrLocationTooLong):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				internalError(w, err)
			}
			return
		}
		writeJSON(w, http.StatusOK, e)

	case action == "" && r.Method == "DELETE":
		if err := orchestrators.ExecuteDeleteEvent(ctx, id,
			orchestrators.DeleteEventDeps{EventStore: stores.EventStore}); err != nil {
			internalError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- Feedback ---

type feedbackView struct {
	ID           string    `json:"id"`
	TCode        string    `json:"tCode"`
	Kind         string    `json:"kind"`
	KindLabel    string    `json:"kindLabel"`
	Subject      string    `json:"subject,omitempty"`
	Message      string    `json:"message"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toFeedbackView(f feedback.Feedback) feedbackView {
	return feedbackView{
		ID: f.ID, TCode: f.TCode, Kind: f.Kind, KindLabel: f.KindLabel(),
		Subject: f.Subject, Message: f.Message, ContactEmail: f.ContactEmail,
		CreatedAt: f.CreatedAt,
	}
}

// handleAdminFeedback handles GET /api/admin/feedback
func handleAdminFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	items, err := stores.FeedbackStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]feedbackView, 0, len(items))
	for _, f := range items {
		out = append(out, toFeedbackView(f))
	}
	writeJSON(w, http.StatusOK, map[string]any{"feedback": out})
}

// handleAdminFeedbackByID handles DELETE /api/admin/feedback/{id}
func handleAdminFeedbackByID(w http.ResponseWriter, r *http.Request) {
	id, action := pathIDAndAction(r.URL.Path, "/api/admin/feedback/")
	if id == "" || action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != "DELETE" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := stores.FeedbackStore.Delete(r.Context(), id); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Settings ---

// handleAdminSettingByKey handles GET and PUT for /api/admin/settings/{key}.
// google_calendar_id is the only key the console knows about.
func handleAdminSettingByKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, rest := pathIDAndAction(r.URL.Path, "/api/admin/settings/")
	if key != setting.KeyGoogleCalendarID || rest != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case "GET":
		v, err := orchestrators.GetCalendarSetting(ctx, stores.SettingStore)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"key":           v.Key,
			"value":         v.Value,
			"schedulingUrl": v.SchedulingURL(),
			"updatedAt":     v.UpdatedAt,
		})

	case "PUT":
		var input struct {
			Value string `json:"value"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		v, err := orchestrators.ExecuteUpdateCalendarID(ctx,
			orchestrators.UpdateCalendarIDInput{CalendarID: input.Value},
			orchestrators.UpdateCalendarIDDeps{SettingStore: stores.SettingStore, Now: timeNow})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"key":           v.Key,
			"value":         v.Value,
			"schedulingUrl": v.SchedulingURL(),
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// --- Outbox ---

type outboxView struct {
	ID              string     `json:"id"`
	ActionType      string     `json:"actionType"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"maxAttempts"`
	LastAttemptedAt *time.Time `json:"lastAttemptedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	ErrorMessage    string     `json:"errorMessage,omitempty"`
}

func toOutboxView(e outboxDomain.Entry) outboxView {
	v := outboxView{
		ID: e.ID, ActionType: e.ActionType, Status: e.Status,
		Attempts: e.Attempts, MaxAttempts: e.MaxAttempts,
		CreatedAt: e.CreatedAt, ErrorMessage: e.ErrorMessage,
	}
	if !e.LastAttemptedAt.IsZero() {
		last := e.LastAttemptedAt
		v.LastAttemptedAt = &last
	}
	return v
}

// handleAdminOutbox handles GET /api/admin/outbox
func handleAdminOutbox(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	pending, err := stores.OutboxStore.ListPending(ctx, 50)
	if err != nil {
		internalError(w, err)
		return
	}
	failed, err := stores.OutboxStore.ListFailed(ctx, 50)
	if err != nil {
		internalError(w, err)
		return
	}

	toViews := func(entries []outboxDomain.Entry) []outboxView {
		out := make([]outboxView, 0, len(entries))
		for _, e := range entries {
			out = append(out, toOutboxView(e))
		}
		return out
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pending": toViews(pending),
		"failed":  toViews(failed),
	})
}

// handleAdminOutboxByID handles POST /api/admin/outbox/{id}/retry and
// POST /api/admin/outbox/{id}/abandon
func handleAdminOutboxByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if outboxProcessor == nil {
		writeError(w, http.StatusServiceUnavailable, "outbox processing is not configured")
		return
	}

	id, action := pathIDAndAction(r.URL.Path, "/api/admin/outbox/")
	if id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	ctx := r.Context()

	switch action {
	case "retry":
		if err := outboxProcessor.ProcessSingle(ctx, id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	case "abandon":
		if err := outboxProcessor.AbandonEntry(ctx, id); err != nil {
			notFoundOr(w, err)
			return
		}
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	entry, err := stores.OutboxStore.GetByID(ctx, id)
	if err != nil {
		notFoundOr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOutboxView(entry))
}
