package web

import (
	"net/http"

	"primeportal/internal/adapters/http/middleware"
)

// registerRoutes wires the JSON API. The Auth middleware has already placed
// any principals in context; per-route gates enforce them.
func registerRoutes(mux *http.ServeMux) {
	// Client session
	mux.HandleFunc("/api/client/login", handleClientLogin)
	mux.HandleFunc("/api/client/logout", handleClientLogout)

	// Portal reads and feedback (client session required)
	mux.Handle("/api/portal/announcements", middleware.RequireClient(http.HandlerFunc(handlePortalAnnouncements)))
	mux.Handle("/api/portal/events", middleware.RequireClient(http.HandlerFunc(handlePortalEvents)))
	mux.Handle("/api/portal/calendar", middleware.RequireClient(http.HandlerFunc(handlePortalCalendar)))
	mux.Handle("/api/portal/feedback", middleware.RequireClient(http.HandlerFunc(handlePortalFeedback)))

	// Admin session
	mux.HandleFunc("/api/admin/login", handleAdminLogin)
	mux.HandleFunc("/api/admin/logout", handleAdminLogout)

	// Admin console (admin session required)
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}
	mux.Handle("/api/admin/dashboard", admin(handleAdminDashboard))
	mux.Handle("/api/admin/codes", admin(handleAdminCodes))
	mux.Handle("/api/admin/codes/", admin(handleAdminCodeByID))
	mux.Handle("/api/admin/announcements", admin(handleAdminAnnouncements))
	mux.Handle("/api/admin/announcements/", admin(handleAdminAnnouncementByID))
	mux.Handle("/api/admin/events", admin(handleAdminEvents))
	mux.Handle("/api/admin/events/", admin(handleAdminEventByID))
	mux.Handle("/api/admin/feedback", admin(handleAdminFeedback))
	mux.Handle("/api/admin/feedback/", admin(handleAdminFeedbackByID))
	mux.Handle("/api/admin/settings/", admin(handleAdminSettingByKey))
	mux.Handle("/api/admin/outbox", admin(handleAdminOutbox))
	mux.Handle("/api/admin/outbox/", admin(handleAdminOutboxByID))
}
