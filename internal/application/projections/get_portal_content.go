package projections

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"primeportal/internal/domain/announcement"
	"primeportal/internal/domain/event"
)

// PortalAnnouncementStore defines the announcement store interface needed by portal reads.
type PortalAnnouncementStore interface {
	ListActive(ctx context.Context, limit int) ([]announcement.Announcement, error)
}

// PortalEventStore defines the event store interface needed by portal reads.
type PortalEventStore interface {
	ListActive(ctx context.Context, limit int) ([]event.Event, error)
}

// Display limits for the portal home page.
const (
	BannerAnnouncementLimit = 3
	UpcomingEventLimit      = 5
)

// AnnouncementView pairs an announcement with its rendered HTML body.
type AnnouncementView struct {
	Announcement announcement.Announcement
	ContentHTML  string
}

// markdown is the shared renderer for announcement bodies. Raw HTML in the
// source is not rendered, so stored Markdown cannot inject markup.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// QueryGetBannerAnnouncements returns the active announcements for the
// portal banner, rendered to HTML, highest priority first.
// PRE: limit > 0, callers normally pass BannerAnnouncementLimit
// POST: Returns up to limit views in display order
func QueryGetBannerAnnouncements(ctx context.Context, limit int, store PortalAnnouncementStore) ([]AnnouncementView, error) {
	items, err := store.ListActive(ctx, limit)
	if err != nil {
		return nil, err
	}

	views := make([]AnnouncementView, 0, len(items))
	for _, a := range items {
		views = append(views, AnnouncementView{
			Announcement: a,
			ContentHTML:  renderMarkdown(a.ID, a.Content),
		})
	}
	return views, nil
}

// QueryGetUpcomingEvents returns the active events for the portal, soonest
// first.
// PRE: limit > 0, callers normally pass UpcomingEventLimit
// POST: Returns up to limit active events ordered by start time
func QueryGetUpcomingEvents(ctx context.Context, limit int, store PortalEventStore) ([]event.Event, error) {
	return store.ListActive(ctx, limit)
}

// renderMarkdown converts Markdown to HTML, falling back to the raw text on
// renderer failure.
func renderMarkdown(id, source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		slog.Warn("portal_render_failed", "announcement_id", id, "error", err)
		return source
	}
	return buf.String()
}
