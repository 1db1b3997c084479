package projections

import (
	"context"
	"sync"

	"primeportal/internal/domain/announcement"
	clientsession "primeportal/internal/domain/clientsession"
	"primeportal/internal/domain/code"
	"primeportal/internal/domain/event"
	"primeportal/internal/domain/feedback"
)

// DashboardCodeStore defines the code store interface needed by the dashboard projection.
type DashboardCodeStore interface {
	List(ctx context.Context) ([]code.AuthorizedCode, error)
}

// DashboardAnnouncementStore defines the announcement store interface needed by the dashboard projection.
type DashboardAnnouncementStore interface {
	List(ctx context.Context) ([]announcement.Announcement, error)
}

// DashboardEventStore defines the event store interface needed by the dashboard projection.
type DashboardEventStore interface {
	List(ctx context.Context) ([]event.Event, error)
}

// DashboardFeedbackStore defines the feedback store interface needed by the dashboard projection.
type DashboardFeedbackStore interface {
	List(ctx context.Context) ([]feedback.Feedback, error)
}

// DashboardClientSessionStore defines the audit store interface needed by the dashboard projection.
type DashboardClientSessionStore interface {
	ListRecent(ctx context.Context, limit int) ([]clientsession.Session, error)
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	CodeStore          DashboardCodeStore
	AnnouncementStore  DashboardAnnouncementStore
	EventStore         DashboardEventStore
	FeedbackStore      DashboardFeedbackStore
	ClientSessionStore DashboardClientSessionStore
}

// DashboardResult carries the output of the dashboard projection. Each
// section is independent; a failed read leaves its slice nil and records the
// error message instead of failing the whole view.
type DashboardResult struct {
	Codes         []code.AuthorizedCode
	Announcements []announcement.Announcement
	Events        []event.Event
	Feedback      []feedback.Feedback
	RecentLogins  []clientsession.Session

	// Counts for the summary cards
	ActiveCodes   int
	FeedbackTotal int

	SectionErrors map[string]string
}

const recentLoginLimit = 20

// QueryGetDashboard loads the five admin console sections concurrently.
// PRE: Caller holds an admin session
// POST: All sections loaded; per-section failures recorded, never returned
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) DashboardResult {
	result := DashboardResult{SectionErrors: map[string]string{}}

	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(section string, err error) {
		mu.Lock()
		result.SectionErrors[section] = err.Error()
		mu.Unlock()
	}

	wg.Add(5)

	go func() {
		defer wg.Done()
		codes, err := deps.CodeStore.List(ctx)
		if err != nil {
			fail("codes", err)
			return
		}
		mu.Lock()
		result.Codes = codes
		for _, c := range codes {
			if c.Active {
				result.ActiveCodes++
			}
		}
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		items, err := deps.AnnouncementStore.List(ctx)
		if err != nil {
			fail("announcements", err)
			return
		}
		mu.Lock()
		result.Announcements = items
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		items, err := deps.EventStore.List(ctx)
		if err != nil {
			fail("events", err)
			return
		}
		mu.Lock()
		result.Events = items
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		items, err := deps.FeedbackStore.List(ctx)
		if err != nil {
			fail("feedback", err)
			return
		}
		mu.Lock()
		result.Feedback = items
		result.FeedbackTotal = len(items)
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		items, err := deps.ClientSessionStore.ListRecent(ctx, recentLoginLimit)
		if err != nil {
			fail("recent_logins", err)
			return
		}
		mu.Lock()
		result.RecentLogins = items
		mu.Unlock()
	}()

	wg.Wait()
	return result
}
