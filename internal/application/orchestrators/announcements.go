package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"primeportal/internal/domain/announcement"
)

// AnnouncementStoreForOrchestrator defines the store interface needed by announcement orchestrators.
type AnnouncementStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (announcement.Announcement, error)
	Save(ctx context.Context, a announcement.Announcement) error
	Delete(ctx context.Context, id string) error
}

// --- Create Announcement ---

// CreateAnnouncementInput carries input for the create announcement orchestrator.
type CreateAnnouncementInput struct {
	Title    string
	Content  string // Markdown
	Priority int
	Active   bool
}

// CreateAnnouncementDeps holds dependencies for CreateAnnouncement.
type CreateAnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	GenerateID        func() string
	Now               func() time.Time
}

// ExecuteCreateAnnouncement creates a new announcement.
// PRE: Title and Content are non-empty
// POST: Announcement created with generated ID, UpdatedAt = CreatedAt
func ExecuteCreateAnnouncement(ctx context.Context, input CreateAnnouncementInput, deps CreateAnnouncementDeps) (announcement.Announcement, error) {
	now := deps.Now()
	a := announcement.Announcement{
		ID:        deps.GenerateID(),
		Title:     input.Title,
		Content:   input.Content,
		Priority:  input.Priority,
		Active:    input.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	slog.Info("announcement_event", "event", "announcement_created", "announcement_id", a.ID, "priority", a.Priority)
	return a, nil
}

// --- Edit Announcement ---

// EditAnnouncementInput carries input for the edit announcement orchestrator.
type EditAnnouncementInput struct {
	AnnouncementID string
	Title          string
	Content        string
	Priority       int
	Active         bool
}

// EditAnnouncementDeps holds dependencies for EditAnnouncement.
type EditAnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	Now               func() time.Time
}

// ExecuteEditAnnouncement replaces the editable fields of an announcement.
// The console always submits the full form, so this is a whole-record update.
// PRE: AnnouncementID is non-empty; announcement must exist
// POST: Fields replaced, UpdatedAt set
func ExecuteEditAnnouncement(ctx context.Context, input EditAnnouncementInput, deps EditAnnouncementDeps) (announcement.Announcement, error) {
	if input.AnnouncementID == "" {
		return announcement.Announcement{}, errors.New("announcement ID is required")
	}

	a, err := deps.AnnouncementStore.GetByID(ctx, input.AnnouncementID)
	if err != nil {
		return announcement.Announcement{}, err
	}

	a.Title = input.Title
	a.Content = input.Content
	a.Priority = input.Priority
	a.Active = input.Active
	a.UpdatedAt = deps.Now()

	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	slog.Info("announcement_event", "event", "announcement_edited", "announcement_id", a.ID)
	return a, nil
}

// --- Toggle Announcement ---

// ToggleAnnouncementDeps holds dependencies for ToggleAnnouncement.
type ToggleAnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
	Now               func() time.Time
}

// ExecuteToggleAnnouncement flips the active flag on an announcement.
// PRE: announcementID is non-empty; announcement must exist
// POST: Active flag inverted, UpdatedAt set
func ExecuteToggleAnnouncement(ctx context.Context, announcementID string, deps ToggleAnnouncementDeps) (announcement.Announcement, error) {
	if announcementID == "" {
		return announcement.Announcement{}, errors.New("announcement ID is required")
	}

	a, err := deps.AnnouncementStore.GetByID(ctx, announcementID)
	if err != nil {
		return announcement.Announcement{}, err
	}
	a.Toggle()
	a.UpdatedAt = deps.Now()
	if err := deps.AnnouncementStore.Save(ctx, a); err != nil {
		return announcement.Announcement{}, err
	}

	slog.Info("announcement_event", "event", "announcement_toggled", "announcement_id", a.ID, "active", a.Active)
	return a, nil
}

// --- Delete Announcement ---

// DeleteAnnouncementDeps holds dependencies for DeleteAnnouncement.
type DeleteAnnouncementDeps struct {
	AnnouncementStore AnnouncementStoreForOrchestrator
}

// ExecuteDeleteAnnouncement permanently removes an announcement.
// PRE: announcementID is non-empty
// POST: Announcement removed; already-gone is not an error
func ExecuteDeleteAnnouncement(ctx context.Context, announcementID string, deps DeleteAnnouncementDeps) error {
	if announcementID == "" {
		return errors.New("announcement ID is required")
	}
	if err := deps.AnnouncementStore.Delete(ctx, announcementID); err != nil {
		return err
	}
	slog.Info("announcement_event", "event", "announcement_deleted", "announcement_id", announcementID)
	return nil
}
