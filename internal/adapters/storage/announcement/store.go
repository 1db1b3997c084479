package announcement

import (
	"context"

	domain "primeportal/internal/domain/announcement"
)

// Store defines persistence for announcements.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Announcement, error)
	Save(ctx context.Context, value domain.Announcement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Announcement, error)
	ListActive(ctx context.Context, limit int) ([]domain.Announcement, error)
}
