package event

import (
	"context"

	domain "primeportal/internal/domain/event"
)

// Store defines persistence for events.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Event, error)
	Save(ctx context.Context, value domain.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Event, error)
	ListActive(ctx context.Context, limit int) ([]domain.Event, error)
}
