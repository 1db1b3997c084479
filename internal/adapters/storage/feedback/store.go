package feedback

import (
	"context"

	domain "primeportal/internal/domain/feedback"
)

// Store defines persistence for feedback submissions.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Feedback, error)
	Save(ctx context.Context, value domain.Feedback) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Feedback, error)
}
