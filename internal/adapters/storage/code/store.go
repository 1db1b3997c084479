package code

import (
	"context"

	domain "primeportal/internal/domain/code"
)

// Store persists AuthorizedCode state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.AuthorizedCode, error)
	GetByTCode(ctx context.Context, tCode string) (domain.AuthorizedCode, error)
	Save(ctx context.Context, value domain.AuthorizedCode) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.AuthorizedCode, error)
}
