package account

import (
	"context"

	domain "primeportal/internal/domain/account"
)

// Store defines persistence for accounts.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
}
