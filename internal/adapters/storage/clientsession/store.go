package clientsession

import (
	"context"

	domain "primeportal/internal/domain/clientsession"
)

// Store persists client login audit records.
type Store interface {
	Save(ctx context.Context, value domain.Session) error
	ListRecent(ctx context.Context, limit int) ([]domain.Session, error)
}
