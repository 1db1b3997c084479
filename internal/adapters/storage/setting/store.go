package setting

import (
	"context"

	domain "primeportal/internal/domain/setting"
)

// Store defines persistence for portal settings.
type Store interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	Upsert(ctx context.Context, value domain.Setting) error
	List(ctx context.Context) ([]domain.Setting, error)
}
