package adminuser

import (
	"context"
	"time"
)

// Store defines persistence for the admin membership list.
type Store interface {
	IsMember(ctx context.Context, accountID string) (bool, error)
	Add(ctx context.Context, accountID string, createdAt time.Time) error
}
