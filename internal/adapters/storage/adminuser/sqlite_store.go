package adminuser

import (
	"context"
	"time"

	"primeportal/internal/adapters/storage"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// IsMember reports whether the account is on the admin list.
// PRE: accountID is non-empty
// POST: Returns true iff a membership row exists
func (s *SQLiteStore) IsMember(ctx context.Context, accountID string) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_user WHERE account_id = ?`, accountID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Add puts an account on the admin list. Adding an existing member is a no-op.
// PRE: accountID references an existing account
// POST: Membership row exists for accountID
func (s *SQLiteStore) Add(ctx context.Context, accountID string, createdAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_user (account_id, created_at) VALUES (?, ?)
		 ON CONFLICT(account_id) DO NOTHING`,
		accountID, createdAt.Format(timeLayout))
	return err
}
