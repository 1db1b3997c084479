package clientsession

import (
	"context"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/clientsession"
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

// Save inserts an audit record. Audit rows are never updated.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, c domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_session (id, t_code, created_at) VALUES (?, ?, ?)`,
		c.ID, c.TCode, c.CreatedAt.Format(timeLayout))
	return err
}

// ListRecent returns the most recent logins, newest first.
// PRE: limit > 0
// POST: Returns up to limit sessions ordered by created_at DESC
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, t_code, created_at FROM client_session
		 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var sess domain.Session
		var createdAt string
		if err := rows.Scan(&sess.ID, &sess.TCode, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			slog.Warn("client_session: failed to parse time", "session_id", sess.ID, "raw", createdAt, "error", err)
		}
		sess.CreatedAt = t
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
