package feedback

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/feedback"
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

const feedbackColumns = `id, t_code, kind, subject, message, contact_email, created_at`

// GetByID retrieves a feedback submission by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Feedback, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+feedbackColumns+` FROM feedback WHERE id = ?`, id)
	return scanFeedback(row)
}

// Save inserts or updates a feedback submission.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, f domain.Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, t_code, kind, subject, message, contact_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   t_code=excluded.t_code, kind=excluded.kind, subject=excluded.subject,
		   message=excluded.message, contact_email=excluded.contact_email,
		   created_at=excluded.created_at`,
		f.ID, f.TCode, f.Kind, nullableString(f.Subject), f.Message,
		nullableString(f.ContactEmail), f.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a feedback submission by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	return err
}

// List returns all feedback, newest first.
// PRE: none
// POST: Returns all feedback ordered by created_at DESC
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+feedbackColumns+` FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Feedback
	for rows.Next() {
		var f domain.Feedback
		var subject, email sql.NullString
		var kind, createdAt string
		if err := rows.Scan(&f.ID, &f.TCode, &kind, &subject, &f.Message, &email, &createdAt); err != nil {
			return nil, err
		}
		applyScanned(&f, kind, subject, email, createdAt)
		items = append(items, f)
	}
	return items, rows.Err()
}

// scanFeedback scans a single row into a Feedback.
func scanFeedback(row *sql.Row) (domain.Feedback, error) {
	var f domain.Feedback
	var subject, email sql.NullString
	var kind, createdAt string
	if err := row.Scan(&f.ID, &f.TCode, &kind, &subject, &f.Message, &email, &createdAt); err != nil {
		return domain.Feedback{}, err
	}
	applyScanned(&f, kind, subject, email, createdAt)
	return f, nil
}

// applyScanned converts raw scanned values into domain fields.
func applyScanned(f *domain.Feedback, kind string, subject, email sql.NullString, createdAt string) {
	f.Kind = kind
	if subject.Valid {
		f.Subject = subject.String
	}
	if email.Valid {
		f.ContactEmail = email.String
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		slog.Warn("feedback: failed to parse time", "field", "created_at", "feedback_id", f.ID, "raw", createdAt, "error", err)
	}
	f.CreatedAt = t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
