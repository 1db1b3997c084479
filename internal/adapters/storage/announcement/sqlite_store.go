package announcement

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/announcement"
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

const announcementColumns = `id, title, content, priority, active, created_at, updated_at`

// GetByID retrieves an announcement by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+announcementColumns+` FROM announcement WHERE id = ?`, id)
	return scanAnnouncement(row)
}

// Save inserts or updates an announcement.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, a domain.Announcement) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO announcement (id, title, content, priority, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, content=excluded.content, priority=excluded.priority,
		   active=excluded.active, created_at=excluded.created_at, updated_at=excluded.updated_at`,
		a.ID, a.Title, a.Content, a.Priority, boolToInt(a.Active),
		a.CreatedAt.Format(timeLayout), a.UpdatedAt.Format(timeLayout))
	return err
}

// Delete removes an announcement by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM announcement WHERE id = ?`, id)
	return err
}

// List returns all announcements, highest priority first, newest first within
// the same priority.
// PRE: none
// POST: Returns all announcements, active and inactive
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+announcementColumns+` FROM announcement
		 ORDER BY priority DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnnouncements(rows)
}

// ListActive returns active announcements in display order, up to limit.
// PRE: limit > 0
// POST: Returns up to limit active announcements ordered by priority DESC, created_at DESC
func (s *SQLiteStore) ListActive(ctx context.Context, limit int) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+announcementColumns+` FROM announcement WHERE active = 1
		 ORDER BY priority DESC, created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnnouncements(rows)
}

func collectAnnouncements(rows *sql.Rows) ([]domain.Announcement, error) {
	var announcements []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		var active int
		var createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &active, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		applyScanned(&a, active, createdAt, updatedAt)
		announcements = append(announcements, a)
	}
	return announcements, rows.Err()
}

// scanAnnouncement scans a single row into an Announcement.
func scanAnnouncement(row *sql.Row) (domain.Announcement, error) {
	var a domain.Announcement
	var active int
	var createdAt, updatedAt string
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Priority, &active, &createdAt, &updatedAt); err != nil {
		return domain.Announcement{}, err
	}
	applyScanned(&a, active, createdAt, updatedAt)
	return a, nil
}

// applyScanned converts raw scanned values into domain fields.
func applyScanned(a *domain.Announcement, active int, createdAt, updatedAt string) {
	a.Active = active != 0
	a.CreatedAt = parseTime("created_at", a.ID, createdAt)
	a.UpdatedAt = parseTime("updated_at", a.ID, updatedAt)
}

func parseTime(field, id, raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("announcement: failed to parse time", "field", field, "announcement_id", id, "raw", raw, "error", err)
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
