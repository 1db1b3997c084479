package event

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/event"
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

const eventColumns = `id, title, description, location, starts_at, ends_at, active, created_at`

// GetByID retrieves an event by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE id = ?`, id)
	return scanEvent(row)
}

// Save inserts or updates an event.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO event (id, title, description, location, starts_at, ends_at, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title=excluded.title, description=excluded.description, location=excluded.location,
		   starts_at=excluded.starts_at, ends_at=excluded.ends_at,
		   active=excluded.active, created_at=excluded.created_at`,
		e.ID, e.Title, nullableString(e.Description), nullableString(e.Location),
		e.StartsAt.Format(timeLayout), nullableTime(e.EndsAt), boolToInt(e.Active),
		e.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes an event by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM event WHERE id = ?`, id)
	return err
}

// List returns all events, soonest start first.
// PRE: none
// POST: Returns all events, active and inactive
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event ORDER BY starts_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListActive returns active events in start order, up to limit.
// PRE: limit > 0
// POST: Returns up to limit active events ordered by starts_at ASC
func (s *SQLiteStore) ListActive(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM event WHERE active = 1
		 ORDER BY starts_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]domain.Event, error) {
	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var description, location sql.NullString
		var endsAt sql.NullString
		var active int
		var startsAt, createdAt string
		if err := rows.Scan(&e.ID, &e.Title, &description, &location, &startsAt, &endsAt, &active, &createdAt); err != nil {
			return nil, err
		}
		applyScanned(&e, description, location, startsAt, endsAt, active, createdAt)
		events = append(events, e)
	}
	return events, rows.Err()
}

// scanEvent scans a single row into an Event.
func scanEvent(row *sql.Row) (domain.Event, error) {
	var e domain.Event
	var description, location sql.NullString
	var endsAt sql.NullString
	var active int
	var startsAt, createdAt string
	if err := row.Scan(&e.ID, &e.Title, &description, &location, &startsAt, &endsAt, &active, &createdAt); err != nil {
		return domain.Event{}, err
	}
	applyScanned(&e, description, location, startsAt, endsAt, active, createdAt)
	return e, nil
}

// applyScanned converts raw scanned values into domain fields.
func applyScanned(e *domain.Event, description, location sql.NullString, startsAt string, endsAt sql.NullString, active int, createdAt string) {
	if description.Valid {
		e.Description = description.String
	}
	if location.Valid {
		e.Location = location.String
	}
	e.StartsAt = parseTime("starts_at", e.ID, startsAt)
	if endsAt.Valid {
		e.EndsAt = parseTime("ends_at", e.ID, endsAt.String)
	}
	e.Active = active != 0
	e.CreatedAt = parseTime("created_at", e.ID, createdAt)
}

func parseTime(field, id, raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("event: failed to parse time", "field", field, "event_id", id, "raw", raw, "error", err)
	}
	return t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
