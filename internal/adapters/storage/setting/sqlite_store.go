package setting

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/setting"
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

// Get retrieves a setting by key.
// PRE: key is non-empty
// POST: Returns the setting or sql.ErrNoRows if not set
func (s *SQLiteStore) Get(ctx context.Context, key string) (domain.Setting, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT setting_key, setting_value, updated_at FROM portal_setting WHERE setting_key = ?`, key)
	return scanSetting(row)
}

// Upsert inserts or replaces a setting keyed by setting_key.
// PRE: entity has been validated
// POST: Setting is persisted (insert or update)
func (s *SQLiteStore) Upsert(ctx context.Context, v domain.Setting) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO portal_setting (setting_key, setting_value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(setting_key) DO UPDATE SET
		   setting_value=excluded.setting_value, updated_at=excluded.updated_at`,
		v.Key, v.Value, v.UpdatedAt.Format(timeLayout))
	return err
}

// List returns all settings ordered by key.
// PRE: none
// POST: Returns all settings
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT setting_key, setting_value, updated_at FROM portal_setting ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.Setting
	for rows.Next() {
		var v domain.Setting
		var updatedAt string
		if err := rows.Scan(&v.Key, &v.Value, &updatedAt); err != nil {
			return nil, err
		}
		v.UpdatedAt = parseTime(v.Key, updatedAt)
		settings = append(settings, v)
	}
	return settings, rows.Err()
}

// scanSetting scans a single row into a Setting.
func scanSetting(row *sql.Row) (domain.Setting, error) {
	var v domain.Setting
	var updatedAt string
	if err := row.Scan(&v.Key, &v.Value, &updatedAt); err != nil {
		return domain.Setting{}, err
	}
	v.UpdatedAt = parseTime(v.Key, updatedAt)
	return v, nil
}

func parseTime(key, raw string) time.Time {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("setting: failed to parse time", "field", "updated_at", "setting_key", key, "raw", raw, "error", err)
	}
	return t
}
