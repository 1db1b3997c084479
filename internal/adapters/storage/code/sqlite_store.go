package code

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"primeportal/internal/adapters/storage"
	domain "primeportal/internal/domain/code"
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

const codeColumns = `id, t_code, company_name, active, created_at`

// GetByID retrieves a code by ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.AuthorizedCode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+codeColumns+` FROM authorized_code WHERE id = ?`, id)
	return scanCode(row)
}

// GetByTCode retrieves a code by its normalized T-code value.
// PRE: tCode has been normalized (trimmed, uppercase)
// POST: Returns the entity or sql.ErrNoRows if not found
func (s *SQLiteStore) GetByTCode(ctx context.Context, tCode string) (domain.AuthorizedCode, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+codeColumns+` FROM authorized_code WHERE t_code = ?`, tCode)
	return scanCode(row)
}

// Save inserts or updates a code.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, c domain.AuthorizedCode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO authorized_code (id, t_code, company_name, active, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   t_code=excluded.t_code, company_name=excluded.company_name,
		   active=excluded.active, created_at=excluded.created_at`,
		c.ID, c.TCode, nullableString(c.CompanyName), boolToInt(c.Active),
		c.CreatedAt.Format(timeLayout))
	return err
}

// Delete removes a code by ID.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM authorized_code WHERE id = ?`, id)
	return err
}

// List returns all codes ordered by T-code.
// PRE: none
// POST: Returns all codes, active and inactive
func (s *SQLiteStore) List(ctx context.Context) ([]domain.AuthorizedCode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+codeColumns+` FROM authorized_code ORDER BY t_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []domain.AuthorizedCode
	for rows.Next() {
		var c domain.AuthorizedCode
		var company sql.NullString
		var active int
		var createdAt string
		if err := rows.Scan(&c.ID, &c.TCode, &company, &active, &createdAt); err != nil {
			return nil, err
		}
		applyScanned(&c, company, active, createdAt)
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

// scanCode scans a single row into an AuthorizedCode.
func scanCode(row *sql.Row) (domain.AuthorizedCode, error) {
	var c domain.AuthorizedCode
	var company sql.NullString
	var active int
	var createdAt string
	if err := row.Scan(&c.ID, &c.TCode, &company, &active, &createdAt); err != nil {
		return domain.AuthorizedCode{}, err
	}
	applyScanned(&c, company, active, createdAt)
	return c, nil
}

// applyScanned converts raw scanned values into domain fields.
func applyScanned(c *domain.AuthorizedCode, company sql.NullString, active int, createdAt string) {
	if company.Valid {
		c.CompanyName = company.String
	}
	c.Active = active != 0
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		slog.Warn("code: failed to parse time", "field", "created_at", "code_id", c.ID, "raw", createdAt, "error", err)
	}
	c.CreatedAt = t
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
