package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

// Placeholder is the bind parameter style of a SQL dialect.
type Placeholder int

const (
	// PlaceholderQuestion is used by SQLite and MySQL.
	PlaceholderQuestion Placeholder = iota
	// PlaceholderDollar is used by PostgreSQL.
	PlaceholderDollar
)

const defaultTable = "censor_terms"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLAdapter is a generic SQL storage implementation.
type SQLAdapter struct {
	db          *sql.DB
	table       string
	placeholder Placeholder
}

// NewSQLAdapter creates an adapter over *sql.DB using '?' placeholders.
func NewSQLAdapter(db *sql.DB, table string) (*SQLAdapter, error) {
	return NewSQLAdapterWithPlaceholder(db, table, PlaceholderQuestion)
}

// NewSQLAdapterWithPlaceholder creates an adapter for the given bind style.
func NewSQLAdapterWithPlaceholder(db *sql.DB, table string, placeholder Placeholder) (*SQLAdapter, error) {
	if db == nil {
		return nil, errors.New("storage: db is nil")
	}
	if strings.TrimSpace(table) == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("storage: invalid table name %q", table)
	}
	return &SQLAdapter{db: db, table: table, placeholder: placeholder}, nil
}

// NewPostgresAdapter opens a PostgreSQL database through lib/pq.
func NewPostgresAdapter(dsn, table string) (*SQLAdapter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	a, err := NewSQLAdapterWithPlaceholder(db, table, PlaceholderDollar)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// DB returns the underlying handle.
func (s *SQLAdapter) DB() *sql.DB { return s.db }

func (s *SQLAdapter) bind() string {
	if s.placeholder == PlaceholderDollar {
		return "$1"
	}
	return "?"
}

// EnsureSchema creates table if missing.
func (s *SQLAdapter) EnsureSchema(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (term TEXT PRIMARY KEY)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *SQLAdapter) AddTerm(ctx context.Context, term string) error {
	q := fmt.Sprintf(`INSERT INTO %s (term) VALUES (%s)`, s.table, s.bind())
	_, err := s.db.ExecContext(ctx, q, term)
	if err == nil || isDuplicate(err) {
		return nil
	}
	return err
}

func isDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func (s *SQLAdapter) RemoveTerm(ctx context.Context, term string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE term = %s`, s.table, s.bind())
	_, err := s.db.ExecContext(ctx, q, term)
	return err
}

func (s *SQLAdapter) GetTerms(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`SELECT term FROM %s`, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, 256)
	for rows.Next() {
		var term string
		if scanErr := rows.Scan(&term); scanErr != nil {
			return nil, scanErr
		}
		out = append(out, term)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLAdapter) TermExists(ctx context.Context, term string) (bool, error) {
	q := fmt.Sprintf(`SELECT 1 FROM %s WHERE term = %s LIMIT 1`, s.table, s.bind())
	var v int
	err := s.db.QueryRowContext(ctx, q, term).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
