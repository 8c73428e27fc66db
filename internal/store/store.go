// Package store is the SQL repository behind the ledger engines. Every query
// is scoped by company_id; a row owned by another company reads as not found.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/period"
)

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store runs queries against a database handle or an open transaction.
type Store struct {
	q   Querier
	now func() time.Time
}

// New creates a Store over q.
func New(q Querier) *Store {
	return &Store{q: q, now: func() time.Time { return time.Now().UTC() }}
}

const timestampFormat = time.RFC3339

func (s *Store) timestamp() string {
	return s.now().Format(timestampFormat)
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(timestampFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", v, err)
	}
	return t, nil
}

func parseDate(v string) (time.Time, error) {
	return period.Parse(v)
}

func notFound(err error, kind string, id any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(kind, id)
	}
	return fmt.Errorf("loading %s %v: %w", kind, id, err)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
