// Package database opens the SQLite ledger database and runs work inside
// transactions.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var schema string

// Config holds database configuration.
type Config struct {
	Path        string
	BusyTimeout time.Duration // how long a writer waits for the lock; default 5s
}

// Open opens (creating if needed) the ledger database and applies the schema.
func Open(cfg Config, log zerolog.Logger) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if !strings.HasPrefix(cfg.Path, "file:") {
		absPath, err := filepath.Abs(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		cfg.Path = absPath
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	conn, err := sql.Open("sqlite", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Path, err)
	}
	conn.SetMaxOpenConns(8)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database %s: %w", cfg.Path, err)
	}

	if err := Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Debug().Str("path", cfg.Path).Msg("database opened")
	return conn, nil
}

// buildConnectionString configures the ledger for durability: every commit is
// fsynced and BEGIN takes the write lock immediately, so read-modify-write
// sequences inside one transaction cannot interleave with another writer.
func buildConnectionString(cfg Config) string {
	connStr := cfg.Path + "?_pragma=journal_mode(WAL)"
	connStr += "&_pragma=synchronous(FULL)"
	connStr += "&_pragma=foreign_keys(1)"
	connStr += fmt.Sprintf("&_pragma=busy_timeout(%d)", cfg.BusyTimeout.Milliseconds())
	connStr += "&_txlock=immediate"
	return connStr
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	return WithTransaction(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
		return nil
	})
}

// WithTransaction runs fn inside a transaction. It commits when fn returns
// nil and rolls back on error or panic. fn's error is returned as is so callers
// can still match it with errors.As.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) (err error) {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("panic in transaction: %v", p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		} else if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("committing transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}
