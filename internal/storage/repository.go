// Package storage implements the Ledger Store on SQLite. Every query scans
// into a fixed record shape; there is no reflective row mapping. Mutations
// that validate ownership before writing do both inside one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"cartera/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks database liveness, for readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back on error.
func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// nullDate converts an ISO TEXT column that may be NULL or empty.
func nullDate(s sql.NullString) core.Date {
	if !s.Valid || s.String == "" {
		return core.Date{}
	}
	d, err := core.ParseDate(s.String)
	if err != nil {
		return core.Date{}
	}
	return d
}

// dateArg converts a Date to the value stored in an ISO TEXT column.
// Zero dates are stored as NULL.
func dateArg(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.ISO()
}

// idArg converts an optional foreign key to its column value, with 0
// stored as NULL.
func idArg(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullID(n sql.NullInt64) int64 {
	if !n.Valid {
		return 0
	}
	return n.Int64
}
