// Package sqlitedb owns the embedded SQLite handle shared by the session
// and mood stores.
package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"moodooro/internal/platform/tx"

	_ "modernc.org/sqlite"
)

const pragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Querier is the subset of *sql.DB and *sql.Tx the stores use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	db *sql.DB
}

// Open creates the database file if needed and brings its schema up to date.
func Open(ctx context.Context, path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := migrate(ctx, db, len(migrations)); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Conn returns the transaction carried by ctx, falling back to the pool.
func (d *DB) Conn(ctx context.Context) Querier {
	if s, ok := tx.From(ctx); ok {
		return s.Tx
	}
	return d.db
}

// Within runs fn inside a transaction. A call nested in an outer Within
// joins the outer transaction.
func (d *DB) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}
	sqlTx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	scope := tx.NewScope(sqlTx)
	if err := fn(tx.With(ctx, scope)); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	scope.Committed()
	return nil
}

// Version reports the applied schema version.
func (d *DB) Version(ctx context.Context) (int, error) {
	return userVersion(ctx, d.db)
}
