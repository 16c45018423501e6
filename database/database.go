package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a sql.DB with the driver name, the transaction isolation
// level mutations run at, and placeholder rebinding so queries can be
// written once with ? placeholders and still run on postgres.
type DB struct {
	*sql.DB

	driver    string
	isolation sql.IsolationLevel
}

// Open connects to the database. Supported drivers are "postgres"
// (production) and "sqlite3" (development and tests).
//
// Mutations require REPEATABLE READ so that reads and writes inside one
// transaction observe a consistent snapshot and concurrent writers to
// the same aggregate conflict instead of losing updates. The sqlite
// driver rejects intermediate isolation levels, so sqlite transactions
// run at SERIALIZABLE, which is strictly stronger.
func Open(driver, dataSourceName string) (*DB, error) {
	sqlDB, err := sql.Open(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return Wrap(sqlDB, driver), nil
}

// Wrap builds a DB around an already-open connection. Used by tests
// that supply a mocked connection.
func Wrap(sqlDB *sql.DB, driver string) *DB {
	isolation := sql.LevelRepeatableRead
	if driver == "sqlite3" {
		isolation = sql.LevelSerializable
	}
	return &DB{DB: sqlDB, driver: driver, isolation: isolation}
}

// Initialize opens the database and runs all pending migrations.
func Initialize(driver, dataSourceName string) (*DB, error) {
	db, err := Open(driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Rebind converts ? placeholders to the driver's native form.
func (db *DB) Rebind(query string) string {
	if db.driver != "postgres" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 10)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}

// QueryContext runs a query with placeholder rebinding.
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, db.Rebind(query), args...)
}

// QueryRowContext runs a single-row query with placeholder rebinding.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, db.Rebind(query), args...)
}

// ExecContext runs a statement with placeholder rebinding.
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.DB.ExecContext(ctx, db.Rebind(query), args...)
}

// Tx is an open transaction with placeholder rebinding. It is threaded
// explicitly through every function that writes inside the transaction,
// never carried as ambient state.
type Tx struct {
	tx *sql.Tx
	db *DB
}

// QueryContext runs a query inside the transaction.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.db.Rebind(query), args...)
}

// QueryRowContext runs a single-row query inside the transaction.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.db.Rebind(query), args...)
}

// ExecContext runs a statement inside the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.db.Rebind(query), args...)
}

// WithTransaction runs fn inside a transaction at the configured
// isolation level. Any error from fn rolls back every write performed
// in the transaction; a nil return commits. A transaction the database
// aborts for a serialization conflict propagates as an error, retrying
// is the caller's concern.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: db.isolation})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Tx{tx: sqlTx, db: db}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
