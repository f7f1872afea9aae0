// Package sqlite implements the repository interfaces on SQLite.
//
// The store holds exactly one kind of record — the session's acting user —
// so by default it runs on an in-memory database: the data is
// session-scoped by definition and there is nothing worth keeping across a
// restart. A file path can be configured for deployments that want sessions
// to survive one.
//
// modernc.org/sqlite is a pure-Go translation of SQLite, so there is no CGo
// and no C toolchain involved; the blank import registers it with
// database/sql under the driver name "sqlite".
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// memSeq numbers in-memory databases so two stores in one process never
// share state.
var memSeq atomic.Int64

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. The server owns the lifecycle: New opens, Close releases.
type DB struct {
	conn *sql.DB

	// pin holds one connection open for the lifetime of an in-memory
	// store. database/sql is a pool: a plain ":memory:" DSN would give
	// every pooled connection its own private database, and even a
	// shared-cache one is destroyed the moment its last connection
	// closes. The pinned connection keeps the database alive through
	// any pool churn; nil for file-backed stores.
	pin *sql.Conn
}

// New opens the database at dbPath (":memory:" for a transient store) and
// runs migrations.
func New(dbPath string) (*DB, error) {
	inMemory := dbPath == ":memory:"
	if inMemory {
		// A named shared-cache database lets every pooled connection
		// see the same tables.
		dbPath = fmt.Sprintf("file:sessions%d?mode=memory&cache=shared", memSeq.Add(1))
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	db := &DB{conn: conn}
	if inMemory {
		pin, err := conn.Conn(context.Background())
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite: pinning in-memory database: %w", err)
		}
		db.pin = pin
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps readers unblocked while a write is in flight. In-memory
	// databases ignore it, and that is fine; it matters for file-backed
	// stores.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if err := db.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close releases the pinned connection (if any) and the pool.
func (db *DB) Close() error {
	if db.pin != nil {
		db.pin.Close()
	}
	return db.conn.Close()
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			token      TEXT PRIMARY KEY,
			user_id    INTEGER NOT NULL,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating sessions table: %w", err)
	}
	return nil
}
