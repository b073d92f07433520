// Package sqlite implements the repository interfaces on SQLite.
//
// modernc.org/sqlite is a pure Go port, so the binary builds without cgo.
// Each collection is its own table with no foreign keys between them; the
// free-form part of every document lives in a JSON "extra" column.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides repository methods.
// A single DB is shared by every request.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/sustaineats.db" → file-based database (persistent)
//   - ":memory:"            → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate empty database, so the
	// pool must never grow past one connection.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables. CREATE ... IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS foods (
			id               TEXT PRIMARY KEY,
			food_name        TEXT NOT NULL DEFAULT '',
			food_image       TEXT NOT NULL DEFAULT '',
			food_quantity    INTEGER NOT NULL DEFAULT 0,
			pickup_location  TEXT NOT NULL DEFAULT '',
			expired_date     TEXT NOT NULL DEFAULT '',
			additional_notes TEXT NOT NULL DEFAULT '',
			food_status      TEXT NOT NULL DEFAULT '',
			donator_name     TEXT NOT NULL DEFAULT '',
			donator_email    TEXT NOT NULL DEFAULT '',
			donator_image    TEXT NOT NULL DEFAULT '',
			extra            TEXT NOT NULL DEFAULT '{}',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_foods_status_quantity ON foods(food_status, food_quantity);
		CREATE INDEX IF NOT EXISTS idx_foods_donator_email ON foods(donator_email);
	`)
	if err != nil {
		return fmt.Errorf("creating foods table: %w", err)
	}

	// food_id is deliberately not a foreign key: requests may outlive listings.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS food_requests (
			id               TEXT PRIMARY KEY,
			food_id          TEXT NOT NULL DEFAULT '',
			requester_email  TEXT NOT NULL DEFAULT '',
			requester_name   TEXT NOT NULL DEFAULT '',
			request_date     TEXT NOT NULL DEFAULT '',
			additional_notes TEXT NOT NULL DEFAULT '',
			extra            TEXT NOT NULL DEFAULT '{}',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_food_requests_requester ON food_requests(requester_email);
	`)
	if err != nil {
		return fmt.Errorf("creating food_requests table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS payments (
			id             TEXT PRIMARY KEY,
			email          TEXT NOT NULL DEFAULT '',
			amount         REAL NOT NULL DEFAULT 0,
			currency       TEXT NOT NULL DEFAULT '',
			transaction_id TEXT NOT NULL DEFAULT '',
			date           TEXT NOT NULL DEFAULT '',
			extra          TEXT NOT NULL DEFAULT '{}',
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_payments_email ON payments(email);
	`)
	if err != nil {
		return fmt.Errorf("creating payments table: %w", err)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
