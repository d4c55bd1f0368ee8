// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — a single file, no separate server to run.
// That fits this app: one process, two tables, and the thing we actually
// care about (UNIQUE constraints, foreign keys, transactions) SQLite does
// properly.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure-Go translation of
// the SQLite sources — works everywhere Go works.
//
// The database is the single source of truth for two correctness-critical
// invariants:
//   - registration uniqueness: the UNIQUE constraints on accounts.username
//     and accounts.email decide duplicate registrations, atomically, even
//     under concurrent inserts — no check-then-insert race is possible
//   - cascade integrity: deleting an account and its feedback happens inside
//     one transaction, so no observer ever sees an orphaned feedback row
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/commentator/internal/apperror"
	sqlite3 "modernc.org/sqlite"
)

// DB owns the sql.DB connection pool and exposes the two stores built on
// it. Accounts and Feedback are separate types because Go has no method
// overloading: both repository interfaces declare Create and Delete, and a
// single receiver cannot carry both signatures.
type DB struct {
	conn *sql.DB

	Accounts *AccountStore
	Feedback *FeedbackStore
}

// AccountStore implements repository.AccountRepository.
type AccountStore struct {
	conn *sql.DB
}

// FeedbackStore implements repository.FeedbackRepository.
type FeedbackStore struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/commentator.db" → file-based, persistent
//   - ":memory:"            → in-memory, lost on close (used by tests)
func New(dbPath string) (*DB, error) {
	// foreign_keys is a PER-CONNECTION pragma. Executing it once against the
	// pool would configure only whichever connection ran it — every other
	// pooled connection would silently skip FK enforcement. Carrying the
	// pragmas in the DSN makes the driver apply them to each connection it
	// opens. Feedback rows reference accounts, so FK enforcement must hold
	// on every connection. journal_mode=WAL allows concurrent reads while a
	// write is in progress.
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"

	// sql.Open creates a pool manager, not a connection — the first real
	// connection happens on the first query. Ping forces one immediately so
	// a bad path or permissions problem surfaces here, not mid-request.
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per CONNECTION: if the pool opened a
	// second one it would see a fresh, empty database with no tables. Pin
	// the pool to a single connection so ":memory:" behaves like one store.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{
		conn:     conn,
		Accounts: &AccountStore{conn: conn},
		Feedback: &FeedbackStore{conn: conn},
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS is idempotent, so
// this is safe to run on every startup.
//
// Schema notes:
//   - accounts.username is the PRIMARY KEY: usernames are the app's
//     identifier, globally unique and immutable
//   - accounts.email carries its own UNIQUE constraint
//   - feedback.id uses AUTOINCREMENT, which (unlike a bare INTEGER PRIMARY
//     KEY) guarantees IDs are monotonic and never reused after a delete
//   - feedback.owner_username REFERENCES accounts(username): with
//     foreign_keys=ON, an insert for a nonexistent owner fails
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			username      TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL CHECK (password_hash <> ''),
			email         TEXT NOT NULL UNIQUE,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			title          TEXT NOT NULL,
			content        TEXT NOT NULL,
			owner_username TEXT NOT NULL REFERENCES accounts(username),
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_feedback_owner ON feedback(owner_username);
	`)
	if err != nil {
		return fmt.Errorf("creating feedback table: %w", err)
	}

	return nil
}

// constraintField inspects a driver error and, if it is a UNIQUE-constraint
// violation, returns the offending column name ("username" or "email").
//
// modernc.org/sqlite reports constraint violations as *sqlite.Error with an
// extended result code (2067 = SQLITE_CONSTRAINT_UNIQUE, 1555 =
// SQLITE_CONSTRAINT_PRIMARYKEY — the primary key case fires for duplicate
// usernames since username IS the primary key). The column travels only in
// the message text ("UNIQUE constraint failed: accounts.username"), so we
// parse it out.
func constraintField(err error) (string, bool) {
	var serr *sqlite3.Error
	if !errors.As(err, &serr) {
		return "", false
	}

	const (
		sqliteConstraintUnique     = 2067
		sqliteConstraintPrimaryKey = 1555
	)
	if c := serr.Code(); c != sqliteConstraintUnique && c != sqliteConstraintPrimaryKey {
		return "", false
	}

	msg := serr.Error()
	switch {
	case strings.Contains(msg, "accounts.username"):
		return "username", true
	case strings.Contains(msg, "accounts.email"):
		return "email", true
	}
	return "", false
}

// isForeignKeyViolation reports whether err is a foreign-key constraint
// failure (extended result code 787).
func isForeignKeyViolation(err error) bool {
	var serr *sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	const sqliteConstraintForeignKey = 787
	return serr.Code() == sqliteConstraintForeignKey
}

// notFoundOrWrap translates sql.ErrNoRows into the domain NotFound error and
// wraps anything else with context.
func notFoundOrWrap(err error, resource string, id any, op string) error {
	if err == sql.ErrNoRows {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("sqlite: %s: %w", op, err)
}
