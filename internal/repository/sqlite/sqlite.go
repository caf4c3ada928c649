// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE FOR A DOCUMENT STORE?
// The site's content is a handful of small documents addressed by path
// ("users/<id>/content/projects/items"). SQLite's JSON functions (json_extract)
// give us the only query features we need, equality filters and a numeric
// sort, on a single embedded file. No separate database server to run.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C compiler
// installed and cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code: no C compiler needed, and it works everywhere Go works.
//
// SCHEMA MIGRATIONS:
// Table definitions live in migrations/*.sql and are embedded into the binary.
// goose records which files have run in its own version table, so New() can be
// called on every start.
package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	// BLANK IMPORT:
	// The sqlite package's init() registers a database/sql driver named "sqlite".
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB wraps a sql.DB connection pool and provides repository methods.
// It implements both repository.DocumentRepository and repository.UserRepository.
type DB struct {
	conn *sql.DB
}

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/portfolio.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (great for tests, lost on close)
//
// ONE CONNECTION:
// SQLite allows a single writer at a time, and every connection to ":memory:"
// opens a brand-new empty database. Capping the pool at one connection avoids
// SQLITE_BUSY on concurrent seeding and keeps in-memory test databases whole.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode lets readers proceed while a write is in flight.
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

// migrate applies any pending migrations from migrations/*.sql.
func (db *DB) migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{})

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.conn, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// gooseLogger routes goose's progress messages into slog at debug level.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...), slog.String("component", "goose"))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	// goose only calls Fatalf from its CLI helpers; Up reports errors by return value.
	slog.Error(fmt.Sprintf(format, v...), slog.String("component", "goose"))
}
