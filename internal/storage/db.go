// Package storage provides the SQLite-backed declaration cache used by the
// SCIP oracle. The pipeline itself keeps no state across requests; this cache
// belongs to the oracle side of the boundary.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"defnav/internal/logging"
)

// DB wraps a SQLite connection with transaction helpers.
type DB struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// Open opens or creates the cache database at <rootDir>/.defnav/defnav.db.
func Open(rootDir string, logger *logging.Logger) (*DB, error) {
	stateDir := filepath.Join(rootDir, ".defnav")
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, "defnav.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{
		conn:   conn,
		logger: logger,
		dbPath: dbPath,
	}

	if err := db.initializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the on-disk location of the database.
func (db *DB) Path() string {
	return db.dbPath
}

// Exec runs a statement against the underlying connection.
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// QueryRow runs a single-row query against the underlying connection.
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// WithTx executes fn inside a transaction, rolling back on error or panic.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) initializeSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decl_cache (
		path           TEXT    NOT NULL,
		version        INTEGER NOT NULL,
		line           INTEGER NOT NULL,
		col            INTEGER NOT NULL,
		def_path       TEXT    NOT NULL,
		def_start_line INTEGER NOT NULL,
		def_start_col  INTEGER NOT NULL,
		def_end_line   INTEGER NOT NULL,
		def_end_col    INTEGER NOT NULL,
		expires_at     TEXT    NOT NULL,
		created_at     TEXT    NOT NULL,
		PRIMARY KEY (path, version, line, col)
	);
	CREATE INDEX IF NOT EXISTS idx_decl_cache_expiry ON decl_cache(expires_at);
	`

	if err := db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(schema)
		return err
	}); err != nil {
		return err
	}

	db.logger.Debug("Declaration cache schema ready", map[string]interface{}{
		"path": db.dbPath,
	})
	return nil
}
