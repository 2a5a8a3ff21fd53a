package storage

import (
	"database/sql"
	"fmt"
	"time"

	"defnav/internal/oracle"
)

// DeclCache memoizes declaration lookups keyed by the exact request
// coordinates plus the document version, so a stale snapshot can never
// produce a stale hit.
type DeclCache struct {
	db *DB
}

// NewDeclCache creates a declaration cache over an open database.
func NewDeclCache(db *DB) *DeclCache {
	return &DeclCache{db: db}
}

// Get returns the cached declaration range for a lookup, if present and
// not expired.
func (c *DeclCache) Get(path string, version int64, line, column int) (*oracle.Range, bool, error) {
	var rng oracle.Range
	var expiresAt string

	err := c.db.QueryRow(`
		SELECT def_path, def_start_line, def_start_col, def_end_line, def_end_col, expires_at
		FROM decl_cache
		WHERE path = ? AND version = ? AND line = ? AND col = ?
	`, path, version, line, column).Scan(
		&rng.Path, &rng.StartLine, &rng.StartColumn, &rng.EndLine, &rng.EndColumn, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("decl cache lookup failed: %w", err)
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, fmt.Errorf("invalid expires_at format: %w", err)
	}
	if time.Now().After(expiry) {
		_, _ = c.db.Exec(`DELETE FROM decl_cache WHERE path = ? AND version = ? AND line = ? AND col = ?`,
			path, version, line, column)
		return nil, false, nil
	}

	return &rng, true, nil
}

// Put stores a declaration range for a lookup with the given TTL.
func (c *DeclCache) Put(path string, version int64, line, column int, rng oracle.Range, ttl time.Duration) error {
	now := time.Now()

	err := c.db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO decl_cache
				(path, version, line, col, def_path, def_start_line, def_start_col, def_end_line, def_end_col, expires_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, path, version, line, column,
			rng.Path, rng.StartLine, rng.StartColumn, rng.EndLine, rng.EndColumn,
			now.Add(ttl).Format(time.RFC3339), now.Format(time.RFC3339))
		return err
	})

	if err != nil {
		return fmt.Errorf("failed to store decl cache entry: %w", err)
	}
	return nil
}

// Prune removes all expired entries.
func (c *DeclCache) Prune() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM decl_cache WHERE expires_at < ?`,
		time.Now().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to prune decl cache: %w", err)
	}
	return res.RowsAffected()
}
