// Package storage persists generation results between runs so unchanged
// sources can be skipped.
package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one cached generation result.
type Entry struct {
	Source  string
	Hash    string
	Output  string
	Exports []string
}

// Cache is a SQLite-backed store keyed by source path.
type Cache struct {
	db *sql.DB
}

// NewCache creates or opens the cache database.
func NewCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	c := &Cache{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) initSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS outputs (
		source TEXT PRIMARY KEY,
		hash TEXT,
		output TEXT,
		exports JSON
	);`)
	return err
}

// Fingerprint hashes source bytes together with the options fingerprint, so
// changing generation options invalidates prior results.
func Fingerprint(source []byte, optionsKey string) string {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte{0})
	h.Write([]byte(optionsKey))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached entry for a source path, if any.
func (c *Cache) Lookup(ctx context.Context, source string) (*Entry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT hash, output, exports FROM outputs WHERE source = ?`, source)

	var e Entry
	var exports []byte
	e.Source = source
	if err := row.Scan(&e.Hash, &e.Output, &exports); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(exports) > 0 {
		if err := json.Unmarshal(exports, &e.Exports); err != nil {
			return nil, false, err
		}
	}
	return &e, true, nil
}

// Save upserts a generation result.
func (c *Cache) Save(ctx context.Context, e *Entry) error {
	exports, err := json.Marshal(e.Exports)
	if err != nil {
		return err
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO outputs (source, hash, output, exports)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			hash=excluded.hash,
			output=excluded.output,
			exports=excluded.exports
	`, e.Source, e.Hash, e.Output, exports)
	return err
}
