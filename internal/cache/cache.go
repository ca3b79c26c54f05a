// Package cache stores GROBID's TEI output so a PDF is converted only once.
package cache

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed map from PDF content hash to TEI XML.
// Raw TEI is stored rather than parsed documents, so cached entries are
// always re-parsed with the current parser.
type Cache struct {
	db *sql.DB
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries  int   `json:"entries"`
	TEIBytes int64 `json:"tei_bytes"`
	WithDOI  int   `json:"with_doi"`
}

// Key returns the cache key for a PDF: the hex BLAKE2b-256 of its bytes.
func Key(pdf []byte) string {
	sum := blake2b.Sum256(pdf)
	return hex.EncodeToString(sum[:])
}

// Open opens or creates a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS tei (
			key TEXT PRIMARY KEY,
			doi TEXT,
			tei BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tei_doi ON tei(doi) WHERE doi IS NOT NULL AND doi != '';
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the TEI stored under key. ok is false on a miss.
func (c *Cache) Get(key string) (tei []byte, ok bool, err error) {
	err = c.db.QueryRow(`SELECT tei FROM tei WHERE key = ?`, key).Scan(&tei)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache: %w", err)
	}
	return tei, true, nil
}

// GetByDOI returns the most recent TEI stored for doi. Different uploads of
// the same article (re-downloaded, re-stamped) share a DOI but not a hash.
func (c *Cache) GetByDOI(doi string) (tei []byte, ok bool, err error) {
	if doi == "" {
		return nil, false, nil
	}
	err = c.db.QueryRow(
		`SELECT tei FROM tei WHERE doi = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`, doi,
	).Scan(&tei)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache by DOI: %w", err)
	}
	return tei, true, nil
}

// Put stores tei under key, replacing any previous entry.
func (c *Cache) Put(key, doi string, tei []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO tei (key, doi, tei, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET doi = excluded.doi, tei = excluded.tei, created_at = excluded.created_at
	`, key, nullIfEmpty(doi), tei, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("storing TEI: %w", err)
	}
	return nil
}

// Stats reports the number of entries and stored bytes.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	err := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(tei)), 0), COUNT(doi)
		FROM tei
	`).Scan(&s.Entries, &s.TEIBytes, &s.WithDOI)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return s, nil
}

// Clear removes every entry and returns how many were removed.
func (c *Cache) Clear() (int, error) {
	res, err := c.db.Exec(`DELETE FROM tei`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	return int(n), nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
