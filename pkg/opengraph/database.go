package opengraph

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/feed-weave/pkg/filesystem"
)

// Database caches fetched article-page metadata between runs
type Database struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDatabase opens (or creates) the enrichment cache
func NewDatabase(dbPath string) (*Database, error) {
	if err := filesystem.EnsureDirectoryExists(dbPath); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS enrich_cache (
		url TEXT PRIMARY KEY,
		description TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		fetched_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		fetch_success INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	slog.Debug("Enrichment cache opened", "path", dbPath)
	return &Database{db: db}, nil
}

// GetCached returns unexpired cached data for a URL. The second return
// value reports a cache hit; a hit for a failed fetch carries empty
// fields, which keeps the URL from being retried until expiry.
func (d *Database) GetCached(url string) (*Data, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row := d.db.QueryRow(
		`SELECT description, published, fetched_at, expires_at
		 FROM enrich_cache WHERE url = ? AND expires_at > ?`,
		url, time.Now().Unix())

	var description string
	var published, fetchedAt, expiresAt int64
	if err := row.Scan(&description, &published, &fetchedAt, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache: %w", err)
	}

	data := &Data{
		URL:         url,
		Description: description,
		FetchedAt:   time.Unix(fetchedAt, 0).UTC(),
		ExpiresAt:   time.Unix(expiresAt, 0).UTC(),
	}
	if published > 0 {
		data.Published = time.Unix(published, 0).UTC()
	}
	return data, true, nil
}

// Save stores fetched data, replacing any previous entry for the URL
func (d *Database) Save(data *Data, success bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var published int64
	if !data.Published.IsZero() {
		published = data.Published.Unix()
	}

	_, err := d.db.Exec(
		`INSERT OR REPLACE INTO enrich_cache
		 (url, description, published, fetched_at, expires_at, fetch_success)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.URL, data.Description, published,
		data.FetchedAt.Unix(), data.ExpiresAt.Unix(), success)
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (d *Database) Close() error {
	return d.db.Close()
}
