// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-trends/pkg/types"
)

const indexDBFile = "index.db"

// Entry describes one cached query in the index.
type Entry struct {
	Key       string
	Term      string
	Mode      string
	FromYear  int
	ToYear    int
	CreatedAt time.Time
}

// Store is the on-disk result cache: per-query CSV artifacts (pivot and
// detail files) plus a SQLite index used for TTL enforcement and explicit
// invalidation.
type Store struct {
	dir string
	ttl time.Duration
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the cache directory and its index database.
func Open(cfg types.CacheConfig, log zerolog.Logger) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "cache"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, indexDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache index: %w", err)
	}

	s := &Store{dir: dir, ttl: cfg.TTL, db: db, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return s, nil
}

// Close releases the index database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		term TEXT NOT NULL,
		mode TEXT NOT NULL,
		from_year INTEGER NOT NULL,
		to_year INTEGER NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// PivotPath returns the pivot artifact location for a key. Exposed so
// callers can report where a result landed.
func (s *Store) PivotPath(key string) string {
	return filepath.Join(s.dir, key+"_pivot.csv")
}

func (s *Store) detailPath(key string) string {
	return filepath.Join(s.dir, key+"_detail.csv")
}

// Lookup returns the cached matrix for key, or false when the key is
// absent, expired, or its artifact is unreadable. A corrupt artifact is a
// miss, never an error: the caller recomputes.
func (s *Store) Lookup(key string) (*types.CountMatrix, bool) {
	var createdAt string
	err := s.db.QueryRow(`SELECT created_at FROM entries WHERE key = ?`, key).Scan(&createdAt)
	switch {
	case err == sql.ErrNoRows:
		return nil, false
	case err != nil:
		s.log.Warn().Err(err).Str("key", key).Msg("cache index read failed")
		return nil, false
	}

	if s.ttl > 0 {
		created, err := time.Parse(time.RFC3339, createdAt)
		if err != nil || time.Since(created) > s.ttl {
			s.log.Debug().Str("key", key).Msg("cache entry expired")
			if err := s.Invalidate(key); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("evicting expired entry failed")
			}
			return nil, false
		}
	}

	f, err := os.Open(s.PivotPath(key))
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cached pivot artifact missing")
		return nil, false
	}
	defer f.Close()

	m, err := readPivot(f)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cached pivot artifact unreadable, recomputing")
		return nil, false
	}
	return m, true
}

// Put persists the matrix and the deduplicated hit list under e.Key,
// overwriting any prior artifact for the same key. Artifact files are
// written to a temporary name and renamed, so a concurrent Lookup never
// observes a partial write.
func (s *Store) Put(e Entry, m *types.CountMatrix, hits []types.Hit) error {
	if err := s.writeAtomic(s.PivotPath(e.Key), func(f *os.File) error {
		return writePivot(f, m)
	}); err != nil {
		return fmt.Errorf("writing pivot artifact: %w", err)
	}

	if err := s.writeAtomic(s.detailPath(e.Key), func(f *os.File) error {
		return writeDetail(f, hits)
	}); err != nil {
		return fmt.Errorf("writing detail artifact: %w", err)
	}

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO entries (key, term, mode, from_year, to_year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			term=excluded.term, mode=excluded.mode,
			from_year=excluded.from_year, to_year=excluded.to_year,
			created_at=excluded.created_at`,
		e.Key, e.Term, e.Mode, e.FromYear, e.ToYear, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting cache entry: %w", err)
	}
	return nil
}

func (s *Store) writeAtomic(path string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Entries lists all cached queries, newest first.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT key, term, mode, from_year, to_year, created_at
		 FROM entries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt string
		if err := rows.Scan(&e.Key, &e.Term, &e.Mode, &e.FromYear, &e.ToYear, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Invalidate removes one cached query: both artifact files and the index
// row. A key that is not cached is not an error.
func (s *Store) Invalidate(key string) error {
	for _, path := range []string{s.PivotPath(key), s.detailPath(key)} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	if _, err := s.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes every cached query and returns how many were dropped.
func (s *Store) Clear() (int, error) {
	entries, err := s.Entries()
	if err != nil {
		return 0, err
	}
	for _, e := range entries {
		if err := s.Invalidate(e.Key); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
