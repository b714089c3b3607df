// Package sqlite is the embedded local fallback repository backend spec.md
// §6 calls for when the external secret file naming the primary store is
// unavailable. It also carries the literal implementation of spec.md §9's
// explicit partitioned-repository pattern (a compile-time entity
// descriptor plus a partition_of(key) function dispatching at query time),
// since Cassandra's native per-primary-key partitioning already satisfies
// that requirement implicitly and so the cassandra backend does not need
// to demonstrate it explicitly.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a *sql.DB using the modernc.org/sqlite pure-Go driver, so the
// embedded fallback never requires cgo.
type Store struct {
	DB *sql.DB
}

// Open creates or attaches to a sqlite database file at path and ensures
// the flat (non-partitioned) tables exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %v: %w", path, err)
	}
	s := &Store{DB: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ip_domain (
			domain TEXT PRIMARY KEY,
			ip TEXT,
			port INTEGER,
			status INTEGER,
			score REAL NOT NULL DEFAULT 0,
			last_crawled DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS url_frontier (
			url TEXT PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS backlink (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_url TEXT NOT NULL,
			target_url TEXT NOT NULL,
			anchor_text TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS backlink_source_target ON backlink (source_url, target_url)`,
		`CREATE TABLE IF NOT EXISTS search_result_cache (
			query TEXT PRIMARY KEY,
			results BLOB
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite: migrate: %w", err)
		}
	}
	return nil
}
