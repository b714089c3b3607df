package sqlite

import (
	"fmt"

	"github.com/emsotr/arama-cekirdegi/weburl"
)

// entityDescriptor is the compile-time description of a partitionable
// entity: its base table name and the column layout partition tables
// share. This replaces the source's runtime per-partition model
// generation (spec.md §9) with a single static value per entity.
type entityDescriptor struct {
	baseTable  string
	createStmt string // %s is substituted with the physical table name
}

var pageDescriptor = entityDescriptor{
	baseTable: "page",
	createStmt: `CREATE TABLE IF NOT EXISTS %s (
		page_url TEXT PRIMARY KEY,
		status_code INTEGER,
		title TEXT,
		keywords TEXT,
		description TEXT,
		body BLOB,
		favicon BLOB,
		robotstxt BLOB,
		sitemap BLOB,
		last_crawled DATETIME
	)`,
}

var indexDescriptor = entityDescriptor{
	baseTable: "document_index",
	createStmt: `CREATE TABLE IF NOT EXISTS %s (
		document_url TEXT NOT NULL,
		word TEXT NOT NULL,
		location INTEGER NOT NULL,
		frequency INTEGER NOT NULL,
		tag TEXT,
		PRIMARY KEY (word, document_url, location)
	)`,
}

// partitionOf returns the physical table name for key under d, e.g.
// partitionOf(pageDescriptor, "a") -> "page_p_a". This is the
// "partition_of(key) -> physical_table_name" function spec.md §9 calls
// for; the repository dispatches to it at query time rather than
// generating a type.
func partitionOf(d entityDescriptor, key string) string {
	return fmt.Sprintf("%s_p_%s", d.baseTable, weburl.PartitionKey(key))
}

// allPartitionTableNames returns every physical table name d could ever
// route to, for cross-partition union reads.
func allPartitionTableNames(d entityDescriptor) []string {
	names := make([]string, 0, 27)
	for c := 'a'; c <= 'z'; c++ {
		names = append(names, partitionOf(d, string(c)))
	}
	return append(names, partitionOf(d, ""))
}

// ensurePartitionTable lazily creates the physical table for key under d,
// matching spec.md §4.1's "lazily creates a physical table per partition
// on first access".
func (s *Store) ensurePartitionTable(d entityDescriptor, key string) (string, error) {
	table := partitionOf(d, key)
	stmt := fmt.Sprintf(d.createStmt, table)
	if _, err := s.DB.Exec(stmt); err != nil {
		return "", fmt.Errorf("sqlite: ensure partition table %v: %w", table, err)
	}
	return table, nil
}
