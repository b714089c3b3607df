package cassandra

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// schemaData carries the values the CQL schema template needs filled in,
// mirroring the teacher's cassandra/helpers.go templated-schema pattern.
type schemaData struct {
	Keyspace          string
	ReplicationFactor int
}

// GetSchema renders the CQL schema for the configured keyspace and
// replication factor.
func GetSchema(keyspace string, replicationFactor int) (string, error) {
	t, err := template.New("schema").Parse(schemaTemplate)
	if err != nil {
		return "", fmt.Errorf("cassandra: parse schema template: %w", err)
	}
	var b bytes.Buffer
	if err := t.Execute(&b, schemaData{Keyspace: keyspace, ReplicationFactor: replicationFactor}); err != nil {
		return "", fmt.Errorf("cassandra: render schema template: %w", err)
	}
	return b.String(), nil
}

// statements splits a rendered schema into individual CQL statements,
// exactly as the teacher's CreateSchema splits on ';'.
func statements(schema string) []string {
	var out []string
	for _, q := range strings.Split(schema, ";") {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}

// partitionTableName returns the physical table name for a base entity
// table and a partition key, e.g. partitionTableName("page", "a") ->
// "page_p_a". The repositories in this package do not call it: they read
// and write the single page and document_index tables.
func partitionTableName(base, key string) string {
	return fmt.Sprintf("%s_p_%s", base, key)
}

// partitionKeys is the fixed set of partition keys, 'a'..'z' plus
// 'default', matching the source's first-letter bucketing (DESIGN.md open
// question #1). schemaTemplate does not create per-partition tables.
var partitionKeys = func() []string {
	keys := make([]string, 0, 27)
	for c := 'a'; c <= 'z'; c++ {
		keys = append(keys, string(c))
	}
	return append(keys, "default")
}()

const schemaTemplate = `-- Schema for the crawl-and-rank pipeline's Cassandra repository backend.
-- Generated from a Go template so keyspace/replication can vary for tests.
CREATE KEYSPACE {{.Keyspace}}
WITH REPLICATION = { 'class': 'SimpleStrategy', 'replication_factor': {{.ReplicationFactor}} };

-- ip_domain stores the IP/Domain entity: one row per base URL
-- ("scheme://netloc") discovered by the IP scanner or URL resolver.
CREATE TABLE {{.Keyspace}}.ip_domain (
	domain text,
	ip text,
	port int,
	status int,
	score double,
	last_crawled timestamp,
	PRIMARY KEY (domain)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' };
CREATE INDEX ON {{.Keyspace}}.ip_domain (last_crawled);

-- url_frontier stores base URLs discovered during crawling but not yet
-- validated as reachable.
CREATE TABLE {{.Keyspace}}.url_frontier (
	url text,
	PRIMARY KEY (url)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' }
	AND gc_grace_seconds = 0;

-- page stores the Page entity in one table (this backend does not split
-- it into per-letter partition tables).
CREATE TABLE {{.Keyspace}}.page (
	page_url text,
	status_code int,
	title text,
	keywords text,
	description text,
	body blob,
	favicon blob,
	robotstxt blob,
	sitemap blob,
	last_crawled timestamp,
	PRIMARY KEY (page_url)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' };

-- backlink stores directed edges discovered from <a> tags during a crawl.
CREATE TABLE {{.Keyspace}}.backlink (
	id uuid,
	source_url text,
	target_url text,
	anchor_text text,
	PRIMARY KEY (id)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' };
CREATE INDEX ON {{.Keyspace}}.backlink (source_url);
CREATE INDEX ON {{.Keyspace}}.backlink (target_url);

-- document_index is the inverted index, wiped and rebuilt wholesale by the
-- indexer. Kept in one table (no per-letter partition tables).
CREATE TABLE {{.Keyspace}}.document_index (
	document_url text,
	word text,
	location int,
	frequency int,
	tag text,
	PRIMARY KEY (word, document_url, location)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' };

-- search_result_cache stores serialized ranking output keyed by query.
CREATE TABLE {{.Keyspace}}.search_result_cache (
	query text,
	results blob,
	PRIMARY KEY (query)
) WITH compaction = { 'class' : 'LeveledCompactionStrategy' };
`
