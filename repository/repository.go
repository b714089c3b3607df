// Package repository defines the storage-access surface of the pipeline:
// one interface per entity kind (IP/Domain, Page, URLFrontier, Backlink,
// DocumentIndex, SearchResultCache), each offering the subset of the
// add/get/list/update/upsert/delete/count/commit/remove_duplicates
// operations of spec.md §4.1 that the stages use for that entity (the cache,
// for one, has only Get and Put). Concrete backends (repository/cassandra,
// repository/sqlite) implement these interfaces; every stage is written
// against the interfaces only.
package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get-style calls when no row matches the key.
var ErrNotFound = errors.New("repository: not found")

// IPRow is a row of the IP/Domain entity (spec.md §3).
type IPRow struct {
	Domain      string
	IP          string
	Port        int
	Status      int
	Score       float64
	LastCrawled time.Time // zero value means unscanned
}

// Unscanned reports whether this row has never been crawled.
func (r *IPRow) Unscanned() bool {
	return r.LastCrawled.IsZero()
}

// Page is a row of the Page entity.
type Page struct {
	PageURL     string
	StatusCode  int
	Title       string
	Keywords    string
	Description string
	Body        []byte // nil for a seed row
	Favicon     []byte
	RobotsTxt   []byte
	Sitemap     []byte
	LastCrawled time.Time
}

// Unscanned reports whether this page has never been crawled.
func (p *Page) Unscanned() bool {
	return p.LastCrawled.IsZero()
}

// Backlink is a row of the Backlink entity.
type Backlink struct {
	ID         int64
	SourceURL  string
	TargetURL  string
	AnchorText string
}

// IndexEntry is a row of the DocumentIndex entity.
type IndexEntry struct {
	DocumentURL string
	Word        string
	Frequency   int
	Location    int
	Tag         string
}

// CacheEntry is a row of the SearchResultCache entity.
type CacheEntry struct {
	Query   string
	Results []byte // opaque serialized ranking output
}

// IPRepository covers the IP/Domain entity.
type IPRepository interface {
	Upsert(ctx context.Context, row *IPRow) error
	Get(ctx context.Context, domain string) (*IPRow, error)
	ListUnscanned(ctx context.Context, limit int) ([]*IPRow, error)
	UpdateLastCrawled(ctx context.Context, domain string, when time.Time) error
	SetScore(ctx context.Context, domain string, score float64) error
	ZeroAllScores(ctx context.Context) error
	RemoveDuplicates(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Commit(ctx context.Context) error
}

// PageRepository covers the Page entity.
type PageRepository interface {
	Upsert(ctx context.Context, p *Page) error
	InsertSeed(ctx context.Context, pageURL string) error
	Get(ctx context.Context, pageURL string) (*Page, error)
	Exists(ctx context.Context, pageURL string) (bool, error)
	ListUnscanned(ctx context.Context, limit int) ([]*Page, error)
	ListWithBody(ctx context.Context) ([]*Page, error)
	UpdateLastCrawled(ctx context.Context, pageURL string, when time.Time) error
	Commit(ctx context.Context) error
}

// FrontierRepository covers the URLFrontier entity.
type FrontierRepository interface {
	SafeInsert(ctx context.Context, url string) error
	Delete(ctx context.Context, url string) error
	Select(ctx context.Context, limit int) ([]string, error)
	Commit(ctx context.Context) error
}

// BacklinkRepository covers the Backlink entity.
type BacklinkRepository interface {
	DeleteBySourceTarget(ctx context.Context, source, target string) error
	Insert(ctx context.Context, b *Backlink) error
	ListAll(ctx context.Context) ([]*Backlink, error)
	Commit(ctx context.Context) error
}

// IndexRepository covers the DocumentIndex entity.
type IndexRepository interface {
	WipeAll(ctx context.Context) error
	Insert(ctx context.Context, e *IndexEntry) error
	ListByWords(ctx context.Context, words []string) ([]*IndexEntry, error)
	Commit(ctx context.Context) error
}

// CacheRepository covers the SearchResultCache entity.
type CacheRepository interface {
	Get(ctx context.Context, query string) (*CacheEntry, bool, error)
	Put(ctx context.Context, entry *CacheEntry) error
}

// Store aggregates the per-entity repositories a Runtime is constructed
// from, so stage constructors take one argument instead of six.
type Store struct {
	IP        IPRepository
	Page      PageRepository
	Frontier  FrontierRepository
	Backlink  BacklinkRepository
	Index     IndexRepository
	Cache     CacheRepository
}
