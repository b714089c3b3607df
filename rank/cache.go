package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
)

// DefaultCacheSize bounds the in-process LRU front ahead of the
// repository-backed SearchResultCache table, mirroring dnscache's
// bounded-LRU-in-front-of-slower-lookup shape.
const DefaultCacheSize = 1024

// cachedSearch is the JSON-serialized shape stored in
// repository.CacheEntry.Results.
type cachedSearch struct {
	Docs  []Document `json:"docs"`
	Total int        `json:"total"`
}

// QueryCache answers Search by key (the preprocessed raw query, per
// spec.md §6), checking an in-process LRU first, then the durable
// repository cache table, and only running the ranker on a full miss.
// RefreshAll re-runs the ranker for every key currently held and
// replaces both tiers, giving spec.md §6's "refreshed in the background"
// cache its actual refresh mechanism.
type QueryCache struct {
	ranker *Ranker
	repo   repository.CacheRepository
	lru    *lru.Cache

	mu   sync.Mutex
	keys map[string]struct {
		query string
		k     int
	}
}

// NewQueryCache wraps ranker with an LRU-fronted, repository-backed cache
// of size entries. size <= 0 uses DefaultCacheSize.
func NewQueryCache(ranker *Ranker, repo repository.CacheRepository, size int) (*QueryCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("rank: build query cache: %w", err)
	}
	return &QueryCache{
		ranker: ranker,
		repo:   repo,
		lru:    cache,
		keys: make(map[string]struct {
			query string
			k     int
		}),
	}, nil
}

// cacheKey is the preprocessed raw query spec.md §6 keys the cache by: the
// same tokenization the ranker itself applies, rejoined with single
// spaces, plus the result-count cap (a query for top-5 and top-50 are
// different cache entries).
func cacheKey(query string, k int) string {
	return fmt.Sprintf("%d:%s", k, strings.Join(tokenizeQuery(query), " "))
}

// Search serves query from the in-process LRU, falling back to the
// durable repository cache, and finally to a live ranker run on a full
// miss. Every tier is populated on the way out.
func (qc *QueryCache) Search(ctx context.Context, query string, k int) ([]Document, int, error) {
	key := cacheKey(query, k)

	if v, ok := qc.lru.Get(key); ok {
		hit := v.(cachedSearch)
		return hit.Docs, hit.Total, nil
	}

	if entry, found, err := qc.repo.Get(ctx, key); err == nil && found {
		var hit cachedSearch
		if err := json.Unmarshal(entry.Results, &hit); err == nil {
			qc.remember(key, query, k, hit)
			return hit.Docs, hit.Total, nil
		}
	}

	docs, total, err := qc.ranker.Search(ctx, query, k)
	if err != nil {
		return nil, 0, err
	}
	hit := cachedSearch{Docs: docs, Total: total}
	qc.remember(key, query, k, hit)
	qc.persist(ctx, key, hit)
	return docs, total, nil
}

func (qc *QueryCache) remember(key, query string, k int, hit cachedSearch) {
	qc.lru.Add(key, hit)
	qc.mu.Lock()
	qc.keys[key] = struct {
		query string
		k     int
	}{query: query, k: k}
	qc.mu.Unlock()
}

func (qc *QueryCache) persist(ctx context.Context, key string, hit cachedSearch) {
	data, err := json.Marshal(hit)
	if err != nil {
		logging.Warn("rank: cache marshal failed for %q: %v", key, err)
		return
	}
	if err := qc.repo.Put(ctx, &repository.CacheEntry{Query: key, Results: data}); err != nil {
		logging.Warn("rank: cache persist failed for %q: %v", key, err)
	}
}

// RefreshAll re-runs the ranker for every query currently tracked by this
// cache and replaces both tiers, implementing spec.md §6's background
// cache refresh.
func (qc *QueryCache) RefreshAll(ctx context.Context) {
	qc.mu.Lock()
	snapshot := make(map[string]struct {
		query string
		k     int
	}, len(qc.keys))
	for k, v := range qc.keys {
		snapshot[k] = v
	}
	qc.mu.Unlock()

	for key, q := range snapshot {
		docs, total, err := qc.ranker.Search(ctx, q.query, q.k)
		if err != nil {
			logging.Warn("rank: cache refresh failed for %q: %v", key, err)
			continue
		}
		hit := cachedSearch{Docs: docs, Total: total}
		qc.remember(key, q.query, q.k, hit)
		qc.persist(ctx, key, hit)
	}
}
