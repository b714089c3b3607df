package cassandra

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// CacheRepository implements repository.CacheRepository against the
// search_result_cache table, the durable tier behind the in-process LRU
// front (see orchestrator's query-cache wiring).
type CacheRepository struct {
	store *Store
}

func NewCacheRepository(store *Store) *CacheRepository {
	return &CacheRepository{store: store}
}

func (r *CacheRepository) Get(ctx context.Context, query string) (*repository.CacheEntry, bool, error) {
	e := &repository.CacheEntry{Query: query}
	err := r.store.Session.Query(
		`SELECT results FROM search_result_cache WHERE query = ?`, query,
	).WithContext(ctx).Scan(&e.Results)
	if err != nil {
		if err.Error() == "not found" {
			return nil, false, nil
		}
		return nil, false, err
	}
	return e, true, nil
}

func (r *CacheRepository) Put(ctx context.Context, entry *repository.CacheEntry) error {
	return r.store.Session.Query(
		`INSERT INTO search_result_cache (query, results) VALUES (?, ?)`, entry.Query, entry.Results,
	).WithContext(ctx).Exec()
}
