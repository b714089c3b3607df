package sqlite

import (
	"context"
	"database/sql"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// CacheRepository implements repository.CacheRepository against the flat
// search_result_cache table.
type CacheRepository struct {
	store *Store
}

func NewCacheRepository(store *Store) *CacheRepository {
	return &CacheRepository{store: store}
}

func (r *CacheRepository) Get(ctx context.Context, query string) (*repository.CacheEntry, bool, error) {
	e := &repository.CacheEntry{Query: query}
	err := r.store.DB.QueryRowContext(ctx, `SELECT results FROM search_result_cache WHERE query = ?`, query).Scan(&e.Results)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, true, nil
}

func (r *CacheRepository) Put(ctx context.Context, entry *repository.CacheEntry) error {
	_, err := r.store.DB.ExecContext(ctx,
		`INSERT INTO search_result_cache (query, results) VALUES (?, ?)
		 ON CONFLICT(query) DO UPDATE SET results=excluded.results`,
		entry.Query, entry.Results)
	return err
}
