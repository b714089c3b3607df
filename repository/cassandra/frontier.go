package cassandra

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// FrontierRepository implements repository.FrontierRepository against the
// url_frontier table.
type FrontierRepository struct {
	store *Store
}

func NewFrontierRepository(store *Store) *FrontierRepository {
	return &FrontierRepository{store: store}
}

// SafeInsert inserts url iff not already present, matching spec.md §4.7's
// "safe-add" semantics.
func (r *FrontierRepository) SafeInsert(ctx context.Context, url string) error {
	return r.store.Session.Query(
		`INSERT INTO url_frontier (url) VALUES (?) IF NOT EXISTS`, url,
	).WithContext(ctx).Exec()
}

func (r *FrontierRepository) Delete(ctx context.Context, url string) error {
	return r.store.Session.Query(`DELETE FROM url_frontier WHERE url = ?`, url).WithContext(ctx).Exec()
}

func (r *FrontierRepository) Select(ctx context.Context, limit int) ([]string, error) {
	iter := r.store.Session.Query(`SELECT url FROM url_frontier`).WithContext(ctx).Iter()
	var urls []string
	var u string
	for iter.Scan(&u) {
		urls = append(urls, u)
		if limit > 0 && len(urls) >= limit {
			break
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *FrontierRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
