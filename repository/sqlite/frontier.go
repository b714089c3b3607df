package sqlite

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// FrontierRepository implements repository.FrontierRepository against the
// flat url_frontier table.
type FrontierRepository struct {
	store *Store
}

func NewFrontierRepository(store *Store) *FrontierRepository {
	return &FrontierRepository{store: store}
}

func (r *FrontierRepository) SafeInsert(ctx context.Context, url string) error {
	_, err := r.store.DB.ExecContext(ctx, `INSERT OR IGNORE INTO url_frontier (url) VALUES (?)`, url)
	return err
}

func (r *FrontierRepository) Delete(ctx context.Context, url string) error {
	_, err := r.store.DB.ExecContext(ctx, `DELETE FROM url_frontier WHERE url = ?`, url)
	return err
}

func (r *FrontierRepository) Select(ctx context.Context, limit int) ([]string, error) {
	query := `SELECT url FROM url_frontier`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.store.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *FrontierRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
