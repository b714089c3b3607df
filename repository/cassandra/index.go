package cassandra

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// IndexRepository implements repository.IndexRepository against the
// document_index table.
type IndexRepository struct {
	store *Store
}

func NewIndexRepository(store *Store) *IndexRepository {
	return &IndexRepository{store: store}
}

// WipeAll truncates the inverted index; the indexer rebuilds it wholesale
// from scratch every pass (spec.md §4.8).
func (r *IndexRepository) WipeAll(ctx context.Context) error {
	return r.store.Session.Query(`TRUNCATE document_index`).WithContext(ctx).Exec()
}

func (r *IndexRepository) Insert(ctx context.Context, e *repository.IndexEntry) error {
	return r.store.Session.Query(
		`INSERT INTO document_index (document_url, word, location, frequency, tag) VALUES (?, ?, ?, ?, ?)`,
		e.DocumentURL, e.Word, e.Location, e.Frequency, e.Tag,
	).WithContext(ctx).Exec()
}

func (r *IndexRepository) ListByWords(ctx context.Context, words []string) ([]*repository.IndexEntry, error) {
	var out []*repository.IndexEntry
	for _, w := range words {
		iter := r.store.Session.Query(
			`SELECT document_url, word, location, frequency, tag FROM document_index WHERE word = ?`, w,
		).WithContext(ctx).Iter()
		e := &repository.IndexEntry{}
		for iter.Scan(&e.DocumentURL, &e.Word, &e.Location, &e.Frequency, &e.Tag) {
			eCopy := *e
			out = append(out, &eCopy)
		}
		if err := iter.Close(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *IndexRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
