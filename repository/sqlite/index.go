package sqlite

import (
	"context"
	"fmt"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// IndexRepository implements repository.IndexRepository using the
// partitioned-table pattern keyed by the first letter of word.
type IndexRepository struct {
	store *Store
}

func NewIndexRepository(store *Store) *IndexRepository {
	return &IndexRepository{store: store}
}

// WipeAll drops and recreates every document_index partition table, the
// explicit form of "wipe and rewrite in full" (spec.md §4.8) under the
// partitioned layout.
func (r *IndexRepository) WipeAll(ctx context.Context) error {
	for _, table := range allPartitionTableNames(indexDescriptor) {
		if _, err := r.store.DB.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table)); err != nil {
			return err
		}
	}
	return nil
}

func (r *IndexRepository) Insert(ctx context.Context, e *repository.IndexEntry) error {
	table, err := r.store.ensurePartitionTable(indexDescriptor, e.Word)
	if err != nil {
		return err
	}
	_, err = r.store.DB.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (document_url, word, location, frequency, tag) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(word, document_url, location) DO UPDATE SET frequency=excluded.frequency, tag=excluded.tag`, table),
		e.DocumentURL, e.Word, e.Location, e.Frequency, e.Tag)
	return err
}

func (r *IndexRepository) ListByWords(ctx context.Context, words []string) ([]*repository.IndexEntry, error) {
	var out []*repository.IndexEntry
	for _, w := range words {
		table, err := r.store.ensurePartitionTable(indexDescriptor, w)
		if err != nil {
			return nil, err
		}
		rows, err := r.store.DB.QueryContext(ctx, fmt.Sprintf(
			`SELECT document_url, word, location, frequency, tag FROM %s WHERE word = ?`, table), w)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			e := &repository.IndexEntry{}
			if err := rows.Scan(&e.DocumentURL, &e.Word, &e.Location, &e.Frequency, &e.Tag); err != nil {
				rows.Close()
				return nil, err
			}
			out = append(out, e)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

func (r *IndexRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
