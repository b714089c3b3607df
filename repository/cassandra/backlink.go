package cassandra

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/gocql/gocql"
)

// BacklinkRepository implements repository.BacklinkRepository against the
// backlink table.
type BacklinkRepository struct {
	store *Store
}

func NewBacklinkRepository(store *Store) *BacklinkRepository {
	return &BacklinkRepository{store: store}
}

// DeleteBySourceTarget removes every backlink row for the given
// source/target pair, implementing the idempotent-replay semantics of
// spec.md §4.7 (delete-then-reinsert on every re-crawl of source).
func (r *BacklinkRepository) DeleteBySourceTarget(ctx context.Context, source, target string) error {
	iter := r.store.Session.Query(
		`SELECT id FROM backlink WHERE source_url = ? AND target_url = ? ALLOW FILTERING`, source, target,
	).WithContext(ctx).Iter()
	var id gocql.UUID
	var ids []gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.store.Session.Query(`DELETE FROM backlink WHERE id = ?`, id).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *BacklinkRepository) Insert(ctx context.Context, b *repository.Backlink) error {
	id, err := gocql.RandomUUID()
	if err != nil {
		return err
	}
	return r.store.Session.Query(
		`INSERT INTO backlink (id, source_url, target_url, anchor_text) VALUES (?, ?, ?, ?)`,
		id, b.SourceURL, b.TargetURL, b.AnchorText,
	).WithContext(ctx).Exec()
}

func (r *BacklinkRepository) ListAll(ctx context.Context) ([]*repository.Backlink, error) {
	iter := r.store.Session.Query(`SELECT id, source_url, target_url, anchor_text FROM backlink`).WithContext(ctx).Iter()
	var out []*repository.Backlink
	var id gocql.UUID
	b := &repository.Backlink{}
	for iter.Scan(&id, &b.SourceURL, &b.TargetURL, &b.AnchorText) {
		bCopy := *b
		out = append(out, &bCopy)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BacklinkRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
