package sqlite

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// BacklinkRepository implements repository.BacklinkRepository against the
// flat backlink table.
type BacklinkRepository struct {
	store *Store
}

func NewBacklinkRepository(store *Store) *BacklinkRepository {
	return &BacklinkRepository{store: store}
}

func (r *BacklinkRepository) DeleteBySourceTarget(ctx context.Context, source, target string) error {
	_, err := r.store.DB.ExecContext(ctx,
		`DELETE FROM backlink WHERE source_url = ? AND target_url = ?`, source, target)
	return err
}

func (r *BacklinkRepository) Insert(ctx context.Context, b *repository.Backlink) error {
	_, err := r.store.DB.ExecContext(ctx,
		`INSERT INTO backlink (source_url, target_url, anchor_text) VALUES (?, ?, ?)`,
		b.SourceURL, b.TargetURL, b.AnchorText)
	return err
}

func (r *BacklinkRepository) ListAll(ctx context.Context) ([]*repository.Backlink, error) {
	rows, err := r.store.DB.QueryContext(ctx, `SELECT id, source_url, target_url, anchor_text FROM backlink`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*repository.Backlink
	for rows.Next() {
		b := &repository.Backlink{}
		if err := rows.Scan(&b.ID, &b.SourceURL, &b.TargetURL, &b.AnchorText); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BacklinkRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
