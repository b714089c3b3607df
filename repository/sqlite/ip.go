package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// IPRepository implements repository.IPRepository against the flat
// ip_domain table (not partitioned: the IP/domain keyspace is small
// relative to pages/words, so sharding it brings no benefit here).
type IPRepository struct {
	store *Store
}

func NewIPRepository(store *Store) *IPRepository {
	return &IPRepository{store: store}
}

func (r *IPRepository) Upsert(ctx context.Context, row *repository.IPRow) error {
	_, err := r.store.DB.ExecContext(ctx,
		`INSERT INTO ip_domain (domain, ip, port, status, score, last_crawled) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(domain) DO UPDATE SET ip=excluded.ip, port=excluded.port, status=excluded.status,
		 	score=excluded.score, last_crawled=excluded.last_crawled`,
		row.Domain, row.IP, row.Port, row.Status, row.Score, row.LastCrawled)
	return err
}

func (r *IPRepository) Get(ctx context.Context, domain string) (*repository.IPRow, error) {
	row := &repository.IPRow{Domain: domain}
	var lastCrawled sql.NullTime
	err := r.store.DB.QueryRowContext(ctx,
		`SELECT ip, port, status, score, last_crawled FROM ip_domain WHERE domain = ?`, domain,
	).Scan(&row.IP, &row.Port, &row.Status, &row.Score, &lastCrawled)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	row.LastCrawled = lastCrawled.Time
	return row, nil
}

func (r *IPRepository) ListUnscanned(ctx context.Context, limit int) ([]*repository.IPRow, error) {
	query := `SELECT domain, ip, port, status, score, last_crawled FROM ip_domain WHERE last_crawled IS NULL OR last_crawled = ?`
	args := []interface{}{time.Time{}}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := r.store.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*repository.IPRow
	for rows.Next() {
		row := &repository.IPRow{}
		var lastCrawled sql.NullTime
		if err := rows.Scan(&row.Domain, &row.IP, &row.Port, &row.Status, &row.Score, &lastCrawled); err != nil {
			return nil, err
		}
		row.LastCrawled = lastCrawled.Time
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *IPRepository) UpdateLastCrawled(ctx context.Context, domain string, when time.Time) error {
	_, err := r.store.DB.ExecContext(ctx, `UPDATE ip_domain SET last_crawled = ? WHERE domain = ?`, when, domain)
	return err
}

func (r *IPRepository) SetScore(ctx context.Context, domain string, score float64) error {
	_, err := r.store.DB.ExecContext(ctx, `UPDATE ip_domain SET score = ? WHERE domain = ?`, score, domain)
	return err
}

func (r *IPRepository) ZeroAllScores(ctx context.Context) error {
	_, err := r.store.DB.ExecContext(ctx, `UPDATE ip_domain SET score = 0`)
	return err
}

// RemoveDuplicates deletes all but the first-inserted (lowest rowid) row for any
// domain that (through concurrent upserts racing a unique-constraint gap)
// ended up duplicated. SQLite's PRIMARY KEY already prevents this in
// practice; kept so callers can invoke it uniformly with the cassandra
// backend per spec.md §4.1/§4.6's "run duplicate-removal" step.
func (r *IPRepository) RemoveDuplicates(ctx context.Context) error {
	_, err := r.store.DB.ExecContext(ctx, `
		DELETE FROM ip_domain WHERE rowid NOT IN (
			SELECT MIN(rowid) FROM ip_domain GROUP BY domain
		)`)
	return err
}

func (r *IPRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.store.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ip_domain`).Scan(&count)
	return count, err
}

func (r *IPRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
