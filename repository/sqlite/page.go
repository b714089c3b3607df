package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// PageRepository implements repository.PageRepository using the
// partitioned-table pattern: pages are routed to page_p_<key> by the first
// letter of their page_url (weburl.PartitionKey), demonstrating spec.md
// §4.1/§9's optional horizontal partitioning.
type PageRepository struct {
	store *Store
}

func NewPageRepository(store *Store) *PageRepository {
	return &PageRepository{store: store}
}

func (r *PageRepository) Upsert(ctx context.Context, p *repository.Page) error {
	table, err := r.store.ensurePartitionTable(pageDescriptor, p.PageURL)
	if err != nil {
		return err
	}
	_, err = r.store.DB.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(page_url) DO UPDATE SET status_code=excluded.status_code, title=excluded.title,
		 	keywords=excluded.keywords, description=excluded.description, body=excluded.body,
		 	favicon=excluded.favicon, robotstxt=excluded.robotstxt, sitemap=excluded.sitemap,
		 	last_crawled=excluded.last_crawled`, table),
		p.PageURL, p.StatusCode, p.Title, p.Keywords, p.Description, p.Body, p.Favicon, p.RobotsTxt, p.Sitemap, p.LastCrawled)
	return err
}

func (r *PageRepository) InsertSeed(ctx context.Context, pageURL string) error {
	table, err := r.store.ensurePartitionTable(pageDescriptor, pageURL)
	if err != nil {
		return err
	}
	_, err = r.store.DB.ExecContext(ctx, fmt.Sprintf(
		`INSERT OR IGNORE INTO %s (page_url, last_crawled) VALUES (?, ?)`, table),
		pageURL, time.Time{})
	return err
}

func (r *PageRepository) Get(ctx context.Context, pageURL string) (*repository.Page, error) {
	table, err := r.store.ensurePartitionTable(pageDescriptor, pageURL)
	if err != nil {
		return nil, err
	}
	p := &repository.Page{PageURL: pageURL}
	var lastCrawled sql.NullTime
	err = r.store.DB.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled
		 FROM %s WHERE page_url = ?`, table), pageURL,
	).Scan(&p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &lastCrawled)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.LastCrawled = lastCrawled.Time
	return p, nil
}

func (r *PageRepository) Exists(ctx context.Context, pageURL string) (bool, error) {
	_, err := r.Get(ctx, pageURL)
	if err == repository.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListUnscanned issues one query per physical partition and unions the
// results in memory, per spec.md §9's "union reads become N per-partition
// queries merged in memory".
func (r *PageRepository) ListUnscanned(ctx context.Context, limit int) ([]*repository.Page, error) {
	var out []*repository.Page
	for _, table := range allPartitionTableNames(pageDescriptor) {
		if err := r.ensureExists(table); err != nil {
			return nil, err
		}
		rows, err := r.store.DB.QueryContext(ctx, fmt.Sprintf(
			`SELECT page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled
			 FROM %s WHERE last_crawled IS NULL OR last_crawled = ?`, table), time.Time{})
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			p := &repository.Page{}
			var lastCrawled sql.NullTime
			if err := rows.Scan(&p.PageURL, &p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &lastCrawled); err != nil {
				rows.Close()
				return nil, err
			}
			p.LastCrawled = lastCrawled.Time
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				rows.Close()
				return out, nil
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

func (r *PageRepository) ListWithBody(ctx context.Context) ([]*repository.Page, error) {
	var out []*repository.Page
	for _, table := range allPartitionTableNames(pageDescriptor) {
		if err := r.ensureExists(table); err != nil {
			return nil, err
		}
		rows, err := r.store.DB.QueryContext(ctx, fmt.Sprintf(
			`SELECT page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled
			 FROM %s WHERE body IS NOT NULL`, table))
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			p := &repository.Page{}
			var lastCrawled sql.NullTime
			if err := rows.Scan(&p.PageURL, &p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &lastCrawled); err != nil {
				rows.Close()
				return nil, err
			}
			p.LastCrawled = lastCrawled.Time
			out = append(out, p)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

func (r *PageRepository) UpdateLastCrawled(ctx context.Context, pageURL string, when time.Time) error {
	table, err := r.store.ensurePartitionTable(pageDescriptor, pageURL)
	if err != nil {
		return err
	}
	_, err = r.store.DB.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET last_crawled = ? WHERE page_url = ?`, table), when, pageURL)
	return err
}

func (r *PageRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}

// ensureExists lazily creates a specific physical partition table by name,
// used by the cross-partition scans that enumerate every possible
// partition rather than deriving one from a key.
func (r *PageRepository) ensureExists(table string) error {
	stmt := fmt.Sprintf(pageDescriptor.createStmt, table)
	_, err := r.store.DB.Exec(stmt)
	return err
}
