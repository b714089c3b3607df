package cassandra

import (
	"context"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

// PageRepository implements repository.PageRepository against the page
// table.
type PageRepository struct {
	store *Store
}

func NewPageRepository(store *Store) *PageRepository {
	return &PageRepository{store: store}
}

func (r *PageRepository) Upsert(ctx context.Context, p *repository.Page) error {
	return r.store.Session.Query(
		`INSERT INTO page (page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PageURL, p.StatusCode, p.Title, p.Keywords, p.Description, p.Body, p.Favicon, p.RobotsTxt, p.Sitemap, p.LastCrawled,
	).WithContext(ctx).Exec()
}

func (r *PageRepository) InsertSeed(ctx context.Context, pageURL string) error {
	return r.store.Session.Query(
		`INSERT INTO page (page_url, last_crawled) VALUES (?, ?) IF NOT EXISTS`,
		pageURL, time.Time{},
	).WithContext(ctx).Exec()
}

func (r *PageRepository) Get(ctx context.Context, pageURL string) (*repository.Page, error) {
	p := &repository.Page{PageURL: pageURL}
	err := r.store.Session.Query(
		`SELECT status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled
		 FROM page WHERE page_url = ?`, pageURL,
	).WithContext(ctx).Scan(&p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &p.LastCrawled)
	if err != nil {
		if err.Error() == "not found" {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
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

func (r *PageRepository) ListUnscanned(ctx context.Context, limit int) ([]*repository.Page, error) {
	iter := r.store.Session.Query(
		`SELECT page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled
		 FROM page WHERE last_crawled = ? ALLOW FILTERING`, time.Time{},
	).WithContext(ctx).Iter()

	var pages []*repository.Page
	p := &repository.Page{}
	for iter.Scan(&p.PageURL, &p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &p.LastCrawled) {
		pageCopy := *p
		pages = append(pages, &pageCopy)
		if limit > 0 && len(pages) >= limit {
			break
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepository) ListWithBody(ctx context.Context) ([]*repository.Page, error) {
	iter := r.store.Session.Query(
		`SELECT page_url, status_code, title, keywords, description, body, favicon, robotstxt, sitemap, last_crawled FROM page`,
	).WithContext(ctx).Iter()

	var pages []*repository.Page
	p := &repository.Page{}
	for iter.Scan(&p.PageURL, &p.StatusCode, &p.Title, &p.Keywords, &p.Description, &p.Body, &p.Favicon, &p.RobotsTxt, &p.Sitemap, &p.LastCrawled) {
		if p.Body != nil {
			pageCopy := *p
			pages = append(pages, &pageCopy)
		}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageRepository) UpdateLastCrawled(ctx context.Context, pageURL string, when time.Time) error {
	return r.store.Session.Query(
		`UPDATE page SET last_crawled = ? WHERE page_url = ?`, when, pageURL,
	).WithContext(ctx).Exec()
}

func (r *PageRepository) Commit(ctx context.Context) error {
	return repository.WithRetry(ctx, isRecoverable, func(context.Context) error { return nil })
}
