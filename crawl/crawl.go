// Package crawl implements the page crawler stage (spec.md §4.7):
// proportional IP/Page selection, fetch+validate, Page upsert, backlink
// replay, and seed/frontier link propagation. Grounded directly on the
// teacher's fetchAndHandle/parseLinks control flow in fetcher.go and
// parse.go, adapted from per-host robots-aware crawling to the spec's
// per-row task model.
package crawl

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/emsotr/arama-cekirdegi/extract"
	"github.com/emsotr/arama-cekirdegi/httpfetch"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/semaphore"
	"github.com/emsotr/arama-cekirdegi/stopflag"
	"github.com/emsotr/arama-cekirdegi/validate"
)

// DefaultLimit is the batch size the orchestrator passes when the caller
// has no stronger opinion.
const DefaultLimit = 500

// EmptyBatchSleep is how long a worker idles when both selection pools are
// empty, per spec.md §4.7.
const EmptyBatchSleep = 30 * time.Second

// Crawler runs one batch of the page crawler stage.
type Crawler struct {
	Store      *repository.Store
	Fetch      *httpfetch.Client
	MaxWorkers int
	Stop       *stopflag.Flag
}

type source int

const (
	fromIP source = iota
	fromPage
)

type task struct {
	url    string
	scheme string
	src    source
	ip     *repository.IPRow
	page   *repository.Page
}

// RunBatch selects up to limit rows (proportionally split between
// unscanned IP and unscanned Page rows), crawls each, and commits in
// IP/Page/Frontier/Backlink order. Returns true if it actually slept
// because both selection pools were empty.
func (c *Crawler) RunBatch(ctx context.Context, limit int) (slept bool, err error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ipRows, err := c.Store.IP.ListUnscanned(ctx, limit)
	if err != nil {
		return false, err
	}
	pageRows, err := c.Store.Page.ListUnscanned(ctx, limit)
	if err != nil {
		return false, err
	}

	rand.Shuffle(len(ipRows), func(i, j int) { ipRows[i], ipRows[j] = ipRows[j], ipRows[i] })
	rand.Shuffle(len(pageRows), func(i, j int) { pageRows[i], pageRows[j] = pageRows[j], pageRows[i] })

	if len(ipRows) == 0 && len(pageRows) == 0 {
		time.Sleep(EmptyBatchSleep)
		return true, nil
	}

	ipLimit, pageLimit := splitLimit(limit, len(ipRows), len(pageRows))
	tasks := buildTasks(ipRows[:ipLimit], pageRows[:pageLimit])

	sem := semaphore.New(c.MaxWorkers)
	var wg sync.WaitGroup
	for _, t := range tasks {
		if c.Stop.Stopped() {
			break
		}
		sem.Acquire()
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			defer sem.Release()
			c.runTask(ctx, t)
		}(t)
	}
	wg.Wait()

	c.commitBatch(ctx)
	return false, nil
}

// splitLimit implements spec.md §4.7's proportional split with a
// one-item reservation rule: neither side is starved to zero if it has
// at least one candidate row.
func splitLimit(limit, nIP, nPage int) (ipLimit, pageLimit int) {
	total := nIP + nPage
	if total == 0 {
		return 0, 0
	}
	ipLimit = limit * nIP / total
	pageLimit = limit - ipLimit

	if ipLimit == 0 && nIP >= 1 {
		ipLimit = 1
		if pageLimit > 0 {
			pageLimit--
		}
	}
	if pageLimit == 0 && nPage >= 1 {
		pageLimit = 1
		if ipLimit > 0 {
			ipLimit--
		}
	}
	if ipLimit > nIP {
		ipLimit = nIP
	}
	if pageLimit > nPage {
		pageLimit = nPage
	}
	return ipLimit, pageLimit
}

func buildTasks(ipRows []*repository.IPRow, pageRows []*repository.Page) []task {
	tasks := make([]task, 0, len(ipRows)+len(pageRows))
	for _, row := range ipRows {
		domain := row.Domain
		if domain == "" {
			domain = row.IP
		}
		scheme := "http"
		if row.Port == 443 {
			scheme = "https"
		}
		tasks = append(tasks, task{url: domain, scheme: scheme, src: fromIP, ip: row})
	}
	for _, row := range pageRows {
		tasks = append(tasks, task{url: row.PageURL, src: fromPage, page: row})
	}
	return tasks
}

func (c *Crawler) runTask(ctx context.Context, t task) {
	defer func() {
		if r := recover(); r != nil {
			logging.Critical("crawl: task for %v panicked: %v", t.url, r)
		}
	}()

	target := t.url
	if t.scheme != "" && !strings.Contains(target, "://") {
		target = t.scheme + "://" + target
	}

	resp, err := c.Fetch.Fetch(ctx, target)
	if err != nil {
		return
	}

	meta, signals := extract.Meta(resp.Body)
	failures := validate.Check(resp, nil, signals)
	if len(failures) > 0 {
		return
	}

	now := time.Now()
	page := &repository.Page{
		PageURL:     resp.URL,
		StatusCode:  resp.StatusCode,
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    strings.Join(meta.Keywords, ","),
		Body:        resp.ContentBytes,
		Favicon:     extract.Favicon(ctx, c.Fetch, resp),
		RobotsTxt:   extract.RobotsTxt(ctx, c.Fetch, extract.BaseURL(resp.URL)),
		Sitemap:     extract.Sitemap(ctx, c.Fetch, extract.BaseURL(resp.URL)),
		LastCrawled: now,
	}
	if err := c.Store.Page.Upsert(ctx, page); err != nil {
		logging.Warn("crawl: page upsert failed for %v: %v", resp.URL, err)
	}

	switch t.src {
	case fromIP:
		if err := c.Store.IP.UpdateLastCrawled(ctx, t.ip.Domain, now); err != nil {
			logging.Warn("crawl: IP last_crawled update failed for %v: %v", t.ip.Domain, err)
		}
	case fromPage:
		if err := c.Store.Page.UpdateLastCrawled(ctx, t.page.PageURL, now); err != nil {
			logging.Warn("crawl: page last_crawled update failed for %v: %v", t.page.PageURL, err)
		}
	}

	c.propagateLinks(ctx, resp.URL, extract.Links(resp))
}

// propagateLinks replays backlinks for every (source, target) pair found
// in this crawl, inserts Page seeds for unseen internal targets, and
// frontier-queues unseen external hosts, per spec.md §4.7.
func (c *Crawler) propagateLinks(ctx context.Context, sourceURL string, links []extract.Link) {
	seenTargets := make(map[string]bool)
	for _, l := range links {
		if l.Type == extract.Invalid || seenTargets[l.FullURL] {
			continue
		}
		seenTargets[l.FullURL] = true
		if err := c.Store.Backlink.DeleteBySourceTarget(ctx, sourceURL, l.FullURL); err != nil {
			logging.Warn("crawl: backlink delete failed for %v -> %v: %v", sourceURL, l.FullURL, err)
		}
	}

	for _, l := range links {
		switch l.Type {
		case extract.Internal:
			exists, err := c.Store.Page.Exists(ctx, l.FullURL)
			if err == nil && !exists {
				if err := c.Store.Page.InsertSeed(ctx, l.FullURL); err != nil {
					logging.Warn("crawl: seed insert failed for %v: %v", l.FullURL, err)
				}
			}
		case extract.External:
			base := extract.BaseURL(l.FullURL)
			if _, err := c.Store.IP.Get(ctx, base); err == repository.ErrNotFound {
				if err := c.Store.Frontier.SafeInsert(ctx, l.FullURL); err != nil {
					logging.Warn("crawl: frontier insert failed for %v: %v", l.FullURL, err)
				}
			}
		default:
			continue
		}

		if err := c.Store.Backlink.Insert(ctx, &repository.Backlink{
			SourceURL: sourceURL, TargetURL: l.FullURL, AnchorText: l.AnchorText,
		}); err != nil {
			logging.Warn("crawl: backlink insert failed for %v -> %v: %v", sourceURL, l.FullURL, err)
		}
	}
}

func (c *Crawler) commitBatch(ctx context.Context) {
	if err := c.Store.IP.Commit(ctx); err != nil {
		logging.Warn("crawl: IP commit failed: %v", err)
	}
	if err := c.Store.Page.Commit(ctx); err != nil {
		logging.Warn("crawl: page commit failed: %v", err)
	}
	if err := c.Store.Frontier.Commit(ctx); err != nil {
		logging.Warn("crawl: frontier commit failed: %v", err)
	}
	if err := c.Store.Backlink.Commit(ctx); err != nil {
		logging.Warn("crawl: backlink commit failed: %v", err)
	}
}
