// Package frontier implements the URL-frontier resolver stage (spec.md
// §4.6): batch-select frontier entries, resolve, probe, and fold
// reachable hosts into the IP table, grounded on the teacher's
// fetcher.crawlNewHost claim/fetch/unclaim loop shape in fetcher.go.
package frontier

import (
	"context"
	"net"

	"github.com/emsotr/arama-cekirdegi/extract"
	"github.com/emsotr/arama-cekirdegi/httpfetch"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/semaphore"
	"github.com/emsotr/arama-cekirdegi/validate"
	"github.com/emsotr/arama-cekirdegi/weburl"
)

// DefaultLimit is spec.md §4.6's "up to limit (default 500) entries".
const DefaultLimit = 500

// Resolver runs one pass of the URL-frontier resolver stage.
type Resolver struct {
	Store      *repository.Store
	Fetch      *httpfetch.Client
	MaxWorkers int
}

// Run selects up to limit frontier entries and resolves each per spec.md
// §4.6, then commits IP, removes IP.domain duplicates, and commits the
// frontier, all at batch end.
func (r *Resolver) Run(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = DefaultLimit
	}

	entries, err := r.Store.Frontier.Select(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	sem := semaphore.New(r.MaxWorkers)
	done := make(chan struct{}, len(entries))
	for _, raw := range entries {
		raw := raw
		sem.Acquire()
		go func() {
			defer sem.Release()
			defer func() { done <- struct{}{} }()
			r.resolveOne(ctx, raw)
		}()
	}
	for range entries {
		<-done
	}

	if err := r.Store.IP.Commit(ctx); err != nil {
		logging.Warn("frontier: IP commit failed: %v", err)
	}
	if err := r.Store.IP.RemoveDuplicates(ctx); err != nil {
		logging.Warn("frontier: RemoveDuplicates failed: %v", err)
	}
	if err := r.Store.Frontier.Commit(ctx); err != nil {
		logging.Warn("frontier: frontier commit failed: %v", err)
	}
	return nil
}

func (r *Resolver) resolveOne(ctx context.Context, raw string) {
	u, err := weburl.ParseAndNormalize(raw)
	if err != nil {
		r.deleteEntry(ctx, raw)
		return
	}
	base := u.BaseURL()

	port := 80
	if u.Scheme == "https" {
		port = 443
	}

	// DNS resolution failure only means we skip scoring this host; the
	// fetch is still attempted against the hostname directly.
	addrs, dnsErr := net.LookupHost(u.Hostname())

	resp, err := r.Fetch.Fetch(ctx, base)
	if err != nil {
		r.deleteEntry(ctx, raw)
		return
	}

	_, signals := extract.Meta(resp.Body)
	failures := validate.Check(resp, nil, signals)
	if len(failures) > 0 {
		r.deleteEntry(ctx, raw)
		return
	}

	if dnsErr == nil && len(addrs) > 0 {
		if _, err := r.Store.IP.Get(ctx, base); err == repository.ErrNotFound {
			row := &repository.IPRow{
				Domain: base,
				IP:     addrs[0],
				Port:   port,
				Status: resp.StatusCode,
			}
			if err := r.Store.IP.Upsert(ctx, row); err != nil {
				logging.Warn("frontier: IP upsert failed for %v: %v", raw, err)
			}
		}
	}

	r.deleteEntry(ctx, raw)
}

func (r *Resolver) deleteEntry(ctx context.Context, raw string) {
	if err := r.Store.Frontier.Delete(ctx, raw); err != nil {
		logging.Warn("frontier: delete failed for %v: %v", raw, err)
	}
}
