// Package analyze implements the backlink analyzer stage (spec.md §4.9):
// recompute every IP row's score from the current Backlink graph.
// Grounded on the teacher's dispatcher.go domain-iteration shape
// (iterate every known domain, look up related state, update it).
package analyze

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/weburl"
)

// Analyzer recomputes IP scores from the Backlink table.
type Analyzer struct {
	Store *repository.Store
}

// Run executes spec.md §4.9's ordered steps: dedup IP rows, zero scores,
// walk every backlink incrementing the target's score unless it is a
// same-domain or same-registered-domain pair, then commit.
func (a *Analyzer) Run(ctx context.Context) error {
	if err := a.Store.IP.RemoveDuplicates(ctx); err != nil {
		return err
	}
	if err := a.Store.IP.ZeroAllScores(ctx); err != nil {
		return err
	}

	backlinks, err := a.Store.Backlink.ListAll(ctx)
	if err != nil {
		return err
	}

	scores := make(map[string]float64)
	for _, bl := range backlinks {
		sourceBase, targetBase, ok := baseURLs(bl.SourceURL, bl.TargetURL)
		if !ok || sourceBase == targetBase {
			continue
		}
		if sameRegisteredDomain(sourceBase, targetBase) {
			continue
		}

		if _, err := a.Store.IP.Get(ctx, targetBase); err == repository.ErrNotFound {
			continue
		} else if err != nil {
			logging.Warn("analyze: IP lookup failed for %v: %v", targetBase, err)
			continue
		}
		scores[targetBase]++
	}

	for domain, score := range scores {
		if err := a.Store.IP.SetScore(ctx, domain, score); err != nil {
			logging.Warn("analyze: set score failed for %v: %v", domain, err)
		}
	}

	return a.Store.IP.Commit(ctx)
}

func baseURLs(sourceURL, targetURL string) (sourceBase, targetBase string, ok bool) {
	source, err := weburl.Parse(sourceURL)
	if err != nil {
		return "", "", false
	}
	target, err := weburl.Parse(targetURL)
	if err != nil {
		return "", "", false
	}
	return source.BaseURL(), target.BaseURL(), true
}

// sameRegisteredDomain compares the last two labels of each base URL's
// hostname, per spec.md §4.9/§9's documented heuristic (see
// weburl.SameRegisteredDomain for the preserved quirk this mirrors).
func sameRegisteredDomain(sourceBase, targetBase string) bool {
	source, err := weburl.Parse(sourceBase)
	if err != nil {
		return false
	}
	target, err := weburl.Parse(targetBase)
	if err != nil {
		return false
	}
	return weburl.SameRegisteredDomain(source, target)
}
