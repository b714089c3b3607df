// Package index implements the indexer stage (spec.md §4.8): wipe the
// DocumentIndex, re-tokenize every crawled Page body, and re-populate it.
// Grounded on the teacher's parse.go tokenizer reused here via extract,
// and on cassandra's per-partition table pattern for the physical
// DocumentIndex layout (repository/sqlite's index.go).
package index

import (
	"context"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/extract"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
)

// Indexer rebuilds the DocumentIndex from Page bodies.
type Indexer struct {
	Store      *repository.Store
	TagWeights map[string]float64
	MaxLength  int
}

// Rebuild wipes the DocumentIndex in one call, then iterates pages with
// non-null bodies, tokenizing each and emitting one row per
// (document_url, word, location, tag), committing after each page.
func (idx *Indexer) Rebuild(ctx context.Context) error {
	if err := idx.Store.Index.WipeAll(ctx); err != nil {
		return err
	}

	pages, err := idx.Store.Page.ListWithBody(ctx)
	if err != nil {
		return err
	}

	maxLength := idx.MaxLength
	if maxLength <= 0 {
		maxLength = 100000
	}
	tagWeights := idx.TagWeights
	if tagWeights == nil {
		tagWeights = config.DefaultTagWeights
	}

	for _, page := range pages {
		idx.indexPage(ctx, page, tagWeights, maxLength)
	}
	return nil
}

func (idx *Indexer) indexPage(ctx context.Context, page *repository.Page, tagWeights map[string]float64, maxLength int) {
	if len(page.Body) == 0 {
		return
	}

	// UTF-8 decode errors are ignored per spec.md §4.8: invalid
	// sequences simply drop out during tokenization rather than
	// aborting the page.
	body := string(page.Body)
	tokens, freq := extract.Tokens(body, maxLength, tagWeights)

	type key struct {
		word     string
		location int
		tag      string
	}
	seen := make(map[key]bool, len(tokens))
	for _, tok := range tokens {
		k := key{tok.Word, tok.Location, tok.Tag}
		if seen[k] {
			continue
		}
		seen[k] = true

		entry := &repository.IndexEntry{
			DocumentURL: page.PageURL,
			Word:        tok.Word,
			Frequency:   freq[tok.Word],
			Location:    tok.Location,
			Tag:         tok.Tag,
		}
		if err := idx.Store.Index.Insert(ctx, entry); err != nil {
			logging.Warn("index: insert failed for %v/%v: %v", page.PageURL, tok.Word, err)
		}
	}

	if err := idx.Store.Index.Commit(ctx); err != nil {
		logging.Warn("index: commit failed for %v: %v", page.PageURL, err)
	}
}
