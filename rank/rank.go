// Package rank implements the ranker (spec.md §4.10): retrieve candidate
// documents for a tokenized query, score them via a weighted blend of
// TF-IDF, authority, tag-weight, and proximity sub-scores, and return the
// top-K with metadata attached. This is a REDESIGN from
// original_source/src/modules/pagerank.py's multiplicative scheme to
// spec.md's normalize-then-linearly-blend model; the normalization
// methods themselves are grounded on original_source's normalizer.py.
package rank

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/weburl"
)

// WordFrequency is one query word's first matched occurrence in a
// candidate document.
type WordFrequency struct {
	Word      string
	Frequency int
	Locations []int
	Tag       string
}

// Document is one ranked candidate, built up through the pipeline and
// returned with metadata attached at the end.
type Document struct {
	URL             string
	WordFrequencies []WordFrequency
	Score           float64
	Title           string
	Description     string
}

// Ranker answers queries against the repository's DocumentIndex/IP/Page
// tables.
type Ranker struct {
	Store      *repository.Store
	Weights    config.RankWeights
	Method     Method
	TagWeights map[string]float64
}

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// tokenizeQuery lowercases and strips non-alphanumeric characters, per
// spec.md §4.10 step 1.
func tokenizeQuery(query string) []string {
	q := strings.ToLower(query)
	q = nonAlnum.ReplaceAllString(q, " ")
	return strings.Fields(q)
}

func (r *Ranker) tagWeight(tag string) float64 {
	tagWeights := r.TagWeights
	if tagWeights == nil {
		tagWeights = config.DefaultTagWeights
	}
	if w, ok := tagWeights[tag]; ok {
		return w
	}
	return 1.0
}

func (r *Ranker) weights() config.RankWeights {
	w := r.Weights
	if w == (config.RankWeights{}) {
		return config.DefaultRankWeights
	}
	return w
}

// Search runs the full ranking pipeline for query and returns the top K
// documents plus the total candidate count (after the pinning re-insert),
// per spec.md §4.10's contract.
func (r *Ranker) Search(ctx context.Context, query string, k int) ([]Document, int, error) {
	words := tokenizeQuery(query)
	if len(words) == 0 {
		return nil, 0, nil
	}

	entries, err := r.Store.Index.ListByWords(ctx, words)
	if err != nil {
		return nil, 0, err
	}
	if len(entries) == 0 {
		return nil, 0, nil
	}

	docs, docWords := aggregate(words, entries)
	if len(docs) == 0 {
		return nil, 0, nil
	}

	idf := r.tfidf(words, docs, docWords)

	pinned, remaining := pin(docs)

	authority := r.authorityScores(ctx, remaining)
	tagWeight := r.tagWeightScores(remaining)
	proximity := proximityScores(words, remaining)
	idfRemaining := subset(idf, docs, remaining)

	method := r.Method
	w := r.weights()

	normIDF := normalize(method, idfRemaining)
	normAuthority := normalize(method, authority)
	normTag := normalize(method, tagWeight)
	normProximity := normalize(method, proximity)

	for i, doc := range remaining {
		doc.Score = w.IDF*normIDF[i] + w.Authority*normAuthority[i] + w.Weights*normTag[i] + w.Proximity*normProximity[i]
		remaining[i] = doc
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		if remaining[i].Score != remaining[j].Score {
			return remaining[i].Score > remaining[j].Score
		}
		return remaining[i].URL < remaining[j].URL
	})

	final := make([]Document, 0, len(remaining)+1)
	if pinned != nil {
		final = append(final, *pinned)
	}
	final = append(final, remaining...)

	total := len(final)
	if k > 0 && len(final) > k {
		final = final[:k]
	}

	r.attachMetadata(ctx, final)
	return final, total, nil
}

// aggregate groups DocumentIndex rows by document_url, keeping the first
// matched (word, frequency, location, tag) per query word, per spec.md
// §4.10 step 2. docWords maps document_url -> set of query words present,
// used by the df(w) count in tfidf.
func aggregate(words []string, entries []*repository.IndexEntry) (map[string]*Document, map[string]map[string]bool) {
	wantWords := make(map[string]bool, len(words))
	for _, w := range words {
		wantWords[w] = true
	}

	docs := make(map[string]*Document)
	docWords := make(map[string]map[string]bool)
	seen := make(map[string]map[string]bool) // document_url -> word -> already recorded

	for _, e := range entries {
		if !wantWords[e.Word] {
			continue
		}
		doc, ok := docs[e.DocumentURL]
		if !ok {
			doc = &Document{URL: e.DocumentURL}
			docs[e.DocumentURL] = doc
			docWords[e.DocumentURL] = make(map[string]bool)
			seen[e.DocumentURL] = make(map[string]bool)
		}
		docWords[e.DocumentURL][e.Word] = true

		if seen[e.DocumentURL][e.Word] {
			// Already recorded this word's first occurrence; still track
			// every location for the proximity sub-score.
			for i := range doc.WordFrequencies {
				if doc.WordFrequencies[i].Word == e.Word {
					doc.WordFrequencies[i].Locations = append(doc.WordFrequencies[i].Locations, e.Location)
					break
				}
			}
			continue
		}
		seen[e.DocumentURL][e.Word] = true
		doc.WordFrequencies = append(doc.WordFrequencies, WordFrequency{
			Word:      e.Word,
			Frequency: e.Frequency,
			Locations: []int{e.Location},
			Tag:       e.Tag,
		})
	}

	return docs, docWords
}

// tfidf computes each document's TF-IDF sub-score (spec.md §4.10 step 3),
// keyed by document_url.
func (r *Ranker) tfidf(words []string, docs map[string]*Document, docWords map[string]map[string]bool) map[string]float64 {
	n := float64(len(docs))
	df := make(map[string]int, len(words))
	for _, word := range words {
		for _, present := range docWords {
			if present[word] {
				df[word]++
			}
		}
	}

	scores := make(map[string]float64, len(docs))
	for url, doc := range docs {
		var score float64
		for _, wf := range doc.WordFrequencies {
			if df[wf.Word] == 0 {
				continue
			}
			score += float64(wf.Frequency) * math.Log10(n/float64(df[wf.Word]))
		}
		scores[url] = score
	}
	return scores
}

// pin extracts the candidate with the greatest first-word frequency
// (spec.md §4.10 step 4) to be re-inserted at position 0 after sorting.
func pin(docs map[string]*Document) (pinned *Document, remaining []Document) {
	var pinnedURL string
	var best int = -1
	for url, doc := range docs {
		if len(doc.WordFrequencies) == 0 {
			continue
		}
		freq := doc.WordFrequencies[0].Frequency
		if freq > best || (freq == best && url < pinnedURL) {
			best = freq
			pinnedURL = url
		}
	}

	for url, doc := range docs {
		if url == pinnedURL {
			copied := *doc
			pinned = &copied
			continue
		}
		remaining = append(remaining, *doc)
	}
	return pinned, remaining
}

func subset(idf map[string]float64, docs map[string]*Document, remaining []Document) []float64 {
	out := make([]float64, len(remaining))
	for i, doc := range remaining {
		out[i] = idf[doc.URL]
	}
	return out
}

func (r *Ranker) authorityScores(ctx context.Context, docs []Document) []float64 {
	out := make([]float64, len(docs))
	for i, doc := range docs {
		u, err := weburl.Parse(doc.URL)
		if err != nil {
			continue
		}
		row, err := r.Store.IP.Get(ctx, u.BaseURL())
		if err != nil {
			continue
		}
		out[i] = row.Score
	}
	return out
}

func (r *Ranker) tagWeightScores(docs []Document) []float64 {
	out := make([]float64, len(docs))
	for i, doc := range docs {
		if len(doc.WordFrequencies) == 0 {
			continue
		}
		var total float64
		for _, wf := range doc.WordFrequencies {
			total += r.tagWeight(wf.Tag)
		}
		out[i] = total / float64(len(doc.WordFrequencies))
	}
	return out
}

// proximityScores computes the minimum pairwise |loc_i - loc_j| across any
// two distinct query words' location lists, mapped to 1/(1+min_distance);
// 1.0 when fewer than two distinct query words were found in the
// document, per spec.md §4.10 step 5.
func proximityScores(words []string, docs []Document) []float64 {
	out := make([]float64, len(docs))
	for i, doc := range docs {
		if len(doc.WordFrequencies) < 2 {
			out[i] = 1.0
			continue
		}
		minDist := -1
		for a := 0; a < len(doc.WordFrequencies); a++ {
			for b := a + 1; b < len(doc.WordFrequencies); b++ {
				for _, la := range doc.WordFrequencies[a].Locations {
					for _, lb := range doc.WordFrequencies[b].Locations {
						d := la - lb
						if d < 0 {
							d = -d
						}
						if minDist == -1 || d < minDist {
							minDist = d
						}
					}
				}
			}
		}
		if minDist == -1 {
			out[i] = 1.0
			continue
		}
		out[i] = 1.0 / (1.0 + float64(minDist))
	}
	return out
}

func (r *Ranker) attachMetadata(ctx context.Context, docs []Document) {
	for i := range docs {
		page, err := r.Store.Page.Get(ctx, docs[i].URL)
		if err != nil {
			continue
		}
		docs[i].Title = page.Title
		docs[i].Description = page.Description
	}
}
