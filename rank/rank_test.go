package rank

import (
	"context"
	"testing"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

func TestZScoreZeroStddevYieldsZeroVector(t *testing.T) {
	out := zScore([]float64{5, 5, 5})
	for _, v := range out {
		if v != 0 {
			t.Errorf("expected zero vector, got %v", out)
		}
	}
}

func TestMinMaxEqualYieldsOnesVector(t *testing.T) {
	out := minMax([]float64{3, 3, 3})
	for _, v := range out {
		if v != 1.0 {
			t.Errorf("expected ones vector, got %v", out)
		}
	}
}

func TestExpTransform(t *testing.T) {
	out := expTransform([]float64{0})
	if out[0] != 0 {
		t.Errorf("expected 1-e^0=0, got %v", out[0])
	}
}

type fakeIndexRepo struct {
	entries []*repository.IndexEntry
}

func (f *fakeIndexRepo) WipeAll(ctx context.Context) error                         { return nil }
func (f *fakeIndexRepo) Insert(ctx context.Context, e *repository.IndexEntry) error { return nil }
func (f *fakeIndexRepo) ListByWords(ctx context.Context, words []string) ([]*repository.IndexEntry, error) {
	return f.entries, nil
}
func (f *fakeIndexRepo) Commit(ctx context.Context) error { return nil }

type fakeIPRepo struct{ rows map[string]*repository.IPRow }

func (f *fakeIPRepo) Upsert(ctx context.Context, row *repository.IPRow) error { return nil }
func (f *fakeIPRepo) Get(ctx context.Context, domain string) (*repository.IPRow, error) {
	if row, ok := f.rows[domain]; ok {
		return row, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeIPRepo) ListUnscanned(ctx context.Context, limit int) ([]*repository.IPRow, error) {
	return nil, nil
}
func (f *fakeIPRepo) UpdateLastCrawled(ctx context.Context, domain string, when time.Time) error {
	return nil
}
func (f *fakeIPRepo) SetScore(ctx context.Context, domain string, score float64) error { return nil }
func (f *fakeIPRepo) ZeroAllScores(ctx context.Context) error                          { return nil }
func (f *fakeIPRepo) RemoveDuplicates(ctx context.Context) error                       { return nil }
func (f *fakeIPRepo) Count(ctx context.Context) (int, error)                           { return len(f.rows), nil }
func (f *fakeIPRepo) Commit(ctx context.Context) error                                 { return nil }

type fakePageRepo struct{ pages map[string]*repository.Page }

func (f *fakePageRepo) Upsert(ctx context.Context, p *repository.Page) error { return nil }
func (f *fakePageRepo) InsertSeed(ctx context.Context, pageURL string) error { return nil }
func (f *fakePageRepo) Get(ctx context.Context, pageURL string) (*repository.Page, error) {
	if p, ok := f.pages[pageURL]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakePageRepo) Exists(ctx context.Context, pageURL string) (bool, error) { return false, nil }
func (f *fakePageRepo) ListUnscanned(ctx context.Context, limit int) ([]*repository.Page, error) {
	return nil, nil
}
func (f *fakePageRepo) ListWithBody(ctx context.Context) ([]*repository.Page, error) { return nil, nil }
func (f *fakePageRepo) UpdateLastCrawled(ctx context.Context, pageURL string, when time.Time) error {
	return nil
}
func (f *fakePageRepo) Commit(ctx context.Context) error { return nil }

func TestSearchReturnsPinnedFirstAndAttachesMetadata(t *testing.T) {
	entries := []*repository.IndexEntry{
		{DocumentURL: "http://a.example/1", Word: "arama", Frequency: 5, Location: 0, Tag: "title"},
		{DocumentURL: "http://b.example/2", Word: "arama", Frequency: 1, Location: 10, Tag: "p"},
		{DocumentURL: "http://b.example/2", Word: "motoru", Frequency: 1, Location: 12, Tag: "p"},
	}
	indexRepo := &fakeIndexRepo{entries: entries}
	ipRepo := &fakeIPRepo{rows: map[string]*repository.IPRow{}}
	pageRepo := &fakePageRepo{pages: map[string]*repository.Page{
		"http://a.example/1": {PageURL: "http://a.example/1", Title: "A"},
		"http://b.example/2": {PageURL: "http://b.example/2", Title: "B"},
	}}

	r := &Ranker{Store: &repository.Store{Index: indexRepo, IP: ipRepo, Page: pageRepo}}
	docs, total, err := r.Search(context.Background(), "arama motoru", 10)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("expected 2 total candidates, got %d", total)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 returned docs, got %d", len(docs))
	}
	if docs[0].URL != "http://a.example/1" {
		t.Errorf("expected pinned doc (highest first-word frequency) first, got %v", docs[0].URL)
	}
	if docs[0].Title != "A" || docs[1].Title != "B" {
		t.Errorf("expected metadata attached, got %+v", docs)
	}
}

func TestSearchEmptyQueryReturnsEmpty(t *testing.T) {
	r := &Ranker{Store: &repository.Store{}}
	docs, total, err := r.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatal(err)
	}
	if docs != nil || total != 0 {
		t.Errorf("expected empty result for empty query, got %v/%d", docs, total)
	}
}
