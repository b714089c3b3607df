package index

import (
	"context"
	"testing"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

type fakeIndexRepo struct {
	wiped   bool
	entries []*repository.IndexEntry
}

func (f *fakeIndexRepo) WipeAll(ctx context.Context) error {
	f.wiped = true
	f.entries = nil
	return nil
}
func (f *fakeIndexRepo) Insert(ctx context.Context, e *repository.IndexEntry) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeIndexRepo) ListByWords(ctx context.Context, words []string) ([]*repository.IndexEntry, error) {
	return f.entries, nil
}
func (f *fakeIndexRepo) Commit(ctx context.Context) error { return nil }

type fakePageRepo struct {
	pages []*repository.Page
}

func (f *fakePageRepo) Upsert(ctx context.Context, p *repository.Page) error      { return nil }
func (f *fakePageRepo) InsertSeed(ctx context.Context, pageURL string) error      { return nil }
func (f *fakePageRepo) Get(ctx context.Context, pageURL string) (*repository.Page, error) {
	return nil, repository.ErrNotFound
}
func (f *fakePageRepo) Exists(ctx context.Context, pageURL string) (bool, error) { return false, nil }
func (f *fakePageRepo) ListUnscanned(ctx context.Context, limit int) ([]*repository.Page, error) {
	return nil, nil
}
func (f *fakePageRepo) ListWithBody(ctx context.Context) ([]*repository.Page, error) {
	return f.pages, nil
}
func (f *fakePageRepo) UpdateLastCrawled(ctx context.Context, pageURL string, when time.Time) error {
	return nil
}
func (f *fakePageRepo) Commit(ctx context.Context) error { return nil }

func TestRebuildWipesThenIndexesPageBodies(t *testing.T) {
	indexRepo := &fakeIndexRepo{}
	pageRepo := &fakePageRepo{pages: []*repository.Page{
		{PageURL: "http://a.example", Body: []byte("<html><h1>Güzel Şehir</h1></html>")},
		{PageURL: "http://b.example", Body: nil},
	}}

	idx := &Indexer{Store: &repository.Store{Index: indexRepo, Page: pageRepo}}
	if err := idx.Rebuild(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !indexRepo.wiped {
		t.Error("expected WipeAll to be called")
	}
	if len(indexRepo.entries) == 0 {
		t.Fatal("expected index entries for the page with a body")
	}
	for _, e := range indexRepo.entries {
		if e.DocumentURL != "http://a.example" {
			t.Errorf("expected entries only for the page with a body, got %v", e.DocumentURL)
		}
	}
}
