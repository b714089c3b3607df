package console

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/emsotr/arama-cekirdegi/rank"
	"github.com/emsotr/arama-cekirdegi/repository"
)

type fakeIndexRepo struct{ entries []*repository.IndexEntry }

func (f *fakeIndexRepo) WipeAll(ctx context.Context) error                         { return nil }
func (f *fakeIndexRepo) Insert(ctx context.Context, e *repository.IndexEntry) error { return nil }
func (f *fakeIndexRepo) ListByWords(ctx context.Context, words []string) ([]*repository.IndexEntry, error) {
	return f.entries, nil
}
func (f *fakeIndexRepo) Commit(ctx context.Context) error { return nil }

func TestNewRouterServesSearch(t *testing.T) {
	BuildRender()
	ranker := &rank.Ranker{Store: &repository.Store{Index: &fakeIndexRepo{}}}
	router := NewRouter(ranker)

	req := httptest.NewRequest("GET", "/search?q=arama", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSearchMissingQueryReturnsBadRequest(t *testing.T) {
	BuildRender()
	ranker := &rank.Ranker{Store: &repository.Store{Index: &fakeIndexRepo{}}}
	router := NewRouter(ranker)

	req := httptest.NewRequest("GET", "/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
