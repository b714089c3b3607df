package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIPUpsertAndGet(t *testing.T) {
	store := newTestStore(t)
	repo := NewIPRepository(store)
	ctx := context.Background()

	err := repo.Upsert(ctx, &repository.IPRow{Domain: "http://a.example", IP: "1.1.1.1", Port: 80, Status: 200})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := repo.Get(ctx, "http://a.example")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IP != "1.1.1.1" || got.Status != 200 {
		t.Errorf("got %+v", got)
	}
	if !got.Unscanned() {
		t.Error("expected row to be unscanned")
	}
}

func TestIPListUnscanned(t *testing.T) {
	store := newTestStore(t)
	repo := NewIPRepository(store)
	ctx := context.Background()

	repo.Upsert(ctx, &repository.IPRow{Domain: "http://a.example"})
	repo.Upsert(ctx, &repository.IPRow{Domain: "http://b.example", LastCrawled: time.Now()})

	rows, err := repo.ListUnscanned(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Domain != "http://a.example" {
		t.Errorf("expected only a.example unscanned, got %+v", rows)
	}
}

func TestPagePartitionedRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewPageRepository(store)
	ctx := context.Background()

	urls := []string{"http://a.example/p1", "http://zebra.example/p2", "http://9numeric.example/p3"}
	for _, u := range urls {
		if err := repo.InsertSeed(ctx, u); err != nil {
			t.Fatalf("InsertSeed(%v): %v", u, err)
		}
	}

	for _, u := range urls {
		p, err := repo.Get(ctx, u)
		if err != nil {
			t.Fatalf("Get(%v): %v", u, err)
		}
		if p.PageURL != u {
			t.Errorf("got %v, expected %v", p.PageURL, u)
		}
		if !p.Unscanned() {
			t.Errorf("expected seed row %v to be unscanned", u)
		}
	}

	unscanned, err := repo.ListUnscanned(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(unscanned) != len(urls) {
		t.Errorf("expected %d unscanned pages across partitions, got %d", len(urls), len(unscanned))
	}
}

func TestIndexPartitionedRoundTrip(t *testing.T) {
	store := newTestStore(t)
	repo := NewIndexRepository(store)
	ctx := context.Background()

	entries := []*repository.IndexEntry{
		{DocumentURL: "http://a.example/p", Word: "foo", Location: 0, Frequency: 2, Tag: "p"},
		{DocumentURL: "http://a.example/p", Word: "bar", Location: 1, Frequency: 1, Tag: "p"},
	}
	for _, e := range entries {
		if err := repo.Insert(ctx, e); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	got, err := repo.ListByWords(ctx, []string{"foo"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Frequency != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestFrontierSafeInsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	repo := NewFrontierRepository(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.SafeInsert(ctx, "http://x.example"); err != nil {
			t.Fatal(err)
		}
	}
	urls, err := repo.Select(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 {
		t.Errorf("expected 1 frontier entry after repeated safe-insert, got %d", len(urls))
	}
}

func TestBacklinkDeleteBySourceTarget(t *testing.T) {
	store := newTestStore(t)
	repo := NewBacklinkRepository(store)
	ctx := context.Background()

	repo.Insert(ctx, &repository.Backlink{SourceURL: "http://a.example", TargetURL: "http://b.example", AnchorText: "x"})
	repo.Insert(ctx, &repository.Backlink{SourceURL: "http://a.example", TargetURL: "http://c.example", AnchorText: "y"})

	if err := repo.DeleteBySourceTarget(ctx, "http://a.example", "http://b.example"); err != nil {
		t.Fatal(err)
	}
	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].TargetURL != "http://c.example" {
		t.Errorf("got %+v", all)
	}
}
