package frontier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emsotr/arama-cekirdegi/httpfetch"
	"github.com/emsotr/arama-cekirdegi/repository"
)

type fakeIPRepo struct {
	upserts []*repository.IPRow
}

func (f *fakeIPRepo) Upsert(ctx context.Context, row *repository.IPRow) error {
	f.upserts = append(f.upserts, row)
	return nil
}
func (f *fakeIPRepo) Get(ctx context.Context, domain string) (*repository.IPRow, error) {
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
func (f *fakeIPRepo) Count(ctx context.Context) (int, error)                           { return len(f.upserts), nil }
func (f *fakeIPRepo) Commit(ctx context.Context) error                                 { return nil }

type fakeFrontierRepo struct {
	entries []string
	deleted []string
}

func (f *fakeFrontierRepo) SafeInsert(ctx context.Context, url string) error { return nil }
func (f *fakeFrontierRepo) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}
func (f *fakeFrontierRepo) Select(ctx context.Context, limit int) ([]string, error) {
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}
func (f *fakeFrontierRepo) Commit(ctx context.Context) error { return nil }

func TestRunResolvesReachableHostAndDeletesEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Language", "tr")
		w.Write([]byte("<html>merhaba</html>"))
	}))
	defer srv.Close()

	ipRepo := &fakeIPRepo{}
	frontierRepo := &fakeFrontierRepo{entries: []string{srv.URL + "/some/path"}}

	r := &Resolver{
		Store: &repository.Store{IP: ipRepo, Frontier: frontierRepo},
		Fetch: httpfetch.New("test-agent", 2*time.Second, nil),
		MaxWorkers: 2,
	}
	if err := r.Run(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if len(frontierRepo.deleted) != 1 {
		t.Fatalf("expected frontier entry deleted, got %v", frontierRepo.deleted)
	}
}

func TestRunDeletesUnreachableEntry(t *testing.T) {
	ipRepo := &fakeIPRepo{}
	frontierRepo := &fakeFrontierRepo{entries: []string{"http://127.0.0.1:1/unreachable"}}

	r := &Resolver{
		Store:      &repository.Store{IP: ipRepo, Frontier: frontierRepo},
		Fetch:      httpfetch.New("test-agent", 1*time.Second, nil),
		MaxWorkers: 2,
	}
	if err := r.Run(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if len(frontierRepo.deleted) != 1 {
		t.Fatalf("expected unreachable entry deleted, got %v", frontierRepo.deleted)
	}
	if len(ipRepo.upserts) != 0 {
		t.Fatalf("expected no IP upsert for unreachable host, got %v", ipRepo.upserts)
	}
}
