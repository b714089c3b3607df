package analyze

import (
	"context"
	"testing"
	"time"

	"github.com/emsotr/arama-cekirdegi/repository"
)

type fakeIPRepo struct {
	rows    map[string]*repository.IPRow
	zeroed  bool
	deduped bool
}

func newFakeIPRepo() *fakeIPRepo { return &fakeIPRepo{rows: map[string]*repository.IPRow{}} }

func (f *fakeIPRepo) Upsert(ctx context.Context, row *repository.IPRow) error {
	f.rows[row.Domain] = row
	return nil
}
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
func (f *fakeIPRepo) SetScore(ctx context.Context, domain string, score float64) error {
	if row, ok := f.rows[domain]; ok {
		row.Score = score
	}
	return nil
}
func (f *fakeIPRepo) ZeroAllScores(ctx context.Context) error {
	f.zeroed = true
	for _, row := range f.rows {
		row.Score = 0
	}
	return nil
}
func (f *fakeIPRepo) RemoveDuplicates(ctx context.Context) error { f.deduped = true; return nil }
func (f *fakeIPRepo) Count(ctx context.Context) (int, error)     { return len(f.rows), nil }
func (f *fakeIPRepo) Commit(ctx context.Context) error           { return nil }

type fakeBacklinkRepo struct {
	links []*repository.Backlink
}

func (f *fakeBacklinkRepo) DeleteBySourceTarget(ctx context.Context, source, target string) error {
	return nil
}
func (f *fakeBacklinkRepo) Insert(ctx context.Context, b *repository.Backlink) error {
	f.links = append(f.links, b)
	return nil
}
func (f *fakeBacklinkRepo) ListAll(ctx context.Context) ([]*repository.Backlink, error) {
	return f.links, nil
}
func (f *fakeBacklinkRepo) Commit(ctx context.Context) error { return nil }

func TestRunIncrementsScoreForDistinctExternalTargets(t *testing.T) {
	ipRepo := newFakeIPRepo()
	ipRepo.rows["http://target.example"] = &repository.IPRow{Domain: "http://target.example"}

	backlinkRepo := &fakeBacklinkRepo{links: []*repository.Backlink{
		{SourceURL: "http://source.example/a", TargetURL: "http://target.example/page1"},
		{SourceURL: "http://source.example/b", TargetURL: "http://target.example/page2"},
	}}

	a := &Analyzer{Store: &repository.Store{IP: ipRepo, Backlink: backlinkRepo}}
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !ipRepo.zeroed || !ipRepo.deduped {
		t.Error("expected scores zeroed and duplicates removed")
	}
	if ipRepo.rows["http://target.example"].Score != 2 {
		t.Errorf("expected score 2, got %v", ipRepo.rows["http://target.example"].Score)
	}
}

func TestRunSkipsSameDomainAndMissingTarget(t *testing.T) {
	ipRepo := newFakeIPRepo()
	backlinkRepo := &fakeBacklinkRepo{links: []*repository.Backlink{
		{SourceURL: "http://same.example/a", TargetURL: "http://same.example/b"},
		{SourceURL: "http://source.example/a", TargetURL: "http://unknown.example/page"},
	}}

	a := &Analyzer{Store: &repository.Store{IP: ipRepo, Backlink: backlinkRepo}}
	if err := a.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(ipRepo.rows) != 0 {
		t.Errorf("expected no scored rows, got %v", ipRepo.rows)
	}
}
