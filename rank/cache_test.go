package rank

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emsotr/arama-cekirdegi/repository"
)

type countingCacheRepo struct {
	entries map[string]*repository.CacheEntry
	puts    int32
}

func newCountingCacheRepo() *countingCacheRepo {
	return &countingCacheRepo{entries: make(map[string]*repository.CacheEntry)}
}

func (c *countingCacheRepo) Get(ctx context.Context, query string) (*repository.CacheEntry, bool, error) {
	e, ok := c.entries[query]
	return e, ok, nil
}

func (c *countingCacheRepo) Put(ctx context.Context, entry *repository.CacheEntry) error {
	atomic.AddInt32(&c.puts, 1)
	c.entries[entry.Query] = entry
	return nil
}

func TestQueryCacheServesSecondCallFromLRUWithoutRankerRerun(t *testing.T) {
	indexRepo := &fakeIndexRepo{}
	ranker := &Ranker{Store: &repository.Store{Index: indexRepo}}
	repo := newCountingCacheRepo()

	cache, err := NewQueryCache(ranker, repo, 10)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = cache.Search(ctx, "arama motoru", 10)
	require.NoError(t, err)
	_, _, err = cache.Search(ctx, "arama motoru", 10)
	require.NoError(t, err)

	require.EqualValues(t, 1, repo.puts, "expected exactly one durable cache write")
}

func TestQueryCacheRefreshAllRewritesTrackedEntries(t *testing.T) {
	indexRepo := &fakeIndexRepo{}
	ranker := &Ranker{Store: &repository.Store{Index: indexRepo}}
	repo := newCountingCacheRepo()

	cache, err := NewQueryCache(ranker, repo, 10)
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = cache.Search(ctx, "istanbul", 5)
	require.NoError(t, err)

	cache.RefreshAll(ctx)

	require.EqualValues(t, 2, repo.puts, "expected one write from Search plus one from RefreshAll")
}
