// Package orchestrator wires every stage together into a single
// dependency-injected Runtime, replacing the teacher's module-level
// Config/Datastore globals (cmd.go's "commander" struct) per spec.md
// §9's re-architecture guidance.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emsotr/arama-cekirdegi/analyze"
	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/crawl"
	"github.com/emsotr/arama-cekirdegi/dnscache"
	"github.com/emsotr/arama-cekirdegi/frontier"
	"github.com/emsotr/arama-cekirdegi/httpfetch"
	"github.com/emsotr/arama-cekirdegi/index"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/ipscan"
	"github.com/emsotr/arama-cekirdegi/rank"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/stopflag"
)

// ProductiveBatchDelay and EmptyBatchDelay are spec.md §4.11's inter-batch
// yield durations.
const (
	ProductiveBatchDelay = 1 * time.Second
	EmptyBatchDelay      = 30 * time.Second
)

// Runtime holds every dependency a stage needs, constructed once at
// startup and shared by every worker goroutine.
type Runtime struct {
	Config   *config.Config
	Store    *repository.Store
	Fetch    *httpfetch.Client
	Resolver *dnscache.ReverseResolver
	Reserved *ipscan.ReservedCache
	Stop     *stopflag.Flag
	Ranker   *rank.Ranker
	Cache    *rank.QueryCache
}

// NewRuntime builds the shared dependency set from config and an already
// opened repository.Store.
func NewRuntime(cfg *config.Config, store *repository.Store, reservedCachePath string) (*Runtime, error) {
	dial, err := dnscache.Dial(nil, 4096)
	if err != nil {
		return nil, err
	}
	fetchClient := httpfetch.New(cfg.Crawler.UserAgent, cfg.ReqTimeoutDuration(), dial)

	resolver, err := dnscache.NewReverseResolver(4096)
	if err != nil {
		return nil, err
	}

	reserved, err := ipscan.LoadReservedCache(reservedCachePath, nil)
	if err != nil {
		return nil, err
	}

	ranker := &rank.Ranker{
		Store:      store,
		Weights:    cfg.Ranker.Weights,
		Method:     rank.Method(cfg.Ranker.NormalizationMethod),
		TagWeights: cfg.Ranker.TagWeights,
	}
	cache, err := rank.NewQueryCache(ranker, store.Cache, rank.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Config:   cfg,
		Store:    store,
		Fetch:    fetchClient,
		Resolver: resolver,
		Reserved: reserved,
		Stop:     stopflag.New(),
		Ranker:   ranker,
		Cache:    cache,
	}, nil
}

// RunIPScanner runs the IP scanner stage as a long-lived worker, honoring
// the shared stop flag between chunks.
func (rt *Runtime) RunIPScanner(ctx context.Context) {
	scanner := &ipscan.Scanner{
		Store:    rt.Store,
		Fetch:    rt.Fetch,
		Resolver: rt.Resolver,
		Config:   rt.Config,
		Stop:     rt.Stop,
	}
	for !rt.Stop.Stopped() {
		passID := uuid.New()
		scanner.Run(ctx, rt.Reserved)
		logging.Info("ipscan: pass %s complete", passID)
		sleep(rt.Stop, ProductiveBatchDelay)
	}
}

// RunURLFrontier runs the frontier resolver stage as a long-lived worker.
func (rt *Runtime) RunURLFrontier(ctx context.Context) {
	resolver := &frontier.Resolver{
		Store:      rt.Store,
		Fetch:      rt.Fetch,
		MaxWorkers: rt.Config.Crawler.MaxWorkers.URLFrontier,
	}
	for !rt.Stop.Stopped() {
		passID := uuid.New()
		if err := resolver.Run(ctx, frontier.DefaultLimit); err != nil {
			logging.Warn("frontier: pass %s failed: %v", passID, err)
		}
		logging.Info("frontier: pass %s complete", passID)
		sleep(rt.Stop, ProductiveBatchDelay)
	}
}

// RunPageCrawler runs the page crawler stage as a long-lived worker.
func (rt *Runtime) RunPageCrawler(ctx context.Context) {
	crawler := &crawl.Crawler{
		Store:      rt.Store,
		Fetch:      rt.Fetch,
		MaxWorkers: rt.Config.Crawler.MaxWorkers.PageSearch,
		Stop:       rt.Stop,
	}
	for !rt.Stop.Stopped() {
		batchID := uuid.New()
		slept, err := crawler.RunBatch(ctx, crawl.DefaultLimit)
		if err != nil {
			logging.Warn("crawl: batch %s failed: %v", batchID, err)
		}
		logging.Info("crawl: batch %s complete", batchID)
		if !slept {
			sleep(rt.Stop, ProductiveBatchDelay)
		}
	}
}

func sleep(stop *stopflag.Flag, d time.Duration) {
	select {
	case <-time.After(d):
	case <-stop.Done():
	}
}

// Scheduler periodically re-runs the indexer and analyzer, serialized with
// respect to themselves, per spec.md §4.11. It also drives the query
// cache's background refresh, per spec.md §6's "the cache is refreshed
// in the background".
type Scheduler struct {
	Store         *repository.Store
	IndexEvery    time.Duration
	AnalyzeEvery  time.Duration
	CacheEvery    time.Duration
	TagWeights    map[string]float64
	MaxDocLength  int
	Cache         *rank.QueryCache
	Stop          *stopflag.Flag
}

// Run blocks until the stop flag is signaled, invoking the indexer every
// IndexEvery, the analyzer every AnalyzeEvery, and the query cache
// refresh every CacheEvery on independent tickers.
func (s *Scheduler) Run(ctx context.Context) {
	indexTicker := time.NewTicker(s.IndexEvery)
	analyzeTicker := time.NewTicker(s.AnalyzeEvery)
	defer indexTicker.Stop()
	defer analyzeTicker.Stop()

	var cacheTicker *time.Ticker
	if s.Cache != nil && s.CacheEvery > 0 {
		cacheTicker = time.NewTicker(s.CacheEvery)
		defer cacheTicker.Stop()
	}

	idx := &index.Indexer{Store: s.Store, TagWeights: s.TagWeights, MaxLength: s.MaxDocLength}
	analyzer := &analyze.Analyzer{Store: s.Store}

	for {
		var cacheTick <-chan time.Time
		if cacheTicker != nil {
			cacheTick = cacheTicker.C
		}
		select {
		case <-s.Stop.Done():
			return
		case <-indexTicker.C:
			if err := idx.Rebuild(ctx); err != nil {
				logging.Warn("scheduler: indexer pass failed: %v", err)
			}
		case <-analyzeTicker.C:
			if err := analyzer.Run(ctx); err != nil {
				logging.Warn("scheduler: analyzer pass failed: %v", err)
			}
		case <-cacheTick:
			s.Cache.RefreshAll(ctx)
		}
	}
}
