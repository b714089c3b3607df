package ipscan

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/dnscache"
	"github.com/emsotr/arama-cekirdegi/extract"
	"github.com/emsotr/arama-cekirdegi/httpfetch"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/semaphore"
	"github.com/emsotr/arama-cekirdegi/stopflag"
	"github.com/emsotr/arama-cekirdegi/validate"
)

// Scanner runs the IP scanner stage against one repository.Store.
type Scanner struct {
	Store    *repository.Store
	Fetch    *httpfetch.Client
	Resolver *dnscache.ReverseResolver
	Config   *config.Config
	Stop     *stopflag.Flag
}

// Run enumerates, filters, and distributes chunks, then fans them out to
// cfg.Crawler.Parallelism workers, each processing its chunks sequentially,
// honoring the stop flag between chunks per spec.md §4.5.
func (s *Scanner) Run(ctx context.Context, reserved *ReservedCache) {
	chunks := Enumerate(s.Config.Crawler.ChunkSize)
	chunks = FilterChunks(chunks, reserved)
	chunks = DistributeTo(chunks, s.Config.System.MachineID, s.Config.System.TotalMachines)
	if s.Config.Crawler.ShuffleChunks {
		rand.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })
	}

	parallelism := s.Config.Crawler.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	lanes := make([][]Chunk, parallelism)
	for i, c := range chunks {
		lanes[i%parallelism] = append(lanes[i%parallelism], c)
	}

	done := make(chan struct{}, parallelism)
	for _, lane := range lanes {
		lane := lane
		go func() {
			s.runWorker(ctx, lane)
			done <- struct{}{}
		}()
	}
	for range lanes {
		<-done
	}
}

func (s *Scanner) runWorker(ctx context.Context, chunks []Chunk) {
	sem := semaphore.New(s.Config.Crawler.MaxWorkers.IPSearch)
	for _, chunk := range chunks {
		if s.Stop.Stopped() {
			return
		}
		s.processChunk(ctx, sem, chunk)
	}
}

func (s *Scanner) processChunk(ctx context.Context, sem *semaphore.Semaphore, chunk Chunk) {
	var wg sync.WaitGroup
	for _, ip := range chunk.IPs() {
		for _, port := range s.Config.Crawler.Ports {
			sem.Acquire()
			wg.Add(1)
			go func(ip string, port int) {
				defer wg.Done()
				defer sem.Release()
				s.probe(ctx, ip, port)
			}(ip, port)
		}
	}
	wg.Wait()

	if err := s.Store.IP.Commit(ctx); err != nil {
		logging.Warn("ipscan: commit failed for chunk %d: %v", chunk.Index, err)
	}
}

func (s *Scanner) probe(ctx context.Context, ip string, port int) {
	scheme := "http"
	if port == 443 {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s:%d", scheme, ip, port)

	resp, err := s.Fetch.Fetch(ctx, url)
	if err != nil {
		return
	}

	_, signals := extract.Meta(resp.Body)
	if failures := validate.Check(resp, nil, signals); len(failures) > 0 {
		return
	}

	domain := s.resolveDomain(ip, scheme, resp.URL)
	row := &repository.IPRow{
		Domain: domain,
		IP:     ip,
		Port:   port,
		Status: resp.StatusCode,
	}

	if err := s.Store.IP.Upsert(ctx, row); err != nil {
		logging.Warn("ipscan: upsert failed for %v: %v", ip, err)
	}
}

// resolveDomain applies spec.md §4.5's fallback chain: reverse-DNS name,
// else the response URL, else a synthesized "http(s)://{ip}".
func (s *Scanner) resolveDomain(ip, scheme, responseURL string) string {
	if s.Resolver != nil {
		if host, ok := s.Resolver.Lookup(ip); ok && host != "" {
			return host
		}
	}
	if responseURL != "" {
		return responseURL
	}
	return scheme + "://" + ip
}
