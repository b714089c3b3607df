// Package cmd provides the command-line dispatcher: a single cobra root
// command with --ip/--url/--page/--all flags, each launching the matching
// stage as a background worker against a shared orchestrator.Runtime,
// grounded on the teacher's cmd/cmd.go "walker" command tree (the same
// SIGINT-driven start/stop shape, collapsed from a subcommand-per-stage
// tree into flags on one command since every stage now shares one
// Runtime rather than package-level globals).
//
// A binary that just wants the default dispatcher needs only:
//
//	func main() {
//		cmd.Execute()
//	}
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/console"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
	"github.com/emsotr/arama-cekirdegi/orchestrator"
	"github.com/emsotr/arama-cekirdegi/repository"
	"github.com/emsotr/arama-cekirdegi/repository/cassandra"
	"github.com/emsotr/arama-cekirdegi/repository/sqlite"
)

var (
	configPath        string
	secretPath        string
	fallbackDBPath    string
	reservedCachePath string
	consoleAddr       string

	runIP     bool
	runURL    bool
	runPage   bool
	runAll    bool
	noConsole bool
)

var rootCmd = &cobra.Command{
	Use:   "arama-cekirdegi",
	Short: "crawl, index and rank a Turkish-content-biased slice of the web",
	Run:   runRoot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		"config.json", "path to the JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&secretPath, "secret",
		"/etc/arama-cekirdegi/storage.json", "path to the storage backend secret file")
	rootCmd.PersistentFlags().StringVar(&fallbackDBPath, "fallback-db",
		"arama-cekirdegi.db", "path to the embedded sqlite database used when the secret file is unavailable")
	rootCmd.PersistentFlags().StringVar(&reservedCachePath, "reserved-cache",
		"reserved_ips.json", "path to the reserved-IPv4-block cache file")
	rootCmd.PersistentFlags().StringVar(&consoleAddr, "console-addr",
		":8080", "address the query console listens on")

	rootCmd.Flags().BoolVar(&runIP, "ip", false, "run the IP/domain scanner stage")
	rootCmd.Flags().BoolVar(&runURL, "url", false, "run the URL frontier resolver stage")
	rootCmd.Flags().BoolVar(&runPage, "page", false, "run the page crawler stage")
	rootCmd.Flags().BoolVar(&runAll, "all", false,
		"run every crawl stage plus the index/analyze scheduler and the query console")
	rootCmd.Flags().BoolVarP(&noConsole, "no-console", "C", false,
		"do not start the query console even when --all is set")
}

// Execute runs the root command, blocking until SIGINT/SIGTERM or an
// unrecoverable startup error. Exit code is 0 on normal shutdown, non-zero
// otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...interface{}) {
	logging.Error(format, args...)
	os.Exit(1)
}

func runRoot(cmd *cobra.Command, args []string) {
	if !runIP && !runURL && !runPage && !runAll {
		fatalf("nothing to do; pass at least one of --ip, --url, --page, --all")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatalf("%v", err)
	}

	store, closeStore, err := openStore(secretPath, fallbackDBPath)
	if err != nil {
		fatalf("%v", err)
	}
	defer closeStore()

	rt, err := orchestrator.NewRuntime(cfg, store, reservedCachePath)
	if err != nil {
		fatalf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	launch := func(stage func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stage(ctx)
		}()
	}

	if runIP || runAll {
		launch(rt.RunIPScanner)
	}
	if runURL || runAll {
		launch(rt.RunURLFrontier)
	}
	if runPage || runAll {
		launch(rt.RunPageCrawler)
	}

	var server *http.Server
	if runAll {
		scheduler := &orchestrator.Scheduler{
			Store:        rt.Store,
			IndexEvery:   10 * time.Minute,
			AnalyzeEvery: 30 * time.Minute,
			CacheEvery:   5 * time.Minute,
			TagWeights:   cfg.Ranker.TagWeights,
			MaxDocLength: cfg.Crawler.MaxDocumentLength,
			Cache:        rt.Cache,
			Stop:         rt.Stop,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			scheduler.Run(ctx)
		}()

		if !noConsole {
			console.BuildRender()
			server = &http.Server{Addr: consoleAddr, Handler: console.NewRouter(rt.Cache)}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logging.Error("console: server error: %v", err)
				}
			}()
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logging.Info("cmd: shutdown signal received, stopping stages")
	rt.Stop.Stop()
	cancel()
	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}
	wg.Wait()
}

// secret is the shape of the external file spec.md §6's "Persisted
// state" section names as the source of the primary storage backend's
// connection details.
type secret struct {
	Hosts             []string `json:"hosts"`
	Keyspace          string   `json:"keyspace"`
	ReplicationFactor int      `json:"replication_factor"`
}

// openStore opens the Cassandra-backed store named by the secret file at
// secretPath, falling back to an embedded sqlite database at
// fallbackDBPath whenever the secret file is missing, unreadable, or the
// backend it names cannot be reached.
func openStore(secretPath, fallbackDBPath string) (*repository.Store, func(), error) {
	data, err := os.ReadFile(secretPath)
	if err != nil {
		logging.Warn("cmd: storage secret %v unavailable (%v); falling back to embedded sqlite at %v",
			secretPath, err, fallbackDBPath)
		return openSQLiteStore(fallbackDBPath)
	}

	var sec secret
	if err := json.Unmarshal(data, &sec); err != nil {
		logging.Warn("cmd: storage secret %v malformed (%v); falling back to embedded sqlite at %v",
			secretPath, err, fallbackDBPath)
		return openSQLiteStore(fallbackDBPath)
	}

	cstore, err := cassandra.NewStore(cassandra.ClusterOptions{
		Hosts:             sec.Hosts,
		Keyspace:          sec.Keyspace,
		ReplicationFactor: sec.ReplicationFactor,
	})
	if err != nil {
		logging.Warn("cmd: cassandra connect failed (%v); falling back to embedded sqlite at %v",
			err, fallbackDBPath)
		return openSQLiteStore(fallbackDBPath)
	}

	store := &repository.Store{
		IP:       cassandra.NewIPRepository(cstore),
		Page:     cassandra.NewPageRepository(cstore),
		Frontier: cassandra.NewFrontierRepository(cstore),
		Backlink: cassandra.NewBacklinkRepository(cstore),
		Index:    cassandra.NewIndexRepository(cstore),
		Cache:    cassandra.NewCacheRepository(cstore),
	}
	return store, cstore.Close, nil
}

func openSQLiteStore(path string) (*repository.Store, func(), error) {
	sstore, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cmd: open embedded sqlite store: %w", err)
	}
	store := &repository.Store{
		IP:       sqlite.NewIPRepository(sstore),
		Page:     sqlite.NewPageRepository(sstore),
		Frontier: sqlite.NewFrontierRepository(sstore),
		Backlink: sqlite.NewBacklinkRepository(sstore),
		Index:    sqlite.NewIndexRepository(sstore),
		Cache:    sqlite.NewCacheRepository(sstore),
	}
	return store, func() { sstore.Close() }, nil
}
