// Package config reads the pipeline's JSON configuration file into a typed
// record, matching the external JSON configuration surface, asserting
// invariants at startup the way the teacher's assertConfigInvariants did
// for its YAML config.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/emsotr/arama-cekirdegi/internal/logging"
)

// MaxWorkers bounds concurrent in-flight tasks per stage.
type MaxWorkers struct {
	IPSearch    int `json:"ip_search"`
	URLFrontier int `json:"url_frontier"`
	PageSearch  int `json:"page_search"`
}

// FailReasonWeights are per-validation-failure weights (currently unused by
// any sub-score, retained since the JSON schema names them as required
// keys).
type FailReasonWeights struct {
	InvalidStatusCode float64 `json:"INVALID_STATUS_CODE"`
	NotAvailable      float64 `json:"NOT_AVAILABLE"`
	NotTurkish        float64 `json:"NOT_TURKISH"`
}

// Crawler holds every crawler.* key of the JSON schema.
type Crawler struct {
	Parallelism        int               `json:"parallelism"`
	MaxWorkers         MaxWorkers        `json:"max_workers"`
	ChunkSize          int               `json:"chunk_size"`
	ReqTimeout         int               `json:"req_timeout"`
	UserAgent          string            `json:"user_agent"`
	AllowedProtocols   []string          `json:"allowed_protocols"`
	RetryAfterMinutes  int               `json:"retry_after_minutes"`
	FailReasonWeights  FailReasonWeights `json:"fail_reason_weights"`
	MaxDocumentLength  int               `json:"max_document_length"`
	Ports              []int             `json:"ports"`
	ShuffleChunks      bool              `json:"shuffle_chunks"`
}

// System holds every system.* key of the JSON schema.
type System struct {
	MachineID     int `json:"machine_id"`
	TotalMachines int `json:"total_machines"`
}

// RankWeights are the ranker's per-sub-score composite weights (spec.md
// §4.10). A zero-value RankWeights is replaced by DefaultRankWeights at
// ranker construction time.
type RankWeights struct {
	IDF       float64 `json:"idf"`
	Authority float64 `json:"authority"`
	Weights   float64 `json:"weights"`
	Proximity float64 `json:"proximity"`
}

// DefaultRankWeights are spec.md §4.10's defaults.
var DefaultRankWeights = RankWeights{IDF: 0.8, Proximity: 0.5, Weights: 0.3, Authority: 0.1}

// Ranker holds every ranker.* key of the JSON schema. Every field is
// optional; the ranker falls back to spec.md's defaults for zero values.
type Ranker struct {
	Weights             RankWeights        `json:"weights"`
	NormalizationMethod string             `json:"normalization_method"`
	TagWeights          map[string]float64 `json:"tag_weights"`
}

// Config is the full typed configuration record.
type Config struct {
	Crawler Crawler `json:"crawler"`
	System  System  `json:"system"`
	Ranker  Ranker  `json:"ranker"`
}

// ReqTimeoutDuration is a convenience accessor used by httpfetch.
func (c *Config) ReqTimeoutDuration() time.Duration {
	return time.Duration(c.Crawler.ReqTimeout) * time.Second
}

// Load reads and parses the JSON config file at path, asserting the
// invariants spec.md §7 calls out as fatal configuration errors.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %v: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: unmarshal %v: %w", path, err)
	}
	if err := c.assertInvariants(); err != nil {
		return nil, err
	}
	logging.Info("Loaded config file %v", path)
	return &c, nil
}

func (c *Config) assertInvariants() error {
	var errs []string

	if c.Crawler.ChunkSize <= 0 || 256%c.Crawler.ChunkSize != 0 {
		errs = append(errs, fmt.Sprintf("crawler.chunk_size (%d) must divide 256", c.Crawler.ChunkSize))
	}
	if c.System.MachineID >= c.System.TotalMachines {
		errs = append(errs, fmt.Sprintf("system.machine_id (%d) must be less than system.total_machines (%d)",
			c.System.MachineID, c.System.TotalMachines))
	}
	if c.Crawler.Parallelism < 1 {
		errs = append(errs, "crawler.parallelism must be greater than 0")
	}
	if c.Crawler.MaxWorkers.IPSearch < 1 || c.Crawler.MaxWorkers.URLFrontier < 1 || c.Crawler.MaxWorkers.PageSearch < 1 {
		errs = append(errs, "crawler.max_workers.* must all be greater than 0")
	}
	if c.Crawler.ReqTimeout < 1 {
		errs = append(errs, "crawler.req_timeout must be greater than 0")
	}
	if len(c.Crawler.Ports) == 0 {
		errs = append(errs, "crawler.ports must be non-empty")
	}
	if len(c.Crawler.AllowedProtocols) == 0 {
		errs = append(errs, "crawler.allowed_protocols must be non-empty")
	}

	if len(errs) > 0 {
		msg := ""
		for _, e := range errs {
			logging.Error("config error: %v", e)
			msg += "\t" + e + "\n"
		}
		return fmt.Errorf("config error:\n%v", msg)
	}
	return nil
}

// InvalidLinkExtensions is the default blacklisted-extension set from
// spec.md §6, used by extract to classify links as INVALID.
var InvalidLinkExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "ppt": true, "pptx": true,
	"xls": true, "xlsx": true, "csv": true, "zip": true, "rar": true,
	"tar": true, "gz": true, "7z": true, "mp3": true, "mp4": true,
	"avi": true, "mkv": true, "mov": true, "flv": true, "wmv": true,
	"wav": true, "ogg": true, "jpg": true, "jpeg": true, "png": true,
	"gif": true, "svg": true, "bmp": true, "webp": true, "ico": true,
}

// DefaultTagWeights are the per-HTML-tag weights spec.md §4.10 applies to
// indexed word occurrences, grounded on original_source's tag_weights
// configuration.
var DefaultTagWeights = map[string]float64{
	"title": 2.0,
	"h1":    1.5,
	"h2":    1.2,
	"h3":    1.1,
	"p":     1.0,
	"a":     0.8,
	"span":  0.5,
}

// TurkishTransliteration maps Turkish-specific characters down to their
// ASCII-range equivalents during tokenization, per original_source's
// _preprocess_document transliteration table.
var TurkishTransliteration = map[rune]rune{
	'ı': 'i',
	'ğ': 'g',
	'ş': 's',
}

// ReservedIPv4Blocks is the default reserved-block set from spec.md §6.
// ipscan's reserved-block cache seeds itself from this list plus any
// additionally configured blocks.
var ReservedIPv4Blocks = []string{
	"0.0.0.0/8",
	"10.0.0.0/8",
	"127.0.0.0/8",
	"169.254.0.0/16",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"224.0.0.0/4",
	"240.0.0.0/4",
}
