package ipscan

import (
	"encoding/json"
	"net"
	"os"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/internal/logging"
)

// ReservedCache holds the parsed reserved-IPv4 CIDR blocks, persisted as
// JSON per SPEC_FULL.md's §2 component #13 (reserved_ips.json), replacing
// original_source's pickled cache with a language-neutral encoding.
type ReservedCache struct {
	blocks []*net.IPNet
}

// LoadReservedCache reads path if present, otherwise seeds itself from
// config.ReservedIPv4Blocks plus any additionally configured blocks and
// writes path for next run.
func LoadReservedCache(path string, extra []string) (*ReservedCache, error) {
	var cidrs []string

	data, err := os.ReadFile(path)
	if err == nil {
		if jerr := json.Unmarshal(data, &cidrs); jerr != nil {
			return nil, jerr
		}
	} else {
		cidrs = append(append([]string{}, config.ReservedIPv4Blocks...), extra...)
		if werr := writeReservedCache(path, cidrs); werr != nil {
			logging.Warn("ipscan: could not persist reserved block cache: %v", werr)
		}
	}

	rc := &ReservedCache{}
	for _, cidr := range cidrs {
		_, block, err := net.ParseCIDR(cidr)
		if err != nil {
			logging.Warn("ipscan: skipping malformed reserved block %q: %v", cidr, err)
			continue
		}
		rc.blocks = append(rc.blocks, block)
	}
	return rc, nil
}

func writeReservedCache(path string, cidrs []string) error {
	data, err := json.MarshalIndent(cidrs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IsReserved reports whether ip falls within any cached reserved block.
func (rc *ReservedCache) IsReserved(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	for _, block := range rc.blocks {
		if block.Contains(parsed) {
			return true
		}
	}
	return false
}

// FilterChunks drops any chunk whose canonical IP falls in a reserved
// block.
func FilterChunks(chunks []Chunk, rc *ReservedCache) []Chunk {
	var kept []Chunk
	for _, c := range chunks {
		if !rc.IsReserved(c.CanonicalIP()) {
			kept = append(kept, c)
		}
	}
	return kept
}
