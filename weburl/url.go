// Package weburl provides the URL wrapper used across the crawl-and-rank
// pipeline: normalization, registered-domain computation, and the
// base-URL ("scheme://netloc") grouping key every stage keys its work by.
package weburl

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/purell"
	"golang.org/x/net/publicsuffix"
)

// NotYetCrawled is the sentinel LastCrawled value for a row that has never
// been fetched. The repository layer treats this (not a null column) as the
// "unscanned" marker for get_unscanned_* queries.
var NotYetCrawled = time.Time{}

// URL embeds *url.URL and adds the crawl bookkeeping field every stage reads
// or writes.
type URL struct {
	*url.URL
	LastCrawled time.Time
}

// Parse wraps url.Parse so every URL seen by the pipeline goes through one
// path.
func Parse(ref string) (*URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("weburl: parse %q: %w", ref, err)
	}
	return &URL{URL: u, LastCrawled: NotYetCrawled}, nil
}

// ParseAndNormalize parses ref and immediately normalizes it.
func ParseAndNormalize(ref string) (*URL, error) {
	u, err := Parse(ref)
	if err != nil {
		return nil, err
	}
	u.Normalize()
	return u, nil
}

// Normalize rewrites u in place to its canonical safe form and drops any
// fragment, matching the normalization every URL must pass through before
// it is used as a storage key.
func (u *URL) Normalize() {
	purell.NormalizeURL(u.URL, purell.FlagsSafe|purell.FlagRemoveFragment)
}

// Clone returns a deep-enough copy of u for independent mutation.
func (u *URL) Clone() *URL {
	n := *u.URL
	if n.User != nil {
		ui := *n.User
		n.User = &ui
	}
	return &URL{URL: &n, LastCrawled: u.LastCrawled}
}

// BaseURL returns "{scheme}://{netloc}" as used throughout the data model
// as the IP/Domain primary key and the Backlink/Frontier grouping key.
func (u *URL) BaseURL() string {
	return u.Scheme + "://" + u.Host
}

// RegisteredDomain returns the effective top-level-domain-plus-one for u's
// host, e.g. "bbc.co.uk" for "www.bbc.co.uk".
func (u *URL) RegisteredDomain() (string, error) {
	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return host, nil
	}
	return publicsuffix.EffectiveTLDPlusOne(host)
}

// Subdomain returns the label(s) preceding the registered domain, or "" if
// the host has none.
func (u *URL) Subdomain() (string, error) {
	dom, err := u.RegisteredDomain()
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if len(host) == len(dom) {
		return "", nil
	}
	return strings.TrimSuffix(host, "."+dom), nil
}

// MakeAbsolute resolves u against base if u is not already absolute.
func (u *URL) MakeAbsolute(base *URL) {
	if u.IsAbs() {
		return
	}
	u.URL = base.URL.ResolveReference(u.URL)
}

// SameRegisteredDomain implements the analyzer's same-subdomain filter: it
// compares the last two labels of each hostname, a deliberately ad-hoc
// heuristic (not a Public Suffix List lookup) that misclassifies
// multi-label public suffixes such as "example.co.uk" — kept exactly per
// the documented source behavior rather than silently corrected.
func SameRegisteredDomain(a, b *URL) bool {
	return lastTwoLabels(a.Hostname()) == lastTwoLabels(b.Hostname())
}

func lastTwoLabels(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	return strings.Join(labels[len(labels)-2:], ".")
}

// PartitionKey returns the repository partition key for s: its lowercased
// first byte if it is an ASCII letter, else "default". This bucketing
// applies identically to URL keys and index word keys (see DESIGN.md open
// question #1).
func PartitionKey(s string) string {
	if s == "" {
		return "default"
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	if c >= 'a' && c <= 'z' {
		return string(c)
	}
	return "default"
}
