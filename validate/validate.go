// Package validate applies the pipeline's ordered content checks to a
// fetched response, generalized from the teacher's ad-hoc post-fetch
// checks in fetcher.go/parse.go into the enumerated failure list of
// spec.md §4.3.
package validate

import (
	"strings"

	"github.com/emsotr/arama-cekirdegi/httpfetch"
)

// Failure is one of the enumerated validation failure reasons.
type Failure string

const (
	InvalidStatusCode  Failure = "INVALID_STATUS_CODE"
	NoContent          Failure = "NO_CONTENT"
	InvalidContentType Failure = "INVALID_CONTENT_TYPE"
	NotTurkish         Failure = "NOT_TURKISH"
)

// turkishLangValues are the language tag values that count as Turkish for
// the Content-Language header and <html lang> attribute checks.
var turkishLangValues = map[string]bool{
	"tr": true, "tr-TR": true, "tr_TR": true,
}

// HTMLSignals carries the extractor's language-relevant findings so
// validate never has to parse HTML itself; extract and validate are
// applied in sequence by the callers (frontier/crawl stages).
type HTMLSignals struct {
	ContentLanguageMeta string // meta http-equiv="Content-Language"
	OGLocale            string // meta property="og:locale"
	HTMLLang            string // <html lang="...">
}

// Check runs every ordered check (not short-circuiting) and returns every
// failure found, or nil if none.
func Check(resp *httpfetch.UniformResponse, allowedStatusCodes map[int]bool, signals HTMLSignals) []Failure {
	var failures []Failure

	if allowedStatusCodes == nil {
		allowedStatusCodes = map[int]bool{200: true}
	}
	if !allowedStatusCodes[resp.StatusCode] {
		failures = append(failures, InvalidStatusCode)
	}

	if len(resp.Body) == 0 {
		failures = append(failures, NoContent)
	}

	if !strings.Contains(strings.ToLower(resp.Headers.Get("Content-Type")), "text/html") {
		failures = append(failures, InvalidContentType)
	}

	if !isTurkish(resp, signals) {
		failures = append(failures, NotTurkish)
	}

	return failures
}

func isTurkish(resp *httpfetch.UniformResponse, signals HTMLSignals) bool {
	if turkishLangValues[resp.Headers.Get("Content-Language")] {
		return true
	}
	if signals.ContentLanguageMeta == "tr" {
		return true
	}
	if signals.OGLocale == "tr_TR" {
		return true
	}
	if turkishLangValues[signals.HTMLLang] {
		return true
	}
	return false
}
