// Package extract turns a fetched UniformResponse into links, meta tags,
// favicon/robots.txt/sitemap bytes, and a weighted token stream, grounded
// on the teacher's tokenizer-loop style in parse.go and on
// original_source/src/modules/crawler.py for the Turkish-specific token
// preprocessing this pipeline adds.
package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/emsotr/arama-cekirdegi/config"
	"github.com/emsotr/arama-cekirdegi/httpfetch"
)

// LinkType classifies an outbound link per spec.md §4.4.
type LinkType string

const (
	Internal LinkType = "INTERNAL"
	External LinkType = "EXTERNAL"
	Invalid  LinkType = "INVALID"
)

// Link is one extracted <a> element.
type Link struct {
	Href       string
	AnchorText string
	Type       LinkType
	FullURL    string // absolute form for INTERNAL relative links; Href otherwise
}

// BaseURL returns "{scheme}://{netloc}" of a response URL.
func BaseURL(responseURL string) string {
	if idx := strings.Index(responseURL, "://"); idx >= 0 {
		rest := responseURL[idx+3:]
		if slash := strings.Index(rest, "/"); slash >= 0 {
			return responseURL[:idx+3+slash]
		}
		return responseURL
	}
	return responseURL
}

// classifyLink implements spec.md §4.4's link classification rules,
// grounded on crawler.py's _get_link_type.
func classifyLink(responseBaseURL, href string) LinkType {
	lower := strings.ToLower(href)
	for ext := range config.InvalidLinkExtensions {
		if strings.HasSuffix(lower, "."+ext) {
			return Invalid
		}
	}

	if strings.Contains(href, responseBaseURL) {
		return Internal
	}
	if BaseURL(href) == responseBaseURL {
		return Internal
	}
	if strings.HasPrefix(href, "/") {
		return Internal
	}
	if strings.HasPrefix(href, "http") {
		return External
	}
	return Invalid
}

// Links extracts every <a> element from resp's body, classifying each per
// spec.md §4.4. Malformed HTML yields a partial or empty result, never an
// error (parse errors are swallowed per spec.md §7).
func Links(resp *httpfetch.UniformResponse) []Link {
	base := BaseURL(resp.URL)
	tokenizer := html.NewTokenizer(strings.NewReader(resp.Body))

	var links []Link
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttrs := tokenizer.TagName()
			if string(name) != "a" || !hasAttrs {
				continue
			}
			href, anchor := anchorAttrs(tokenizer)
			if href == "" {
				continue
			}
			typ := classifyLink(base, href)
			full := href
			if typ == Internal && !strings.HasPrefix(href, "http") {
				full = base + ensureLeadingSlash(href)
			}
			links = append(links, Link{Href: href, AnchorText: anchor, Type: typ, FullURL: full})
		}
	}
}

func ensureLeadingSlash(href string) string {
	if strings.HasPrefix(href, "/") {
		return href
	}
	return "/" + href
}

func anchorAttrs(tokenizer *html.Tokenizer) (href, anchorText string) {
	for {
		key, val, more := tokenizer.TagAttr()
		if string(key) == "href" {
			href = strings.TrimSpace(string(val))
		}
		if !more {
			break
		}
	}
	// anchor text is the next text token, if any; best-effort since the
	// tokenizer has already consumed the start tag.
	if tokenizer.Next() == html.TextToken {
		anchorText = strings.TrimSpace(string(tokenizer.Text()))
	}
	return
}
