package extract

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/emsotr/arama-cekirdegi/httpfetch"
)

// fetcher is the narrow interface extract needs to pull favicon/robots.txt/
// sitemap bytes, satisfied by *httpfetch.Client.
type fetcher interface {
	Fetch(ctx context.Context, url string) (*httpfetch.UniformResponse, error)
}

// Favicon fetches the site favicon per spec.md §4.4: "/favicon.ico" first,
// then <link rel="shortcut icon">, then <link rel="icon">.
func Favicon(ctx context.Context, c fetcher, resp *httpfetch.UniformResponse) []byte {
	base := BaseURL(resp.URL)

	if r, err := c.Fetch(ctx, base+"/favicon.ico"); err == nil && r.StatusCode == 200 {
		return r.ContentBytes
	}

	if href := linkRelHref(resp.Body, "shortcut icon"); href != "" {
		if r, err := c.Fetch(ctx, base+ensureLeadingSlash(href)); err == nil && r.StatusCode == 200 {
			return r.ContentBytes
		}
	}

	if href := linkRelHref(resp.Body, "icon"); href != "" {
		if r, err := c.Fetch(ctx, base+ensureLeadingSlash(href)); err == nil && r.StatusCode == 200 {
			return r.ContentBytes
		}
	}

	return nil
}

// RobotsTxt fetches "/robots.txt", requiring Content-Type text/plain.
func RobotsTxt(ctx context.Context, c fetcher, baseURL string) []byte {
	r, err := c.Fetch(ctx, baseURL+"/robots.txt")
	if err != nil || r.StatusCode != 200 {
		return nil
	}
	if !strings.Contains(r.Headers.Get("Content-Type"), "text/plain") {
		return nil
	}
	return r.ContentBytes
}

// Sitemap fetches "/sitemap.xml", requiring Content-Type application/xml.
func Sitemap(ctx context.Context, c fetcher, baseURL string) []byte {
	r, err := c.Fetch(ctx, baseURL+"/sitemap.xml")
	if err != nil || r.StatusCode != 200 {
		return nil
	}
	if !strings.Contains(r.Headers.Get("Content-Type"), "application/xml") {
		return nil
	}
	return r.ContentBytes
}

func linkRelHref(body, rel string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttrs := tokenizer.TagName()
		if string(name) != "link" || !hasAttrs {
			continue
		}
		var gotRel, href string
		for {
			k, v, more := tokenizer.TagAttr()
			switch string(k) {
			case "rel":
				gotRel = string(v)
			case "href":
				href = string(v)
			}
			if !more {
				break
			}
		}
		if gotRel == rel {
			return href
		}
	}
}
