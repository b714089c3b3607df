// Package httpfetch issues HTTP GETs and normalizes whatever the
// underlying net/http client returns into the pipeline's UniformResponse
// shape, grounded on the teacher's fetcher.go (timeout client construction,
// dnscache-wrapped dialer) and parse.go (charset decoding).
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
)

// UniformResponse is the fetch contract of spec.md §4.2.
type UniformResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header // case-insensitive via http.Header's Get
	Body         string      // decoded text
	ContentBytes []byte      // raw bytes
}

// Client issues fetches with a configured user-agent and timeout.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

// New builds a Client. If dial is non-nil it is used as the transport's
// Dial func (typically dnscache.Dial's return value); redirects are
// followed by the zero-value http.Client behavior.
func New(userAgent string, timeout time.Duration, dial func(network, addr string) (net.Conn, error)) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if dial != nil {
		transport.Dial = dial
	}
	return &Client{
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		UserAgent: userAgent,
	}
}

// Fetch performs an HTTP GET against rawURL and normalizes the response.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*UniformResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: build request for %v: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: fetch %v: %w", rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: read body of %v: %w", rawURL, err)
	}

	return &UniformResponse{
		URL:          resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		Headers:      resp.Header,
		Body:         decodeBody(raw, resp.Header.Get("Content-Type")),
		ContentBytes: raw,
	}, nil
}

// decodeBody implements spec.md §4.2's "UTF-8 then ISO-8859-9" text
// decoding fallback.
func decodeBody(raw []byte, contentType string) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if _, name, certain := charset.DetermineEncoding(raw, contentType); certain && name != "" && name != "utf-8" {
		if enc, _ := charset.Lookup(name); enc != nil {
			if out, err := enc.NewDecoder().Bytes(raw); err == nil {
				return string(out)
			}
		}
	}
	out, err := charmap.ISO8859_9.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(out)
}
