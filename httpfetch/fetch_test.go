package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func helloHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("hello"))
	}
}

func TestFetchReturnsUniformResponse(t *testing.T) {
	srv := httptest.NewServer(helloHandler())
	defer srv.Close()

	c := New("test-agent", 0, nil)
	resp, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("got status %d, expected 200", resp.StatusCode)
	}
	if resp.Body != "hello" {
		t.Errorf("got body %q, expected hello", resp.Body)
	}
	if len(resp.ContentBytes) != 5 {
		t.Errorf("got %d content bytes, expected 5", len(resp.ContentBytes))
	}
}

func TestFetchNotFoundStillReturnsResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := New("test-agent", 0, nil)
	resp, err := c.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("got status %d, expected 404", resp.StatusCode)
	}
}
