package validate

import (
	"net/http"
	"testing"

	"github.com/emsotr/arama-cekirdegi/httpfetch"
)

func resp(status int, contentType, body string) *httpfetch.UniformResponse {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &httpfetch.UniformResponse{StatusCode: status, Headers: h, Body: body}
}

func TestCheckAllPass(t *testing.T) {
	r := resp(200, "text/html; charset=utf-8", "<html>merhaba</html>")
	failures := Check(r, nil, HTMLSignals{HTMLLang: "tr"})
	if len(failures) != 0 {
		t.Errorf("expected no failures, got %v", failures)
	}
}

func TestCheckCollectsAllFailures(t *testing.T) {
	r := resp(500, "application/json", "")
	failures := Check(r, nil, HTMLSignals{})
	want := map[Failure]bool{InvalidStatusCode: true, NoContent: true, InvalidContentType: true, NotTurkish: true}
	if len(failures) != len(want) {
		t.Fatalf("expected %d failures, got %v", len(want), failures)
	}
	for _, f := range failures {
		if !want[f] {
			t.Errorf("unexpected failure %v", f)
		}
	}
}

func TestTurkishViaOGLocale(t *testing.T) {
	r := resp(200, "text/html", "body")
	failures := Check(r, nil, HTMLSignals{OGLocale: "tr_TR"})
	for _, f := range failures {
		if f == NotTurkish {
			t.Error("expected og:locale=tr_TR to satisfy the Turkish check")
		}
	}
}

func TestCustomAllowedStatusCodes(t *testing.T) {
	r := resp(301, "text/html", "body")
	failures := Check(r, map[int]bool{200: true, 301: true}, HTMLSignals{HTMLLang: "tr"})
	if len(failures) != 0 {
		t.Errorf("expected 301 to be allowed, got %v", failures)
	}
}
