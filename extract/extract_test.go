package extract

import (
	"strings"
	"testing"

	"github.com/emsotr/arama-cekirdegi/httpfetch"
)

func TestClassifyLink(t *testing.T) {
	base := "http://example.com"
	cases := []struct {
		href string
		want LinkType
	}{
		{"http://example.com/about", Internal},
		{"/about", Internal},
		{"http://other.com/page", External},
		{"http://example.com/report.pdf", Invalid},
		{"javascript:void(0)", Invalid},
	}
	for _, c := range cases {
		if got := classifyLink(base, c.href); got != c.want {
			t.Errorf("classifyLink(%q) = %v, want %v", c.href, got, c.want)
		}
	}
}

func TestLinksExtractsAnchorsAndClassifies(t *testing.T) {
	body := `<html><body>
		<a href="/relative">Relative</a>
		<a href="http://other.com">External</a>
		<a href="file.docx">Doc</a>
	</body></html>`
	resp := &httpfetch.UniformResponse{URL: "http://example.com/page", Body: body}
	links := Links(resp)
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	if links[0].Type != Internal || links[0].FullURL != "http://example.com/relative" {
		t.Errorf("unexpected first link: %+v", links[0])
	}
	if links[1].Type != External {
		t.Errorf("expected external, got %v", links[1].Type)
	}
	if links[2].Type != Invalid {
		t.Errorf("expected invalid extension, got %v", links[2].Type)
	}
}

func TestMetaExtractsTitleDescriptionKeywordsAndSignals(t *testing.T) {
	body := `<html lang="tr"><head>
		<title>Merhaba Dunya</title>
		<meta name="description" content="bir test sayfasi">
		<meta name="keywords" content="test, arama, dunya">
		<meta property="og:locale" content="tr_TR">
	</head><body></body></html>`
	meta, signals := Meta(body)
	if meta.Title != "Merhaba Dunya" {
		t.Errorf("unexpected title: %q", meta.Title)
	}
	if meta.Description != "bir test sayfasi" {
		t.Errorf("unexpected description: %q", meta.Description)
	}
	if len(meta.Keywords) != 3 || meta.Keywords[1] != "arama" {
		t.Errorf("unexpected keywords: %v", meta.Keywords)
	}
	if signals.HTMLLang != "tr" || signals.OGLocale != "tr_TR" {
		t.Errorf("unexpected signals: %+v", signals)
	}
}

func TestTokensWeightsAndTransliterates(t *testing.T) {
	body := `<html><body><h1>Güzel Şehir</h1><p>bir güzel gün</p></body></html>`
	tokens, freq := Tokens(body, 100000, nil)
	if len(tokens) == 0 {
		t.Fatal("expected tokens, got none")
	}
	foundGuzelH1 := false
	for _, tok := range tokens {
		if tok.Word == "güzel" && tok.Tag == "h1" {
			foundGuzelH1 = true
			if tok.Weight != 1.5 {
				t.Errorf("expected h1 weight 1.5, got %v", tok.Weight)
			}
		}
		if strings.ContainsAny(tok.Word, "ığş") {
			t.Errorf("expected transliteration to strip Turkish letters, got %q", tok.Word)
		}
	}
	if !foundGuzelH1 {
		t.Error("expected 'güzel' (ü is not in the transliteration map) tagged h1")
	}
	if freq["güzel"] < 2 {
		t.Errorf("expected güzel to appear at least twice, got %d", freq["güzel"])
	}
}

func TestTokensTruncatesToMaxLength(t *testing.T) {
	body := `<html><body><p>bir iki uc dort bes</p></body></html>`
	tokens, _ := Tokens(body, 6, nil)
	// Truncating to 6 runes leaves "bir ik", which splits into "bir" and
	// the cut-off "ik".
	if len(tokens) != 2 || tokens[0].Word != "bir" || tokens[1].Word != "ik" {
		t.Errorf("expected truncation to yield 'bir' and 'ik', got %v", tokens)
	}
}
