package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/emsotr/arama-cekirdegi/validate"
)

// MetaTags is title/description/keywords per spec.md §4.4.
type MetaTags struct {
	Title       string
	Description string
	Keywords    []string
}

// Meta walks body's HTML once, collecting both the MetaTags the spec names
// and the language signals validate.Check needs (Content-Language meta,
// og:locale, <html lang>), since both are single-pass tokenizer walks over
// the same document.
func Meta(body string) (MetaTags, validate.HTMLSignals) {
	var meta MetaTags
	var signals validate.HTMLSignals
	inTitle := false

	tokenizer := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return meta, signals
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttrs := tokenizer.TagName()
			switch string(name) {
			case "title":
				inTitle = tt == html.StartTagToken
			case "html":
				if hasAttrs {
					signals.HTMLLang = attrValue(tokenizer, "lang")
				}
			case "meta":
				if hasAttrs {
					readMetaTag(tokenizer, &meta, &signals)
				}
			}
		case html.TextToken:
			if inTitle && meta.Title == "" {
				meta.Title = strings.TrimSpace(string(tokenizer.Text()))
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "title" {
				inTitle = false
			}
		}
	}
}

func attrValue(tokenizer *html.Tokenizer, attrName string) string {
	var val string
	for {
		k, v, more := tokenizer.TagAttr()
		if string(k) == attrName {
			val = string(v)
		}
		if !more {
			break
		}
	}
	return val
}

func readMetaTag(tokenizer *html.Tokenizer, meta *MetaTags, signals *validate.HTMLSignals) {
	var name, property, httpEquiv, content string
	for {
		k, v, more := tokenizer.TagAttr()
		switch string(k) {
		case "name":
			name = strings.ToLower(string(v))
		case "property":
			property = strings.ToLower(string(v))
		case "http-equiv":
			httpEquiv = strings.ToLower(string(v))
		case "content":
			content = string(v)
		}
		if !more {
			break
		}
	}

	switch name {
	case "description":
		if meta.Description == "" {
			meta.Description = strings.TrimSpace(content)
		}
	case "keywords":
		if meta.Keywords == nil && content != "" {
			for _, kw := range strings.Split(content, ",") {
				meta.Keywords = append(meta.Keywords, strings.TrimSpace(kw))
			}
		}
	}
	if httpEquiv == "content-language" {
		signals.ContentLanguageMeta = content
	}
	if property == "og:locale" {
		signals.OGLocale = content
	}
}
