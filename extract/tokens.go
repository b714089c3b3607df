package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/emsotr/arama-cekirdegi/config"
)

// Token is one weighted word occurrence, grounded on original_source's
// get_document_frequency word_details tuples of (index, tag.name).
type Token struct {
	Word     string
	Location int
	Tag      string
	Weight   float64
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// Tokens walks body once, extracting text confined to the tags
// config.DefaultTagWeights names, and returns the preprocessed word stream
// plus an aggregated frequency count, grounded on original_source's
// _preprocess_document/get_document_frequency.
//
// maxLength truncates each weighted text segment, after preprocessing, to
// maxLength runes before it is split into words; a word cut by the limit is
// kept in its truncated form, and the document as a whole is not capped.
// The indexer's default matches _preprocess_document's max_length=100000.
func Tokens(body string, maxLength int, tagWeights map[string]float64) ([]Token, map[string]int) {
	if tagWeights == nil {
		tagWeights = config.DefaultTagWeights
	}

	var tokens []Token
	freq := make(map[string]int)
	location := 0

	tokenizer := html.NewTokenizer(strings.NewReader(body))
	var tagStack []string

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tagStack = append(tagStack, string(name))
		case html.SelfClosingTagToken:
			// no text content follows a self-closing tag
		case html.EndTagToken:
			if len(tagStack) > 0 {
				tagStack = tagStack[:len(tagStack)-1]
			}
		case html.TextToken:
			tag := currentWeightedTag(tagStack, tagWeights)
			if tag == "" {
				continue
			}
			weight := tagWeights[tag]
			for _, word := range preprocess(string(tokenizer.Text()), maxLength) {
				tokens = append(tokens, Token{Word: word, Location: location, Tag: tag, Weight: weight})
				freq[word]++
				location++
			}
		}
	}

	return tokens, freq
}

// currentWeightedTag returns the innermost tag on the stack that appears in
// tagWeights, or "" if none of the open tags are weighted.
func currentWeightedTag(stack []string, tagWeights map[string]float64) string {
	for i := len(stack) - 1; i >= 0; i-- {
		if _, ok := tagWeights[stack[i]]; ok {
			return stack[i]
		}
	}
	return ""
}

// preprocess lowercases, NFC-normalizes, strips non-alphanumeric
// characters, transliterates Turkish-specific letters, truncates to
// maxLength runes, and splits on whitespace, per _preprocess_document.
func preprocess(text string, maxLength int) []string {
	text = strings.ToLower(text)
	text = norm.NFC.String(text)
	text = nonWord.ReplaceAllString(text, " ")
	text = transliterate(text)

	runes := []rune(text)
	if maxLength > 0 && len(runes) > maxLength {
		runes = runes[:maxLength]
	}
	text = string(runes)

	return strings.Fields(text)
}

func transliterate(s string) string {
	return strings.Map(func(r rune) rune {
		if repl, ok := config.TurkishTransliteration[r]; ok {
			return repl
		}
		return r
	}, s)
}
