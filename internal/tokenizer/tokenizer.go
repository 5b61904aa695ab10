// Package tokenizer splits raw text into normalized lowercase word tokens.
//
// A token is a maximal run of Unicode letters and digits; every other rune
// is a separator. Tokenization is a pure function of its input, so the same
// text always yields the same token sequence.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize returns the normalized tokens of text in order of appearance.
// Empty and all-separator input yield a nil slice.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if isWordRune(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Span is a token's [Start, End) byte offset range in the original text.
type Span struct {
	Start int
	End   int
}

// Spans returns the byte offset ranges of the tokens of text, in order.
// Offsets index the original (un-lowercased) text.
func Spans(text string) []Span {
	var spans []Span
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, Span{Start: start, End: i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans
}

// IsBoundary reports whether byte offset i in text falls on a token boundary,
// i.e. the runes on either side do not belong to the same word. Offsets at
// the ends of the text are boundaries.
func IsBoundary(text string, i int) bool {
	if i <= 0 || i >= len(text) {
		return true
	}
	before, _ := utf8.DecodeLastRuneInString(text[:i])
	after, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(before) || !isWordRune(after)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
