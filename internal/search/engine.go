// Package search executes the four search modes over a collection of pages.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/notewell/techou/internal/models"
	"github.com/notewell/techou/internal/tokenizer"
)

// Engine runs queries against an ordered page snapshot. Results come back
// in input page order (stable) unless a mode defines its own ranking.
// The zero value is ready to use.
type Engine struct {
	// RegexTimeout bounds a single regex query's total matching time.
	// Zero or negative means no budget.
	RegexTimeout time.Duration
}

// NewEngine creates an engine with the given regex matching budget.
func NewEngine(regexTimeout time.Duration) *Engine {
	return &Engine{RegexTimeout: regexTimeout}
}

// Search validates the query and dispatches on its mode. An empty page
// collection yields an empty result and no error; an invalid query
// (blank text, empty term list, malformed pattern) always surfaces as an
// error, never as an empty result.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery, pages []*models.Page) ([]*models.SearchMatch, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	switch query.Mode {
	case models.ModeBasic:
		return e.searchBasic(query, pages), nil
	case models.ModeAdvanced:
		return e.searchAdvanced(query, pages), nil
	case models.ModeRegex:
		return e.searchRegex(ctx, query, pages)
	case models.ModeKeyword:
		return e.searchKeyword(query, pages), nil
	}
	return nil, fmt.Errorf("unknown search mode: %q", query.Mode)
}

// searchBasic is a case-insensitive substring match over page text and name.
func (e *Engine) searchBasic(query *models.SearchQuery, pages []*models.Page) []*models.SearchMatch {
	matches := make([]*models.SearchMatch, 0)
	for _, page := range pages {
		spans := findAllFold(page.Text, query.Text)
		nameHit := len(findAllFold(page.Name, query.Text)) > 0
		if len(spans) == 0 && !nameHit {
			continue
		}
		matches = append(matches, &models.SearchMatch{
			Page:        page,
			Spans:       spans,
			NameMatch:   nameHit,
			Occurrences: len(spans),
		})
	}
	return matches
}

// searchAdvanced matches with case, whole-word, and name-only options.
// Whole-word hits are substring occurrences whose ends both fall on token
// boundaries, so "cat" never matches inside "catalog".
func (e *Engine) searchAdvanced(query *models.SearchQuery, pages []*models.Page) []*models.SearchMatch {
	matches := make([]*models.SearchMatch, 0)
	for _, page := range pages {
		var spans []models.MatchSpan
		nameHit := false
		if !query.NameOnly {
			spans = findAdvanced(page.Text, query.Text, query.CaseSensitive, query.WholeWord)
		}
		if query.NameOnly || len(spans) == 0 {
			nameHit = len(findAdvanced(page.Name, query.Text, query.CaseSensitive, query.WholeWord)) > 0
		}
		if query.NameOnly {
			spans = nil
		}
		if len(spans) == 0 && !nameHit {
			continue
		}
		matches = append(matches, &models.SearchMatch{
			Page:        page,
			Spans:       spans,
			NameMatch:   nameHit,
			Occurrences: len(spans),
		})
	}
	return matches
}

// searchRegex compiles the pattern and matches it against page bodies.
// Compile failures surface as ErrInvalidPattern with the pattern echoed;
// exceeding the matching budget surfaces as ErrPatternTimeout.
func (e *Engine) searchRegex(ctx context.Context, query *models.SearchQuery, pages []*models.Page) ([]*models.SearchMatch, error) {
	re, err := regexp.Compile(query.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", models.ErrInvalidPattern, query.Text, err)
	}

	var deadline time.Time
	if e.RegexTimeout > 0 {
		deadline = time.Now().Add(e.RegexTimeout)
	}

	matches := make([]*models.SearchMatch, 0)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", models.ErrPatternTimeout, query.Text, err)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %q: budget of %s exceeded", models.ErrPatternTimeout, query.Text, e.RegexTimeout)
		}
		locs := re.FindAllStringIndex(page.Text, -1)
		if len(locs) == 0 {
			continue
		}
		spans := make([]models.MatchSpan, len(locs))
		for i, loc := range locs {
			spans[i] = models.MatchSpan{Start: loc[0], End: loc[1]}
		}
		matches = append(matches, &models.SearchMatch{
			Page:        page,
			Spans:       spans,
			Occurrences: len(spans),
		})
	}
	return matches, nil
}

// searchKeyword includes a page only when its body contains every term
// (case-insensitive substring per term). With RankByOccurrences the result
// is ordered by total term occurrences descending, ties keeping page order.
func (e *Engine) searchKeyword(query *models.SearchQuery, pages []*models.Page) []*models.SearchMatch {
	matches := make([]*models.SearchMatch, 0)
	for _, page := range pages {
		all := true
		occurrences := 0
		var first []models.MatchSpan
		for _, term := range query.Terms {
			spans := findAllFold(page.Text, term)
			if len(spans) == 0 {
				all = false
				break
			}
			occurrences += len(spans)
			if first == nil {
				first = spans[:1]
			}
		}
		if !all {
			continue
		}
		matches = append(matches, &models.SearchMatch{
			Page:        page,
			Spans:       first,
			Occurrences: occurrences,
		})
	}

	if query.RankByOccurrences {
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Occurrences > matches[j].Occurrences
		})
	}
	return matches
}

// findAll returns the non-overlapping occurrences of needle in haystack.
func findAll(haystack, needle string) []models.MatchSpan {
	if needle == "" {
		return nil
	}
	var spans []models.MatchSpan
	for start := 0; ; {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return spans
		}
		at := start + i
		spans = append(spans, models.MatchSpan{Start: at, End: at + len(needle)})
		start = at + len(needle)
	}
}

// findAdvanced returns occurrences of needle in text honoring the case
// sensitivity and whole-word options. Spans always index text itself.
func findAdvanced(text, needle string, caseSensitive, wholeWord bool) []models.MatchSpan {
	var spans []models.MatchSpan
	if caseSensitive {
		spans = findAll(text, needle)
	} else {
		spans = findAllFold(text, needle)
	}
	if !wholeWord {
		return spans
	}
	whole := spans[:0]
	for _, s := range spans {
		if tokenizer.IsBoundary(text, s.Start) && tokenizer.IsBoundary(text, s.End) {
			whole = append(whole, s)
		}
	}
	if len(whole) == 0 {
		return nil
	}
	return whole
}

// foldPrefixLen returns the byte length of the prefix of s matching needle
// under per-rune case folding, or -1 when it does not match. Folding rune
// by rune keeps the reported length exact in s; lowering whole strings can
// change byte offsets ('İ' lowers to a two-rune sequence).
func foldPrefixLen(s, needle string) int {
	n := 0
	for _, nr := range needle {
		sr, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return -1
		}
		if sr != nr && unicode.ToLower(sr) != unicode.ToLower(nr) {
			return -1
		}
		n += size
	}
	return n
}

// findAllFold returns the non-overlapping case-insensitive occurrences of
// needle in haystack, with offsets into haystack itself.
func findAllFold(haystack, needle string) []models.MatchSpan {
	if needle == "" {
		return nil
	}
	var spans []models.MatchSpan
	for i := 0; i < len(haystack); {
		if n := foldPrefixLen(haystack[i:], needle); n > 0 {
			spans = append(spans, models.MatchSpan{Start: i, End: i + n})
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(haystack[i:])
		i += size
	}
	return spans
}
