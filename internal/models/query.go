package models

import (
	"fmt"
	"strings"
)

// SearchMode selects one of the four search strategies.
type SearchMode string

const (
	// ModeBasic is a case-insensitive substring match over page text and name.
	ModeBasic SearchMode = "basic"
	// ModeAdvanced is a substring match with case/whole-word/name-only options.
	ModeAdvanced SearchMode = "advanced"
	// ModeRegex matches page text against a regular expression.
	ModeRegex SearchMode = "regex"
	// ModeKeyword matches pages containing every one of a list of terms.
	ModeKeyword SearchMode = "keyword"
)

// SearchQuery is a tagged variant over the four search modes. Text carries
// the query string (or pattern for regex); Terms is used by keyword mode.
// Queries are built fresh per search call and never persisted.
type SearchQuery struct {
	Mode SearchMode `json:"mode"`
	Text string     `json:"text,omitempty"`

	// Advanced mode options.
	CaseSensitive bool `json:"case_sensitive,omitempty"`
	WholeWord     bool `json:"whole_word,omitempty"`
	NameOnly      bool `json:"name_only,omitempty"`

	// Keyword mode.
	Terms []string `json:"terms,omitempty"`
	// RankByOccurrences orders keyword results by total term occurrences
	// (descending) instead of page order; ties keep page order.
	RankByOccurrences bool `json:"rank_by_occurrences,omitempty"`
}

// Validate normalizes the query and rejects blank input.
// A missing mode defaults to basic. Blank text (basic/advanced/regex) and an
// empty or all-blank term list (keyword) fail with ErrEmptyQuery; an empty
// result set is never signalled this way.
func (q *SearchQuery) Validate() error {
	if q.Mode == "" {
		q.Mode = ModeBasic
	}
	switch q.Mode {
	case ModeBasic, ModeAdvanced:
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("%w: search text is blank", ErrEmptyQuery)
		}
	case ModeRegex:
		if q.Text == "" {
			return fmt.Errorf("%w: pattern is blank", ErrEmptyQuery)
		}
	case ModeKeyword:
		terms := q.Terms[:0]
		for _, term := range q.Terms {
			if strings.TrimSpace(term) != "" {
				terms = append(terms, term)
			}
		}
		q.Terms = terms
		if len(q.Terms) == 0 {
			return fmt.Errorf("%w: keyword list is empty", ErrEmptyQuery)
		}
	default:
		return fmt.Errorf("unknown search mode: %q", q.Mode)
	}
	return nil
}
