// Package format shapes raw match and statistics data into display-ready
// structures for the presentation layer. It carries no business logic.
package format

import (
	"fmt"

	"github.com/notewell/techou/internal/models"
)

// DefaultContextSize is the number of context bytes kept on each side of a
// match when building snippets.
const DefaultContextSize = 50

// Formatter converts search matches and count results into render-ready views.
type Formatter struct {
	// ContextSize is the snippet window on each side of the first match.
	// Zero or negative falls back to DefaultContextSize.
	ContextSize int
}

// MatchView is one search hit prepared for display.
type MatchView struct {
	PageID      string `json:"page_id"`
	PageName    string `json:"page_name"`
	Label       string `json:"label"`
	Snippet     string `json:"snippet,omitempty"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Occurrences int    `json:"occurrences"`
	NameMatch   bool   `json:"name_match,omitempty"`
}

// CountView is a word count result prepared for display.
type CountView struct {
	Label              string             `json:"label"`
	TotalWords         int                `json:"total_words"`
	DistinctWords      int                `json:"distinct_words"`
	TotalWeightedScore float64            `json:"total_weighted_score"`
	TopWords           []models.WordScore `json:"top_words,omitempty"`
}

// FormatMatches builds one view per match, with a snippet of context
// around the first body match. Name-only hits get a page-name snippet.
func (f *Formatter) FormatMatches(matches []*models.SearchMatch) []MatchView {
	views := make([]MatchView, 0, len(matches))
	for _, match := range matches {
		if match == nil || match.Page == nil {
			continue
		}
		view := MatchView{
			PageID:      match.Page.ID,
			PageName:    match.Page.Name,
			Label:       match.Page.Name,
			Occurrences: match.Occurrences,
			NameMatch:   match.NameMatch,
		}
		if len(match.Spans) > 0 {
			first := match.Spans[0]
			view.Start = first.Start
			view.End = first.End
			view.Snippet = f.Snippet(match.Page.Text, first.Start, first.End)
		} else if match.NameMatch {
			view.Snippet = fmt.Sprintf("[page name]: %s", match.Page.Name)
		}
		views = append(views, view)
	}
	return views
}

// FormatCount shapes a count result with its ranked top words.
func (f *Formatter) FormatCount(label string, result *models.WordCountResult, topWords []models.WordScore) CountView {
	view := CountView{Label: label, TopWords: topWords}
	if result != nil {
		view.TotalWords = result.TotalWords
		view.DistinctWords = len(result.Counts)
		view.TotalWeightedScore = result.TotalWeightedScore
	}
	return view
}

// Snippet extracts up to ContextSize bytes of context on each side of the
// [start, end) match in text, truncated at the text's boundaries. "..."
// marks a cut at either end.
func (f *Formatter) Snippet(text string, start, end int) string {
	size := f.ContextSize
	if size <= 0 {
		size = DefaultContextSize
	}
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start > end {
		start = end
	}

	from := start - size
	if from < 0 {
		from = 0
	}
	to := end + size
	if to > len(text) {
		to = len(text)
	}

	prefix := ""
	if from > 0 {
		prefix = "..."
	}
	suffix := ""
	if to < len(text) {
		suffix = "..."
	}
	return prefix + text[from:to] + suffix
}
