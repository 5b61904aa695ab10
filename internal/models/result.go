package models

// MatchSpan is a [start, end) byte offset range of one match in a page body.
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchMatch is one page's result entry for a query.
// Spans lists match offsets in the body (empty for name-only hits);
// Occurrences is the total hit count across body and name.
type SearchMatch struct {
	Page        *Page       `json:"page"`
	Spans       []MatchSpan `json:"spans,omitempty"`
	NameMatch   bool        `json:"name_match,omitempty"`
	Occurrences int         `json:"occurrences"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Matches   []*SearchMatch `json:"matches"`
	Total     int            `json:"total"`
	Query     string         `json:"query"`
	QueryTime int64          `json:"query_time_ms"`
}

// WordCountResult holds word frequency statistics for a page or a notebook.
// Immutable after construction. TotalWeightedScore always equals the sum of
// Scores; Scores[w] == Counts[w] * weight(w).
type WordCountResult struct {
	Counts             map[string]int     `json:"counts"`
	Scores             map[string]float64 `json:"scores"`
	TotalWords         int                `json:"total_words"`
	TotalWeightedScore float64            `json:"total_weighted_score"`
}

// WordScore is one entry of a ranked word statistics listing.
type WordScore struct {
	Word  string  `json:"word"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}
