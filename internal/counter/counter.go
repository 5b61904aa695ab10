package counter

import (
	"sort"
	"strings"

	"github.com/bbalet/stopwords"

	"github.com/notewell/techou/internal/models"
	"github.com/notewell/techou/internal/tokenizer"
)

// Counter produces word frequency statistics for pages and notebooks.
// A nil Counter (or a zero value) counts with no stopword filtering.
type Counter struct {
	// FilterStopwords drops common words (per StopwordLang) from top-word
	// listings, so they surface content words rather than "the" and "and".
	// Raw counts and totals are never filtered.
	FilterStopwords bool
	// StopwordLang is the ISO 639-1 language code for the stopword list.
	// Empty means "en".
	StopwordLang string
}

// CountPage tokenizes the page's text and tallies word frequencies,
// scoring each distinct word as count * weight.
func (c *Counter) CountPage(page *models.Page, table *WeightTable) *models.WordCountResult {
	if page == nil {
		return c.tally(nil, table)
	}
	return c.tally(tokenizer.Tokenize(page.Text), table)
}

// CountPages tallies all pages' tokens as if their texts were concatenated.
// Counts accumulate per page; each word's weight is applied once to the
// summed count, so the weight factor is never double-counted.
func (c *Counter) CountPages(pages []*models.Page, table *WeightTable) *models.WordCountResult {
	var tokens []string
	for _, page := range pages {
		tokens = append(tokens, tokenizer.Tokenize(page.Text)...)
	}
	return c.tally(tokens, table)
}

func (c *Counter) tally(tokens []string, table *WeightTable) *models.WordCountResult {
	result := &models.WordCountResult{
		Counts: make(map[string]int),
		Scores: make(map[string]float64),
	}
	for _, token := range tokens {
		result.Counts[token]++
		result.TotalWords++
	}
	for word, count := range result.Counts {
		weight := 1.0
		if table != nil {
			weight = table.Weight(word)
		}
		score := float64(count) * weight
		result.Scores[word] = score
		result.TotalWeightedScore += score
	}
	return result
}

func (c *Counter) isStopword(token string) bool {
	lang := c.StopwordLang
	if lang == "" {
		lang = "en"
	}
	return strings.TrimSpace(stopwords.CleanString(token, lang, false)) == ""
}

// TopWords returns the n highest-scoring words of result, descending by
// weighted score with ties broken by ascending lexical order. n <= 0 or
// n larger than the vocabulary returns all words. Stopword filtering, when
// enabled, applies here: the listing skips stopwords but the result's raw
// counts and totals are left as counted.
func (c *Counter) TopWords(result *models.WordCountResult, n int) []models.WordScore {
	if result == nil {
		return nil
	}
	ranked := make([]models.WordScore, 0, len(result.Scores))
	for word, score := range result.Scores {
		if c != nil && c.FilterStopwords && c.isStopword(word) {
			continue
		}
		ranked = append(ranked, models.WordScore{Word: word, Count: result.Counts[word], Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Word < ranked[j].Word
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
