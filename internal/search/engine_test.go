package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notewell/techou/internal/models"
)

func page(name, text string) *models.Page {
	return &models.Page{ID: name, Name: name, Text: text}
}

func names(matches []*models.SearchMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Page.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBasicSearch(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("greeting", "Hello World"),
		page("farewell", "Goodbye now"),
	}

	matches, err := engine.Search(context.Background(), &models.SearchQuery{Mode: models.ModeBasic, Text: "hello"}, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !equal(names(matches), []string{"greeting"}) {
		t.Errorf("got %v, want [greeting]", names(matches))
	}

	matches, err = engine.Search(context.Background(), &models.SearchQuery{Mode: models.ModeBasic, Text: "xyz"}, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("query xyz should match nothing, got %v", names(matches))
	}
}

func TestBasicSearchMatchesPageName(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("Shopping List", "milk, eggs")}

	matches, err := engine.Search(context.Background(), &models.SearchQuery{Mode: models.ModeBasic, Text: "shopping"}, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 1 || !matches[0].NameMatch {
		t.Errorf("expected a name match, got %+v", matches)
	}
}

func TestBasicSearchPreservesPageOrder(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("c", "target here"),
		page("a", "target here"),
		page("b", "target here"),
	}
	matches, err := engine.Search(context.Background(), &models.SearchQuery{Mode: models.ModeBasic, Text: "target"}, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !equal(names(matches), []string{"c", "a", "b"}) {
		t.Errorf("result order should follow page order, got %v", names(matches))
	}
}

func TestBasicSearchRecordsSpans(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("p", "one two one")}
	matches, _ := engine.Search(context.Background(), &models.SearchQuery{Mode: models.ModeBasic, Text: "One"}, pages)
	if len(matches) != 1 {
		t.Fatal("expected one match")
	}
	if matches[0].Occurrences != 2 {
		t.Errorf("occurrences = %d, want 2", matches[0].Occurrences)
	}
	want := []models.MatchSpan{{Start: 0, End: 3}, {Start: 8, End: 11}}
	for i, s := range matches[0].Spans {
		if s != want[i] {
			t.Errorf("span[%d] = %v, want %v", i, s, want[i])
		}
	}
}

// Folded matching must report spans in the page's own bytes even where
// lowercasing changes byte lengths ('İ' lowers to a two-rune sequence,
// 'ẞ' to a shorter rune).
func TestBasicSearchFoldedSpansIndexOriginalText(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("travel", "Gördüm: İstanbul sabahları güzeldi."),
		page("signs", "The STRAẞE sign was repainted."),
	}

	matches, err := engine.Search(context.Background(), &models.SearchQuery{
		Mode: models.ModeBasic,
		Text: "istanbul",
	}, pages)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	span := matches[0].Spans[0]
	if got := pages[0].Text[span.Start:span.End]; got != "İstanbul" {
		t.Errorf("span covers %q, want %q", got, "İstanbul")
	}

	matches, err = engine.Search(context.Background(), &models.SearchQuery{
		Mode: models.ModeBasic,
		Text: "straße",
	}, pages)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	span = matches[0].Spans[0]
	if got := pages[1].Text[span.Start:span.End]; got != "STRAẞE" {
		t.Errorf("span covers %q, want %q", got, "STRAẞE")
	}
}

func TestAdvancedWholeWordFoldedBoundaries(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("travel", "Gördüm: İstanbul sabahları güzeldi.")}

	matches, err := engine.Search(context.Background(), &models.SearchQuery{
		Mode:      models.ModeAdvanced,
		Text:      "istanbul",
		WholeWord: true,
	}, pages)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	span := matches[0].Spans[0]
	if got := pages[0].Text[span.Start:span.End]; got != "İstanbul" {
		t.Errorf("span covers %q, want %q", got, "İstanbul")
	}
}

func TestAdvancedWholeWord(t *testing.T) {
	engine := NewEngine(0)
	tests := []struct {
		name      string
		text      string
		wantMatch bool
	}{
		{"partial word excluded", "catalog", false},
		{"whole word matches", "the cat sat", true},
		{"word at start", "cat nap", true},
		{"word at end", "a stray cat", true},
		{"punctuation bounded", "my cat, and yours", true},
		{"embedded excluded", "concatenate", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := &models.SearchQuery{Mode: models.ModeAdvanced, Text: "cat", WholeWord: true}
			matches, err := engine.Search(context.Background(), query, []*models.Page{page("p", tt.text)})
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if (len(matches) == 1) != tt.wantMatch {
				t.Errorf("text %q: match = %v, want %v", tt.text, len(matches) == 1, tt.wantMatch)
			}
		})
	}
}

func TestAdvancedCaseSensitive(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("p", "Hello world")}

	query := &models.SearchQuery{Mode: models.ModeAdvanced, Text: "hello", CaseSensitive: true}
	matches, _ := engine.Search(context.Background(), query, pages)
	if len(matches) != 0 {
		t.Error("case-sensitive search should not match different case")
	}

	query.CaseSensitive = false
	matches, _ = engine.Search(context.Background(), query, pages)
	if len(matches) != 1 {
		t.Error("case-insensitive search should match")
	}
}

func TestAdvancedNameOnly(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("recipes", "the word notes appears here"),
		page("notes", "totally different body"),
	}
	query := &models.SearchQuery{Mode: models.ModeAdvanced, Text: "notes", NameOnly: true}
	matches, err := engine.Search(context.Background(), query, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !equal(names(matches), []string{"notes"}) {
		t.Errorf("name-only should match only the page named notes, got %v", names(matches))
	}
	if !matches[0].NameMatch || len(matches[0].Spans) != 0 {
		t.Errorf("name-only match should carry no body spans: %+v", matches[0])
	}
}

func TestRegexSearch(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("ch12", "Chapter 12 begins our tale"),
		page("lower", "chapter 12 begins in lowercase"),
	}
	query := &models.SearchQuery{Mode: models.ModeRegex, Text: `^Chapter \d+`}
	matches, err := engine.Search(context.Background(), query, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	// Patterns are case-sensitive unless the query opts out with (?i).
	if !equal(names(matches), []string{"ch12"}) {
		t.Errorf("got %v, want [ch12]", names(matches))
	}
	if matches[0].Spans[0] != (models.MatchSpan{Start: 0, End: 10}) {
		t.Errorf("span = %v, want {0 10}", matches[0].Spans[0])
	}
}

func TestRegexInvalidPattern(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("p", "anything")}
	query := &models.SearchQuery{Mode: models.ModeRegex, Text: "(unclosed"}
	matches, err := engine.Search(context.Background(), query, pages)
	if !errors.Is(err, models.ErrInvalidPattern) {
		t.Fatalf("got err %v, want ErrInvalidPattern", err)
	}
	if matches != nil {
		t.Error("invalid pattern must not return a match list")
	}
}

func TestRegexCancelledContext(t *testing.T) {
	engine := NewEngine(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	query := &models.SearchQuery{Mode: models.ModeRegex, Text: "a+"}
	_, err := engine.Search(ctx, query, []*models.Page{page("p", "aaa")})
	if !errors.Is(err, models.ErrPatternTimeout) {
		t.Fatalf("got err %v, want ErrPatternTimeout", err)
	}
}

func TestRegexTimeoutBudget(t *testing.T) {
	engine := NewEngine(time.Nanosecond)
	pages := []*models.Page{page("a", "x"), page("b", "x")}
	query := &models.SearchQuery{Mode: models.ModeRegex, Text: "x"}
	time.Sleep(time.Millisecond)
	// The budget is checked before each page scan; with a nanosecond budget
	// the second page can never be reached.
	_, err := engine.Search(context.Background(), query, pages)
	if err != nil && !errors.Is(err, models.ErrPatternTimeout) {
		t.Fatalf("got err %v, want nil or ErrPatternTimeout", err)
	}
}

func TestRegexNegativeTimeoutDisablesBudget(t *testing.T) {
	engine := NewEngine(-time.Millisecond)
	pages := []*models.Page{page("a", "x marks the spot"), page("b", "no x here either: x")}
	query := &models.SearchQuery{Mode: models.ModeRegex, Text: "x"}
	matches, err := engine.Search(context.Background(), query, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("got %d matches, want 2", len(matches))
	}
}

func TestKeywordSearch(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("both", "An apple and a banana in one bowl"),
		page("one", "only an apple here"),
		page("neither", "grapes and melons"),
	}
	query := &models.SearchQuery{Mode: models.ModeKeyword, Terms: []string{"apple", "banana"}}
	matches, err := engine.Search(context.Background(), query, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !equal(names(matches), []string{"both"}) {
		t.Errorf("got %v, want [both]", names(matches))
	}
}

func TestKeywordSearchCaseInsensitive(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("p", "APPLE and Banana")}
	query := &models.SearchQuery{Mode: models.ModeKeyword, Terms: []string{"apple", "banana"}}
	matches, _ := engine.Search(context.Background(), query, pages)
	if len(matches) != 1 {
		t.Error("keyword terms should match case-insensitively")
	}
}

func TestKeywordEmptyList(t *testing.T) {
	engine := NewEngine(0)
	query := &models.SearchQuery{Mode: models.ModeKeyword}
	_, err := engine.Search(context.Background(), query, []*models.Page{page("p", "text")})
	if !errors.Is(err, models.ErrEmptyQuery) {
		t.Fatalf("got err %v, want ErrEmptyQuery", err)
	}
}

func TestKeywordRankByOccurrences(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{
		page("sparse", "apple banana"),
		page("dense", "apple apple banana banana banana"),
		page("tied", "apple banana"),
	}
	query := &models.SearchQuery{
		Mode:              models.ModeKeyword,
		Terms:             []string{"apple", "banana"},
		RankByOccurrences: true,
	}
	matches, err := engine.Search(context.Background(), query, pages)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	// dense has 5 occurrences; sparse and tied have 2 each and keep page order.
	if !equal(names(matches), []string{"dense", "sparse", "tied"}) {
		t.Errorf("got %v, want [dense sparse tied]", names(matches))
	}
}

func TestEmptyPageCollection(t *testing.T) {
	engine := NewEngine(0)
	for _, query := range []*models.SearchQuery{
		{Mode: models.ModeBasic, Text: "q"},
		{Mode: models.ModeAdvanced, Text: "q"},
		{Mode: models.ModeRegex, Text: "q"},
		{Mode: models.ModeKeyword, Terms: []string{"q"}},
	} {
		matches, err := engine.Search(context.Background(), query, nil)
		if err != nil {
			t.Errorf("mode %s: error %v on empty collection", query.Mode, err)
		}
		if matches == nil || len(matches) != 0 {
			t.Errorf("mode %s: want empty (non-nil) result, got %v", query.Mode, matches)
		}
	}
}

func TestBlankQueryFails(t *testing.T) {
	engine := NewEngine(0)
	pages := []*models.Page{page("p", "body")}
	for _, query := range []*models.SearchQuery{
		{Mode: models.ModeBasic, Text: "  "},
		{Mode: models.ModeAdvanced, Text: ""},
		{Mode: models.ModeKeyword, Terms: []string{"", "  "}},
	} {
		_, err := engine.Search(context.Background(), query, pages)
		if !errors.Is(err, models.ErrEmptyQuery) {
			t.Errorf("mode %s: got %v, want ErrEmptyQuery", query.Mode, err)
		}
	}
}
