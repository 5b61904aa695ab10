package format

import (
	"strings"
	"testing"

	"github.com/notewell/techou/internal/models"
)

func TestSnippet(t *testing.T) {
	f := Formatter{ContextSize: 5}
	text := "0123456789target0123456789"
	start := strings.Index(text, "target")
	end := start + len("target")

	got := f.Snippet(text, start, end)
	if got != "...56789target01234..." {
		t.Errorf("got %q", got)
	}
}

func TestSnippetTruncatesAtBoundaries(t *testing.T) {
	f := Formatter{ContextSize: 10}

	t.Run("match at start", func(t *testing.T) {
		got := f.Snippet("target and some trailing text", 0, 6)
		if strings.HasPrefix(got, "...") {
			t.Errorf("no leading ellipsis expected: %q", got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("trailing ellipsis expected: %q", got)
		}
	})

	t.Run("match at end", func(t *testing.T) {
		text := "some leading text then target"
		start := len(text) - 6
		got := f.Snippet(text, start, len(text))
		if !strings.HasPrefix(got, "...") {
			t.Errorf("leading ellipsis expected: %q", got)
		}
		if strings.HasSuffix(got, "...") && !strings.HasSuffix(got, "target") {
			t.Errorf("no trailing ellipsis expected: %q", got)
		}
	})

	t.Run("short text unwrapped", func(t *testing.T) {
		got := f.Snippet("tiny", 0, 4)
		if got != "tiny" {
			t.Errorf("got %q, want tiny", got)
		}
	})
}

func TestSnippetDefaultContextSize(t *testing.T) {
	var f Formatter
	text := strings.Repeat("a", 200)
	got := f.Snippet(text, 100, 101)
	// 50 each side plus the 1-byte match, with both ends cut.
	if len(got) != 3+50+1+50+3 {
		t.Errorf("snippet length = %d", len(got))
	}
}

func TestFormatMatches(t *testing.T) {
	f := Formatter{ContextSize: 8}
	pg := &models.Page{ID: "id1", Name: "journal", Text: "before the target after it"}
	matches := []*models.SearchMatch{
		{Page: pg, Spans: []models.MatchSpan{{Start: 11, End: 17}}, Occurrences: 1},
	}

	views := f.FormatMatches(matches)
	if len(views) != 1 {
		t.Fatalf("got %d views", len(views))
	}
	v := views[0]
	if v.Label != "journal" || v.PageID != "id1" {
		t.Errorf("label/id wrong: %+v", v)
	}
	if v.Start != 11 || v.End != 17 {
		t.Errorf("offsets wrong: %+v", v)
	}
	if !strings.Contains(v.Snippet, "target") {
		t.Errorf("snippet should contain the match: %q", v.Snippet)
	}
}

func TestFormatMatchesNameOnly(t *testing.T) {
	var f Formatter
	pg := &models.Page{ID: "id2", Name: "groceries", Text: "milk"}
	views := f.FormatMatches([]*models.SearchMatch{{Page: pg, NameMatch: true}})
	if len(views) != 1 {
		t.Fatal("expected one view")
	}
	if views[0].Snippet != "[page name]: groceries" {
		t.Errorf("got %q", views[0].Snippet)
	}
}

func TestFormatCount(t *testing.T) {
	var f Formatter
	result := &models.WordCountResult{
		Counts:             map[string]int{"a": 2, "b": 1},
		Scores:             map[string]float64{"a": 2, "b": 3},
		TotalWords:         3,
		TotalWeightedScore: 5,
	}
	top := []models.WordScore{{Word: "b", Count: 1, Score: 3}}
	view := f.FormatCount("notebook: work", result, top)

	if view.Label != "notebook: work" {
		t.Errorf("label = %q", view.Label)
	}
	if view.TotalWords != 3 || view.DistinctWords != 2 || view.TotalWeightedScore != 5 {
		t.Errorf("totals wrong: %+v", view)
	}
	if len(view.TopWords) != 1 || view.TopWords[0].Word != "b" {
		t.Errorf("top words wrong: %+v", view.TopWords)
	}
}
