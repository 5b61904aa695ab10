package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/notewell/techou/internal/format"
	"github.com/notewell/techou/internal/models"
)

func TestWriteSearchResultsText(t *testing.T) {
	var buf bytes.Buffer
	views := []format.MatchView{
		{PageName: "journal", Label: "journal", Snippet: "...the target word...", Occurrences: 2},
	}
	if err := WriteSearchResults(&buf, views, 3, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Found 1 matching pages in 3ms") {
		t.Errorf("missing summary line: %s", out)
	}
	if !strings.Contains(out, "journal") || !strings.Contains(out, "(2 occurrences)") {
		t.Errorf("missing match details: %s", out)
	}
}

func TestWriteSearchResultsTruncatesLongSnippets(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("word ", 60)
	views := []format.MatchView{{PageName: "p", Label: "p", Snippet: long}}
	if err := WriteSearchResults(&buf, views, 0, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "word") != 40 {
		t.Errorf("snippet should be cut to 40 words, got %d", strings.Count(out, "word"))
	}
	if !strings.Contains(out, "word...") {
		t.Errorf("truncated snippet should end with ellipsis: %s", out)
	}
}

func TestWriteSearchResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	views := []format.MatchView{{PageName: "p", Label: "p"}}
	if err := WriteSearchResults(&buf, views, 0, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded []format.MatchView
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].PageName != "p" {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

func TestWriteCountViewText(t *testing.T) {
	var buf bytes.Buffer
	view := format.CountView{
		Label:              "notebook: work",
		TotalWords:         10,
		DistinctWords:      7,
		TotalWeightedScore: 12.5,
		TopWords:           []models.WordScore{{Word: "deadline", Count: 3, Score: 6}},
	}
	if err := WriteCountView(&buf, view, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"notebook: work", "Total words: 10", "deadline", "12.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
