package models

import (
	"errors"
	"testing"
)

func TestSearchQueryValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   SearchQuery
		wantErr error
	}{
		{"basic with text", SearchQuery{Mode: ModeBasic, Text: "hello"}, nil},
		{"basic blank text", SearchQuery{Mode: ModeBasic, Text: "   "}, ErrEmptyQuery},
		{"basic empty text", SearchQuery{Mode: ModeBasic}, ErrEmptyQuery},
		{"advanced with text", SearchQuery{Mode: ModeAdvanced, Text: "cat", WholeWord: true}, nil},
		{"advanced blank text", SearchQuery{Mode: ModeAdvanced, Text: "\t\n"}, ErrEmptyQuery},
		{"regex with pattern", SearchQuery{Mode: ModeRegex, Text: `^Chapter \d+`}, nil},
		{"regex empty pattern", SearchQuery{Mode: ModeRegex}, ErrEmptyQuery},
		{"keyword with terms", SearchQuery{Mode: ModeKeyword, Terms: []string{"apple", "banana"}}, nil},
		{"keyword empty list", SearchQuery{Mode: ModeKeyword}, ErrEmptyQuery},
		{"keyword blank terms", SearchQuery{Mode: ModeKeyword, Terms: []string{" ", ""}}, ErrEmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchQueryValidateDefaultsMode(t *testing.T) {
	q := SearchQuery{Text: "hello"}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if q.Mode != ModeBasic {
		t.Errorf("mode = %q, want basic", q.Mode)
	}
}

func TestSearchQueryValidateDropsBlankTerms(t *testing.T) {
	q := SearchQuery{Mode: ModeKeyword, Terms: []string{"apple", " ", "banana"}}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if len(q.Terms) != 2 {
		t.Errorf("terms = %v, want 2 non-blank terms", q.Terms)
	}
}

func TestSearchQueryValidateUnknownMode(t *testing.T) {
	q := SearchQuery{Mode: "fuzzy", Text: "hello"}
	if err := q.Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
