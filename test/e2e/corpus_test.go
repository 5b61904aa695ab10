package e2e

import "testing"

func TestBuildCorpus(t *testing.T) {
	corpus := BuildCorpus()
	if corpus.TotalPages != 100 {
		t.Errorf("expected 100 pages, got %d", corpus.TotalPages)
	}
	if corpus.TotalQueries == 0 {
		t.Fatal("corpus has no query test cases")
	}

	names := make(map[string]bool, len(corpus.Pages))
	for _, p := range corpus.Pages {
		if p.Name == "" || p.Text == "" {
			t.Errorf("page %q has empty name or text", p.Name)
		}
		if names[p.Name] {
			t.Errorf("duplicate page name %q", p.Name)
		}
		names[p.Name] = true
	}

	// Every expected page must actually exist in the corpus.
	for _, tc := range corpus.TestCases {
		for _, want := range tc.ExpectedPages {
			if !names[want] {
				t.Errorf("test case %q expects unknown page %q", tc.Description, want)
			}
		}
	}
}
