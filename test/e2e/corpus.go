// Package e2e provides end-to-end tests with a large notebook and multiple queries.
package e2e

import (
	"fmt"

	"github.com/notewell/techou/internal/models"
)

// E2EPage is a page entry in the E2E notebook (name and text).
type E2EPage struct {
	Name string
	Text string
}

// QueryTestCase defines a query and the page name(s) that must appear in the
// search results. At least one of ExpectedPages must be present.
type QueryTestCase struct {
	Query         models.SearchQuery
	ExpectedPages []string
	Description   string
}

// Corpus holds pages and query test cases for E2E tests.
type Corpus struct {
	Pages        []E2EPage
	TestCases    []QueryTestCase
	TotalPages   int
	TotalQueries int
}

// BuildCorpus returns a notebook of 100 pages with varied content and query
// test cases across all four search modes. Each page carries a unique
// signature phrase so queries can assert the correct page is returned.
func BuildCorpus() *Corpus {
	pages := buildPages(100)
	cases := buildQueryTestCases(pages)
	return &Corpus{
		Pages:        pages,
		TestCases:    cases,
		TotalPages:   len(pages),
		TotalQueries: len(cases),
	}
}

func buildPages(n int) []E2EPage {
	topics := []struct {
		name   string
		phrase string
		text   string
	}{
		{"Morning Routine", "sunrise espresso ritual", "Woke before dawn again. The sunrise espresso ritual keeps the whole day on rails."},
		{"Garden Notes", "heirloom tomato seedlings", "Transplanted the heirloom tomato seedlings into the raised bed by the fence."},
		{"Reading List", "unreliable narrator novels", "Collected a shelf of unreliable narrator novels to work through this winter."},
		{"Budget Review", "quarterly grocery spending", "The quarterly grocery spending crept up again; coffee beans are the main culprit."},
		{"Trip Planning", "overnight train to Hakodate", "Booked the overnight train to Hakodate. Pack light, the berths are narrow."},
		{"Recipe Ideas", "miso butter mushrooms", "The miso butter mushrooms need a hotter pan than the recipe claims."},
		{"Workout Log", "tempo run intervals", "Tuesday tempo run intervals felt easier at the slower cadence."},
		{"Meeting Notes", "archive migration deadline", "Pushed the archive migration deadline out a week after the vendor slipped."},
		{"Dream Journal", "lighthouse on a frozen lake", "Recurring image of a lighthouse on a frozen lake, third time this month."},
		{"Chore List", "descale the kettle", "Need to descale the kettle and oil the hinge on the back door."},
	}
	pages := make([]E2EPage, 0, n)
	for i := 0; i < n; i++ {
		topic := topics[i%len(topics)]
		pages = append(pages, E2EPage{
			Name: fmt.Sprintf("%s %d", topic.name, i/len(topics)+1),
			Text: fmt.Sprintf("Entry %d. %s Filler text so each page has body beyond its signature.", i+1, topic.text),
		})
	}
	return pages
}

func buildQueryTestCases(pages []E2EPage) []QueryTestCase {
	return []QueryTestCase{
		{
			Description:   "basic substring finds signature phrase",
			Query:         models.SearchQuery{Mode: models.ModeBasic, Text: "espresso ritual"},
			ExpectedPages: []string{"Morning Routine 1"},
		},
		{
			Description:   "basic is case-insensitive",
			Query:         models.SearchQuery{Mode: models.ModeBasic, Text: "HEIRLOOM TOMATO"},
			ExpectedPages: []string{"Garden Notes 1"},
		},
		{
			Description:   "basic matches page names",
			Query:         models.SearchQuery{Mode: models.ModeBasic, Text: "dream journal"},
			ExpectedPages: []string{"Dream Journal 1"},
		},
		{
			Description:   "advanced whole word does not match inside longer words",
			Query:         models.SearchQuery{Mode: models.ModeAdvanced, Text: "rail", WholeWord: true},
			ExpectedPages: nil, // only "rails" appears
		},
		{
			Description:   "advanced case-sensitive matches exact case",
			Query:         models.SearchQuery{Mode: models.ModeAdvanced, Text: "Hakodate", CaseSensitive: true},
			ExpectedPages: []string{"Trip Planning 1"},
		},
		{
			Description:   "advanced name-only ignores body text",
			Query:         models.SearchQuery{Mode: models.ModeAdvanced, Text: "workout", NameOnly: true},
			ExpectedPages: []string{"Workout Log 1"},
		},
		{
			Description:   "regex anchors to entry numbers",
			Query:         models.SearchQuery{Mode: models.ModeRegex, Text: `Entry 7\.`},
			ExpectedPages: []string{"Workout Log 1"},
		},
		{
			Description:   "keyword requires every term",
			Query:         models.SearchQuery{Mode: models.ModeKeyword, Terms: []string{"miso", "mushrooms"}},
			ExpectedPages: []string{"Recipe Ideas 1"},
		},
		{
			Description:   "keyword with absent term matches nothing",
			Query:         models.SearchQuery{Mode: models.ModeKeyword, Terms: []string{"miso", "zeppelin"}},
			ExpectedPages: nil,
		},
	}
}
