package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, content string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestHarvestDateCandidates_JSONLDFirst(t *testing.T) {
	page := `
	<html><head>
	<script type="application/ld+json">
	{"@type": "Event", "startDate": "2026-02-10T18:00:00-08:00", "name": "AI Meetup"}
	</script>
	</head>
	<body><p>Join us on February 10, 2026 at 6:00 PM</p></body></html>`

	doc := parseDoc(t, page)
	candidates := harvestDateCandidates(doc, visibleText(doc))

	if len(candidates) == 0 {
		t.Fatal("Expected candidates")
	}
	// Structured data outranks free-text matches
	if candidates[0] != "2026-02-10T18:00:00-08:00" {
		t.Errorf("Expected JSON-LD startDate first, got %q", candidates[0])
	}
}

func TestHarvestDateCandidates_JSONLDList(t *testing.T) {
	page := `
	<script type="application/ld+json">
	[{"@type": "Event", "startDate": "2026-03-01"}, {"@type": "Organization"}]
	</script>`

	doc := parseDoc(t, page)
	candidates := harvestDateCandidates(doc, "")

	found := false
	for _, c := range candidates {
		if c == "2026-03-01" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected startDate from JSON-LD list, got %v", candidates)
	}
}

func TestHarvestDateCandidates_MetaTags(t *testing.T) {
	page := `
	<html><head>
	<meta property="event:start_time" content="2026-04-05T10:00:00Z">
	<meta name="author" content="someone">
	</head><body></body></html>`

	doc := parseDoc(t, page)
	candidates := harvestDateCandidates(doc, "")

	if len(candidates) != 1 || candidates[0] != "2026-04-05T10:00:00Z" {
		t.Errorf("Expected only the event meta content, got %v", candidates)
	}
}

func TestHarvestDateCandidates_TextPatterns(t *testing.T) {
	text := "Doors open Tuesday, Jan 27 at the venue. Full date: January 27, 2026, starts 6:30 PM. Alt: 01/27/2026 and 2026-01-27."

	doc := parseDoc(t, "<html><body></body></html>")
	candidates := harvestDateCandidates(doc, text)

	wantSubstrings := []string{"January 27, 2026", "Jan 27", "01/27/2026", "2026-01-27", "6:30 PM"}
	joined := strings.Join(candidates, " | ")
	for _, w := range wantSubstrings {
		if !strings.Contains(joined, w) {
			t.Errorf("Expected a candidate containing %q, got %v", w, candidates)
		}
	}
}

func TestHarvestDateCandidates_DedupAndCap(t *testing.T) {
	// The same date repeated through many channels collapses to one entry
	text := strings.Repeat("January 25, 2026 ", 20)

	doc := parseDoc(t, "<html><body></body></html>")
	candidates := harvestDateCandidates(doc, text)

	count := 0
	for _, c := range candidates {
		if c == "January 25, 2026" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected one deduplicated entry, got %d in %v", count, candidates)
	}

	if len(candidates) > maxDateCandidates {
		t.Errorf("Expected at most %d candidates, got %d", maxDateCandidates, len(candidates))
	}
}

func TestHarvestDateCandidates_AttributeValues(t *testing.T) {
	page := `<div data-start-date="2026-05-01 18:00"></div><div data-timestamp="` + strings.Repeat("9", 60) + `"></div>`

	doc := parseDoc(t, page)
	candidates := harvestDateCandidates(doc, "")

	if len(candidates) != 1 || candidates[0] != "2026-05-01 18:00" {
		t.Errorf("Expected only the plausible attribute value, got %v", candidates)
	}
}

func TestVisibleText_SkipsScriptsAndCollapsesWhitespace(t *testing.T) {
	page := `<html><body>
	<script>var hidden = "secret";</script>
	<style>.x { color: red }</style>
	<p>Hello
	   world</p></body></html>`

	doc := parseDoc(t, page)
	text := visibleText(doc)

	if strings.Contains(text, "secret") || strings.Contains(text, "color") {
		t.Errorf("Non-content text leaked: %q", text)
	}
	if !strings.Contains(text, "Hello world") {
		t.Errorf("Expected collapsed text, got %q", text)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Errorf("Expected abcd, got %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}
}
