package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Date-like patterns scanned over visible text, highest confidence
// first: month-name dates, weekday-prefixed dates, numeric dates, ISO
// dates, and times of day.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}`),
	regexp.MustCompile(`(?i)\b(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun)[a-z]*,?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)`),
}

// maxDateCandidates caps the harvested hint list.
const maxDateCandidates = 10

// maxMatchesPerPattern keeps only the first few hits of each pattern.
const maxMatchesPerPattern = 3

// harvestDateCandidates collects date-like strings from an item page in
// decreasing precision order: embedded structured data first, then meta
// tags, then pattern scans over visible text, then date-like attribute
// values. Structured data leads because it is far higher precision than
// free text; the ordering survives the truncation to maxDateCandidates.
func harvestDateCandidates(doc *html.Node, visibleText string) []string {
	var candidates []string

	candidates = append(candidates, jsonLDStartDates(doc)...)
	candidates = append(candidates, metaTagDates(doc)...)

	for _, pattern := range datePatterns {
		matches := pattern.FindAllString(visibleText, maxMatchesPerPattern)
		candidates = append(candidates, matches...)
	}

	candidates = append(candidates, attributeDates(doc)...)

	return dedupeStrings(candidates, maxDateCandidates)
}

// jsonLDStartDates pulls startDate values out of application/ld+json
// Event blocks.
func jsonLDStartDates(doc *html.Node) []string {
	var out []string

	walkNodes(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "script" {
			return
		}
		if attrValue(n, "type") != "application/ld+json" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				continue
			}
			var data any
			if err := json.Unmarshal([]byte(c.Data), &data); err != nil {
				continue
			}
			switch v := data.(type) {
			case map[string]any:
				if d := eventStartDate(v); d != "" {
					out = append(out, d)
				}
			case []any:
				for _, item := range v {
					if m, ok := item.(map[string]any); ok {
						if d := eventStartDate(m); d != "" {
							out = append(out, d)
						}
					}
				}
			}
		}
	})

	return out
}

// eventStartDate returns the startDate of a schema.org Event object.
func eventStartDate(m map[string]any) string {
	if t, _ := m["@type"].(string); t != "Event" {
		return ""
	}
	d, _ := m["startDate"].(string)
	return d
}

// metaTagDates collects content of meta tags whose property or name
// mentions date, time, event or start.
func metaTagDates(doc *html.Node) []string {
	keywords := []string{"date", "time", "event", "start"}
	var out []string

	walkNodes(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return
		}
		prop := attrValue(n, "property")
		if prop == "" {
			prop = attrValue(n, "name")
		}
		prop = strings.ToLower(prop)

		matched := false
		for _, k := range keywords {
			if strings.Contains(prop, k) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}

		if content := attrValue(n, "content"); len(content) > 5 {
			out = append(out, content)
		}
	})

	return out
}

// attributeDates collects attribute values whose attribute name mentions
// date or time and whose value length is plausible for a date string.
func attributeDates(doc *html.Node) []string {
	var out []string

	walkNodes(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		for _, attr := range n.Attr {
			key := strings.ToLower(attr.Key)
			if !strings.Contains(key, "date") && !strings.Contains(key, "time") {
				continue
			}
			if len(attr.Val) > 5 && len(attr.Val) < 50 {
				out = append(out, attr.Val)
			}
		}
	})

	return out
}

// dedupeStrings removes duplicates preserving first-seen order, capped
// at limit.
func dedupeStrings(in []string, limit int) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func walkNodes(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, fn)
	}
}
