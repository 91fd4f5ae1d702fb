// Package extract turns one item page into a best-effort structured
// record via fetch plus a free-text structured-extraction call.
package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/trackevents/trackevents/internal/browse"
	"github.com/trackevents/trackevents/internal/llm"
	"github.com/trackevents/trackevents/internal/model"
)

// maxPageTextChars bounds the visible text handed to the extraction
// call.
const maxPageTextChars = 10_000

// maxDateHints bounds how many harvested candidates reach the prompt.
const maxDateHints = 5

// Extractor produces an ExtractedRecord per item URL. Extract is total:
// any failure (network, timeout, unparsable response) yields the
// all-empty stub for that URL, never an error.
type Extractor struct {
	fetcher  *browse.StaticFetcher
	provider llm.Provider
	verbose  bool
}

// NewExtractor creates an extractor around a fetcher and a completion
// provider.
func NewExtractor(fetcher *browse.StaticFetcher, provider llm.Provider, verbose bool) *Extractor {
	return &Extractor{
		fetcher:  fetcher,
		provider: provider,
		verbose:  verbose,
	}
}

// Extract fetches the item page and extracts the five free-text fields.
func (e *Extractor) Extract(ctx context.Context, url string) model.ExtractedRecord {
	record := model.StubRecord(url)

	page, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		e.warnf("fetch %s: %v", url, err)
		return record
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		e.warnf("parse %s: %v", url, err)
		return record
	}

	text := truncate(visibleText(doc), maxPageTextChars)
	dateHints := harvestDateCandidates(doc, text)

	if e.provider == nil {
		return record
	}

	completion, err := e.provider.Complete(ctx, llm.Request{
		Prompt: buildExtractionPrompt(text, dateHints),
	})
	if err != nil {
		e.warnf("extraction call for %s: %v", url, err)
		return record
	}

	var parsed model.ExtractedRecord
	if err := llm.ExtractJSONObject(completion.Text, &parsed); err != nil {
		e.warnf("unparsable extraction response for %s: %v", url, err)
		return record
	}

	// The URL is authoritative from the caller, never from the response.
	parsed.URL = url
	return parsed
}

// buildExtractionPrompt specifies the exact five-field output shape and
// passes the harvested date candidates as auxiliary context.
func buildExtractionPrompt(pageText string, dateHints []string) string {
	hint := ""
	if len(dateHints) > 0 {
		n := len(dateHints)
		if n > maxDateHints {
			n = maxDateHints
		}
		hint = fmt.Sprintf("\n\nPOTENTIAL DATES FOUND IN PAGE: %s\nUse these as hints to find the actual event date/time.",
			strings.Join(dateHints[:n], ", "))
	}

	return fmt.Sprintf(`Extract event details from this event page content:

%s%s

Return a JSON object with:
- title: event title
- date_text: the event date and time in a clear, complete format (e.g. "January 25, 2026 6:00 PM" or "Jan 25, 2026 at 6:00 PM" or "Tuesday, January 25, 2026")
- venue_text: location address or "Online" if virtual
- organizer_text: who is hosting the event
- description_text: event description (first 500 chars)

CRITICAL: The date is very important! Look carefully for:
- Full dates like "January 25, 2026" or "Jan 25, 2026"
- Dates with times like "January 25, 2026 at 6:00 PM" or "Jan 25, 2026 6:00 PM"
- Day names like "Tuesday, January 25, 2026"
- ISO dates like "2026-01-25"
- Times like "6:00 PM" or "18:00"
- Any date/time information in the page

If you see potential dates listed above, use them as hints to find the actual event date.
The date might be in various formats - extract it in a clear, readable format.

Return ONLY the JSON object, no other text.`, pageText, hint)
}

func (e *Extractor) warnf(format string, args ...any) {
	if e.verbose {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}
