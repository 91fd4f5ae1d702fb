package model

import (
	"sort"
	"strings"
	"time"
)

// ExtractedRecord is the raw, free-text result of one detail extraction
// attempt. Every field except URL may be empty; a record with all text
// fields empty is a stub substituted on extraction failure.
type ExtractedRecord struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	DateText        string `json:"date_text"`
	VenueText       string `json:"venue_text"`
	OrganizerText   string `json:"organizer_text"`
	DescriptionText string `json:"description_text"`
}

// StubRecord returns the all-empty record for a URL. The scheduler
// substitutes it whenever extraction fails so the pipeline stays total.
func StubRecord(url string) ExtractedRecord {
	return ExtractedRecord{URL: url}
}

// IsStub reports whether the record carries no usable content. Records
// without title and description never make it into the final event list.
func (r ExtractedRecord) IsStub() bool {
	return strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.DescriptionText) == ""
}

// RelevanceVerdict is the result of scoring one record against the
// domain-context profile. It is a pure function of its inputs.
type RelevanceVerdict struct {
	IsRelevant    bool     `json:"is_relevant"`
	Score         float64  `json:"relevance_score"`
	Reason        string   `json:"reason,omitempty"`
	MatchedTopics []string `json:"matched_topics,omitempty"`
}

// NotRelevant is the fail-closed verdict: an unscoreable record must not
// leak through as relevant.
func NotRelevant(reason string) RelevanceVerdict {
	return RelevanceVerdict{IsRelevant: false, Score: 0.0, Reason: reason}
}

// Venue is the location of an event as extracted, plus the online flag
// derived from its text.
type Venue struct {
	Raw      string `json:"raw,omitempty"`
	IsOnline bool   `json:"is_online"`
}

// Organizer identifies who hosts an event.
type Organizer struct {
	Name string `json:"name,omitempty"`
}

// Event is the final entity: extracted fields joined with the relevance
// verdict and derived fields. Immutable once assembled.
type Event struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	StartAt     *time.Time `json:"start_at"`
	EndAt       *time.Time `json:"end_at,omitempty"`
	Timezone    string     `json:"timezone,omitempty"`
	Venue       Venue      `json:"venue"`
	Organizer   Organizer  `json:"organizer"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"`

	RelevanceScore  float64  `json:"relevance_score"`
	MatchedKeywords []string `json:"matched_keywords"`
	RelevanceReason string   `json:"relevance_reason,omitempty"`
}

// Profile is the domain-context profile the scorer matches events
// against. Built once per run and read-only afterwards.
type Profile struct {
	SeedKeywords   []string `json:"seed_keywords"`
	DerivedPhrases []string `json:"derived_phrases"`
	Narrative      string   `json:"narrative"`
}

// AllKeywords merges seed keywords and derived phrases into one
// deduplicated, sorted lookup list for the heuristic strategy.
func (p *Profile) AllKeywords() []string {
	seen := make(map[string]bool, len(p.SeedKeywords)+len(p.DerivedPhrases))
	var merged []string
	for _, group := range [][]string{p.SeedKeywords, p.DerivedPhrases} {
		for _, k := range group {
			k = strings.ToLower(strings.TrimSpace(k))
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, k)
		}
	}
	sort.Strings(merged)
	return merged
}
