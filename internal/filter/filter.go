// Package filter narrows assembled events to the final shortlist:
// recency window, geography, relevance threshold, then rank and cap.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/trackevents/trackevents/internal/model"
)

// Options parameterizes one selection pass.
type Options struct {
	Now        time.Time
	WindowDays int
	Region     string
	GeoTerms   []string
	Threshold  float64
	TopN       int
}

// Select applies the filter chain and returns the ranked, capped
// shortlist. Input order is irrelevant; output is sorted by relevance
// score descending, ties broken by start time ascending with undated
// events last.
func Select(events []model.Event, opts Options) []model.Event {
	var kept []model.Event
	for _, e := range events {
		if !WithinWindow(e.StartAt, opts.Now, opts.WindowDays) {
			continue
		}
		if opts.Region != model.RegionAny && !MatchesGeography(e.Venue.Raw, opts.GeoTerms) {
			continue
		}
		if e.RelevanceScore < opts.Threshold {
			continue
		}
		kept = append(kept, e)
	}

	Rank(kept)

	if opts.TopN > 0 && len(kept) > opts.TopN {
		kept = kept[:opts.TopN]
	}
	return kept
}

// MatchesGeography reports whether the venue text matches any of the
// region terms. Online and virtual events always match: they are
// attendable from anywhere.
func MatchesGeography(venueRaw string, terms []string) bool {
	t := strings.ToLower(venueRaw)
	if strings.Contains(t, "online") || strings.Contains(t, "virtual") {
		return true
	}
	for _, term := range terms {
		if term != "" && strings.Contains(t, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Rank sorts events in place by relevance score descending, then by
// start time ascending. Events without a parsed start time sort after
// dated ones at the same score.
func Rank(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].RelevanceScore != events[j].RelevanceScore {
			return events[i].RelevanceScore > events[j].RelevanceScore
		}
		a, b := events[i].StartAt, events[j].StartAt
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}
