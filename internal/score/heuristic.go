package score

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/trackevents/trackevents/internal/model"
)

// hitWeight converts keyword hit counts into the [0,1] score band; a
// title hit counts 1.5x a body hit.
const (
	hitWeight        = 0.4
	titleHitMultiple = 1.5
)

// Heuristic scores by case-insensitive substring overlap between the
// record and the profile keywords. Deterministic, free, no external
// call.
type Heuristic struct {
	threshold float64
}

// NewHeuristic creates the heuristic strategy.
func NewHeuristic(threshold float64) *Heuristic {
	return &Heuristic{threshold: threshold}
}

// Name returns the strategy name
func (h *Heuristic) Name() string { return "heuristic" }

// Score counts keyword hits over a search blob built from all record
// text fields, weights title hits higher, and caps the score at 1.
func (h *Heuristic) Score(_ context.Context, record model.ExtractedRecord, profile *model.Profile) model.RelevanceVerdict {
	keywords := profile.AllKeywords()

	blob := strings.Join([]string{
		record.Title,
		record.DescriptionText,
		record.VenueText,
		record.OrganizerText,
	}, " ")

	hits := KeywordHits(blob, keywords)
	titleHits := KeywordHits(record.Title, keywords)

	raw := float64(len(hits)) + float64(len(titleHits))*(titleHitMultiple-1)
	score := raw * hitWeight
	if score > 1 {
		score = 1
	}

	reason := ""
	if len(hits) > 0 {
		reason = fmt.Sprintf("matched %d keyword(s), %d in title", len(hits), len(titleHits))
	}

	return model.RelevanceVerdict{
		IsRelevant:    score >= h.threshold,
		Score:         score,
		Reason:        reason,
		MatchedTopics: hits,
	}
}

// KeywordHits returns the sorted distinct keywords found in text by
// case-insensitive substring match.
func KeywordHits(text string, keywords []string) []string {
	t := strings.ToLower(text)
	seen := make(map[string]bool)
	var hits []string
	for _, k := range keywords {
		if k == "" || seen[k] {
			continue
		}
		if strings.Contains(t, k) {
			seen[k] = true
			hits = append(hits, k)
		}
	}
	sort.Strings(hits)
	return hits
}
