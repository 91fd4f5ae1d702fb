// Package score decides how relevant an extracted record is to the
// domain-context profile. Two interchangeable strategies exist: a
// deterministic keyword heuristic and an LLM classifier. Both are pure
// per record, so scoring parallelizes without coordination.
package score

import (
	"context"
	"fmt"

	"github.com/trackevents/trackevents/internal/llm"
	"github.com/trackevents/trackevents/internal/model"
)

// Strategy scores one record against a profile.
type Strategy interface {
	// Name returns the strategy name
	Name() string

	// Score produces a relevance verdict; it must not mutate shared
	// state and must fail closed (not-relevant, zero score) on any
	// internal failure
	Score(ctx context.Context, record model.ExtractedRecord, profile *model.Profile) model.RelevanceVerdict
}

// NewStrategy selects a strategy by name. The classifier requires a
// configured completion provider; asking for it without one is a
// configuration error surfaced at startup.
func NewStrategy(name string, threshold float64, provider llm.Provider) (Strategy, error) {
	switch name {
	case "heuristic":
		return NewHeuristic(threshold), nil

	case "classifier":
		if provider == nil {
			return nil, fmt.Errorf("classifier strategy requires an LLM provider")
		}
		return NewClassifier(provider), nil

	default:
		return nil, fmt.Errorf("unknown scoring strategy: %s (supported: heuristic, classifier)", name)
	}
}
