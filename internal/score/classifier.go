package score

import (
	"context"
	"fmt"

	"github.com/trackevents/trackevents/internal/llm"
	"github.com/trackevents/trackevents/internal/model"
)

// maxDescriptionChars bounds how much description text reaches the
// classification prompt.
const maxDescriptionChars = 800

// Classifier asks the completion provider for a relevance verdict
// against the profile narrative. Any call or parse failure yields the
// fail-closed not-relevant verdict: an unscoreable record must never
// leak through as relevant.
type Classifier struct {
	provider llm.Provider
}

// NewClassifier creates the classifier strategy.
func NewClassifier(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Name returns the strategy name
func (c *Classifier) Name() string { return "classifier" }

// Score submits the classification request and parses the verdict
// permissively.
func (c *Classifier) Score(ctx context.Context, record model.ExtractedRecord, profile *model.Profile) model.RelevanceVerdict {
	description := record.DescriptionText
	if len(description) > maxDescriptionChars {
		description = description[:maxDescriptionChars]
	}

	completion, err := c.provider.Complete(ctx, llm.Request{
		Prompt:    buildClassificationPrompt(profile.Narrative, record.Title, description),
		MaxTokens: 300,
	})
	if err != nil {
		return model.NotRelevant(fmt.Sprintf("classification call failed: %v", err))
	}

	var verdict model.RelevanceVerdict
	if err := llm.ExtractJSONObject(completion.Text, &verdict); err != nil {
		return model.NotRelevant("unparsable classification response")
	}

	if verdict.Score < 0 {
		verdict.Score = 0
	}
	if verdict.Score > 1 {
		verdict.Score = 1
	}

	return verdict
}

// buildClassificationPrompt embeds the domain narrative, the record and
// an explicit strict scoring rubric.
func buildClassificationPrompt(narrative, title, description string) string {
	return fmt.Sprintf(`%s

Analyze this event:
Title: %s
Description: %s

Is this event highly relevant to the target organization's field? Be strict - only mark as relevant if the event is directly related to the focus areas above.

Return ONLY a JSON object:
{"is_relevant": true/false, "relevance_score": 0.0-1.0, "reason": "brief explanation", "matched_topics": ["topic1", "topic2"]}

Use a strict scoring scale:
- 0.7-1.0: Highly relevant, directly related to the core focus
- 0.5-0.7: Moderately relevant, tangentially related
- 0.0-0.5: Not relevant or only loosely related`, narrative, title, description)
}
