package score

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/trackevents/trackevents/internal/llm"
	"github.com/trackevents/trackevents/internal/model"
)

// mockProvider returns a fixed completion or error.
type mockProvider struct {
	text       string
	err        error
	lastPrompt string
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	m.lastPrompt = req.Prompt
	if m.err != nil {
		return nil, m.err
	}
	return &llm.Completion{Text: m.text}, nil
}

func TestClassifier_Score_ParsesVerdict(t *testing.T) {
	provider := &mockProvider{
		text: `{"is_relevant": true, "relevance_score": 0.85, "reason": "agent observability talk", "matched_topics": ["observability", "ai agents"]}`,
	}
	c := NewClassifier(provider)

	v := c.Score(context.Background(), model.ExtractedRecord{
		Title:           "Agent observability in production",
		DescriptionText: "Monitoring agent behavior at scale.",
	}, testProfile())

	if !v.IsRelevant {
		t.Error("Expected relevant verdict")
	}
	if v.Score != 0.85 {
		t.Errorf("Expected score 0.85, got %f", v.Score)
	}
	if len(v.MatchedTopics) != 2 {
		t.Errorf("Expected 2 matched topics, got %v", v.MatchedTopics)
	}
}

func TestClassifier_Score_FailClosedOnUnparsableText(t *testing.T) {
	provider := &mockProvider{text: "I think this event might be about agents, hard to say."}
	c := NewClassifier(provider)

	v := c.Score(context.Background(), model.ExtractedRecord{Title: "Agents meetup"}, testProfile())

	if v.IsRelevant {
		t.Error("Expected fail-closed not-relevant verdict")
	}
	if v.Score != 0.0 {
		t.Errorf("Expected zero score, got %f", v.Score)
	}
}

func TestClassifier_Score_FailClosedOnCallError(t *testing.T) {
	provider := &mockProvider{err: errors.New("rate limited")}
	c := NewClassifier(provider)

	v := c.Score(context.Background(), model.ExtractedRecord{Title: "Agents meetup"}, testProfile())

	if v.IsRelevant || v.Score != 0.0 {
		t.Errorf("Expected fail-closed verdict, got %+v", v)
	}
}

func TestClassifier_Score_ClampsScore(t *testing.T) {
	provider := &mockProvider{text: `{"is_relevant": true, "relevance_score": 1.7}`}
	c := NewClassifier(provider)

	v := c.Score(context.Background(), model.ExtractedRecord{}, testProfile())
	if v.Score != 1 {
		t.Errorf("Expected score clamped to 1, got %f", v.Score)
	}
}

func TestClassifier_Score_PromptCarriesNarrativeAndRecord(t *testing.T) {
	provider := &mockProvider{text: `{"is_relevant": false, "relevance_score": 0.1}`}
	c := NewClassifier(provider)

	longDescription := strings.Repeat("x", 2000)
	c.Score(context.Background(), model.ExtractedRecord{
		Title:           "Some event",
		DescriptionText: longDescription,
	}, testProfile())

	if !strings.Contains(provider.lastPrompt, "agent observability") {
		t.Error("Expected narrative in prompt")
	}
	if !strings.Contains(provider.lastPrompt, "Some event") {
		t.Error("Expected title in prompt")
	}
	if strings.Contains(provider.lastPrompt, longDescription) {
		t.Error("Expected description to be truncated in prompt")
	}
}

func TestNewStrategy(t *testing.T) {
	if _, err := NewStrategy("heuristic", 0.5, nil); err != nil {
		t.Errorf("Expected heuristic without provider, got %v", err)
	}
	if _, err := NewStrategy("classifier", 0.5, nil); err == nil {
		t.Error("Expected error for classifier without provider")
	}
	if s, err := NewStrategy("classifier", 0.5, &mockProvider{}); err != nil || s.Name() != "classifier" {
		t.Errorf("Expected classifier strategy, got %v %v", s, err)
	}
	if _, err := NewStrategy("nonsense", 0.5, nil); err == nil {
		t.Error("Expected error for unknown strategy")
	}
}
