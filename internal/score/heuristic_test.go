package score

import (
	"context"
	"reflect"
	"testing"

	"github.com/trackevents/trackevents/internal/model"
)

func testProfile() *model.Profile {
	return &model.Profile{
		SeedKeywords: []string{"observability", "llm evaluation", "agent reliability", "tracing"},
		Narrative:    "The target organization works on agent observability.",
	}
}

func TestHeuristic_Score_Deterministic(t *testing.T) {
	h := NewHeuristic(0.5)
	profile := testProfile()
	record := model.ExtractedRecord{
		URL:             "https://lu.ma/evt-x",
		Title:           "Observability meetup",
		DescriptionText: "Deep dive into tracing and llm evaluation practices.",
	}

	first := h.Score(context.Background(), record, profile)
	for i := 0; i < 5; i++ {
		again := h.Score(context.Background(), record, profile)
		if again.Score != first.Score {
			t.Fatalf("Score changed between calls: %f != %f", again.Score, first.Score)
		}
		if !reflect.DeepEqual(again.MatchedTopics, first.MatchedTopics) {
			t.Fatalf("Matched topics changed between calls: %v != %v", again.MatchedTopics, first.MatchedTopics)
		}
	}
}

func TestHeuristic_Score_TitleWeighted(t *testing.T) {
	h := NewHeuristic(0.5)
	profile := testProfile()

	inTitle := h.Score(context.Background(), model.ExtractedRecord{
		Title: "Tracing workshop",
	}, profile)
	inBody := h.Score(context.Background(), model.ExtractedRecord{
		Title:           "Workshop",
		DescriptionText: "All about tracing.",
	}, profile)

	if inTitle.Score <= inBody.Score {
		t.Errorf("Expected title hit to outweigh body hit: %f <= %f", inTitle.Score, inBody.Score)
	}

	// One title hit reaches the 0.5 threshold, one body hit does not
	if !inTitle.IsRelevant {
		t.Errorf("Expected single title hit to be relevant, score %f", inTitle.Score)
	}
	if inBody.IsRelevant {
		t.Errorf("Expected single body hit to be below threshold, score %f", inBody.Score)
	}
}

func TestHeuristic_Score_MatchedTopicsSortedDistinct(t *testing.T) {
	h := NewHeuristic(0.5)
	profile := testProfile()

	v := h.Score(context.Background(), model.ExtractedRecord{
		Title:           "Tracing and observability",
		DescriptionText: "tracing tracing observability",
	}, profile)

	want := []string{"observability", "tracing"}
	if !reflect.DeepEqual(v.MatchedTopics, want) {
		t.Errorf("Expected %v, got %v", want, v.MatchedTopics)
	}
}

func TestHeuristic_Score_NoHits(t *testing.T) {
	h := NewHeuristic(0.5)

	v := h.Score(context.Background(), model.ExtractedRecord{
		Title:           "Wine tasting evening",
		DescriptionText: "A relaxed evening of natural wines.",
	}, testProfile())

	if v.IsRelevant {
		t.Error("Expected not relevant")
	}
	if v.Score != 0 {
		t.Errorf("Expected zero score, got %f", v.Score)
	}
	if len(v.MatchedTopics) != 0 {
		t.Errorf("Expected no matched topics, got %v", v.MatchedTopics)
	}
}

func TestHeuristic_Score_CappedAtOne(t *testing.T) {
	h := NewHeuristic(0.5)

	v := h.Score(context.Background(), model.ExtractedRecord{
		Title:           "observability tracing llm evaluation agent reliability",
		DescriptionText: "observability tracing llm evaluation agent reliability",
	}, testProfile())

	if v.Score > 1 {
		t.Errorf("Expected score capped at 1, got %f", v.Score)
	}
}

func TestKeywordHits_CaseInsensitive(t *testing.T) {
	hits := KeywordHits("OBSERVABILITY for Agents", []string{"observability", "agents"})

	want := []string{"agents", "observability"}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("Expected %v, got %v", want, hits)
	}
}
