package model

import (
	"reflect"
	"testing"
)

func TestExtractedRecord_IsStub(t *testing.T) {
	cases := []struct {
		name   string
		record ExtractedRecord
		want   bool
	}{
		{"empty", StubRecord("https://lu.ma/evt-x"), true},
		{"whitespace only", ExtractedRecord{URL: "u", Title: "  ", DescriptionText: "\n"}, true},
		{"title only", ExtractedRecord{URL: "u", Title: "Meetup"}, false},
		{"description only", ExtractedRecord{URL: "u", DescriptionText: "An event."}, false},
		{"date but no content", ExtractedRecord{URL: "u", DateText: "Jan 25"}, true},
	}

	for _, c := range cases {
		if got := c.record.IsStub(); got != c.want {
			t.Errorf("%s: IsStub() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNotRelevant(t *testing.T) {
	v := NotRelevant("call failed")

	if v.IsRelevant || v.Score != 0.0 {
		t.Errorf("Expected fail-closed verdict, got %+v", v)
	}
	if v.Reason != "call failed" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestProfile_AllKeywords(t *testing.T) {
	p := &Profile{
		SeedKeywords:   []string{"Tracing", "observability", "  ", "tracing"},
		DerivedPhrases: []string{"agent observability", "OBSERVABILITY"},
	}

	want := []string{"agent observability", "observability", "tracing"}
	if got := p.AllKeywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllKeywords() = %v, want %v", got, want)
	}
}
