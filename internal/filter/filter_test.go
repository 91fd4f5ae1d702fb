package filter

import (
	"testing"
	"time"

	"github.com/trackevents/trackevents/internal/model"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func baseOptions(now time.Time) Options {
	return Options{
		Now:        now,
		WindowDays: 14,
		Region:     "sf_bay",
		GeoTerms:   []string{"san francisco", "sf", "oakland", "berkeley"},
		Threshold:  0.5,
		TopN:       7,
	}
}

func TestParseDateLoose(t *testing.T) {
	cases := []struct {
		in      string
		parses  bool
		wantDay int
	}{
		{"January 25, 2026 6:00 PM", true, 25},
		{"Jan 25, 2026 at 6:00 PM", true, 25},
		{"2026-01-25", true, 25},
		{"2026-01-25T18:00:00Z", true, 25},
		{"Tuesday,   January 27, 2026", true, 27},
		{"Join us on January 25, 2026 at 6:00 PM in San Francisco for talks.", true, 25},
		{"", false, 0},
		{"sometime soon", false, 0},
	}

	for _, c := range cases {
		got := ParseDateLoose(c.in)
		if c.parses {
			if got == nil {
				t.Errorf("ParseDateLoose(%q) = nil, want a date", c.in)
				continue
			}
			if got.Day() != c.wantDay {
				t.Errorf("ParseDateLoose(%q) day = %d, want %d", c.in, got.Day(), c.wantDay)
			}
		} else if got != nil {
			t.Errorf("ParseDateLoose(%q) = %v, want nil", c.in, got)
		}
	}
}

func TestWithinWindow(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	if !WithinWindow(ts("2026-01-25 18:00"), now, 14) {
		t.Error("Expected date inside window to pass")
	}
	if WithinWindow(ts("2026-01-19 18:00"), now, 14) {
		t.Error("Expected past date to fail")
	}
	if WithinWindow(ts("2026-03-01 18:00"), now, 14) {
		t.Error("Expected date beyond window to fail")
	}
	if !WithinWindow(nil, now, 14) {
		t.Error("Expected unparsed date to pass")
	}
}

func TestMatchesGeography(t *testing.T) {
	terms := []string{"san francisco", "oakland"}

	if !MatchesGeography("123 Market St, San Francisco, CA", terms) {
		t.Error("Expected SF venue to match")
	}
	if MatchesGeography("Austin Convention Center, TX", terms) {
		t.Error("Expected non-Bay venue to not match")
	}
	if !MatchesGeography("Online", terms) {
		t.Error("Expected online venue to be exempt")
	}
	if !MatchesGeography("Virtual event via Zoom", terms) {
		t.Error("Expected virtual venue to be exempt")
	}
	if MatchesGeography("", terms) {
		t.Error("Expected empty venue to not match")
	}
}

func TestSelect_FilterChain(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	events := []model.Event{
		{URL: "u1", Title: "keeper", StartAt: ts("2026-01-25 18:00"), Venue: model.Venue{Raw: "San Francisco"}, RelevanceScore: 0.9},
		{URL: "u2", Title: "too late", StartAt: ts("2026-06-01 18:00"), Venue: model.Venue{Raw: "San Francisco"}, RelevanceScore: 0.9},
		{URL: "u3", Title: "wrong place", StartAt: ts("2026-01-25 18:00"), Venue: model.Venue{Raw: "Austin, TX"}, RelevanceScore: 0.9},
		{URL: "u4", Title: "low score", StartAt: ts("2026-01-25 18:00"), Venue: model.Venue{Raw: "San Francisco"}, RelevanceScore: 0.3},
		{URL: "u5", Title: "undated keeper", Venue: model.Venue{Raw: "Oakland"}, RelevanceScore: 0.7},
		{URL: "u6", Title: "online keeper", StartAt: ts("2026-01-26 18:00"), Venue: model.Venue{Raw: "Online"}, RelevanceScore: 0.8},
	}

	got := Select(events, baseOptions(now))

	want := []string{"u1", "u6", "u5"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d events, got %d: %+v", len(want), len(got), got)
	}
	for i, url := range want {
		if got[i].URL != url {
			t.Errorf("Position %d: expected %s, got %s", i, url, got[i].URL)
		}
	}
}

func TestSelect_CapInvariant(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

	var events []model.Event
	for i := 0; i < 20; i++ {
		events = append(events, model.Event{
			URL:            "u",
			StartAt:        ts("2026-01-25 18:00"),
			Venue:          model.Venue{Raw: "San Francisco"},
			RelevanceScore: 0.6 + float64(i)*0.01,
		})
	}

	got := Select(events, baseOptions(now))
	if len(got) != 7 {
		t.Errorf("Expected cap of 7, got %d", len(got))
	}
	// highest score first after capping
	if got[0].RelevanceScore < got[len(got)-1].RelevanceScore {
		t.Error("Expected descending scores after cap")
	}
}

func TestSelect_RegionAnySkipsGeography(t *testing.T) {
	now := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	opts := baseOptions(now)
	opts.Region = model.RegionAny

	events := []model.Event{
		{URL: "u1", StartAt: ts("2026-01-25 18:00"), Venue: model.Venue{Raw: "Berlin, Germany"}, RelevanceScore: 0.9},
	}

	if got := Select(events, opts); len(got) != 1 {
		t.Errorf("Expected geography filter to be skipped, got %d events", len(got))
	}
}

func TestRank_ScoreThenDateThenUndatedLast(t *testing.T) {
	events := []model.Event{
		{URL: "undated-high", RelevanceScore: 0.9},
		{URL: "late-high", StartAt: ts("2026-01-28 10:00"), RelevanceScore: 0.9},
		{URL: "early-high", StartAt: ts("2026-01-22 10:00"), RelevanceScore: 0.9},
		{URL: "low", StartAt: ts("2026-01-21 10:00"), RelevanceScore: 0.4},
	}

	Rank(events)

	want := []string{"early-high", "late-high", "undated-high", "low"}
	for i, url := range want {
		if events[i].URL != url {
			t.Errorf("Position %d: expected %s, got %s", i, url, events[i].URL)
		}
	}
}
