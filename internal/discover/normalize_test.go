package discover

import "testing"

func TestValidIdentifier(t *testing.T) {
	site := DefaultSite()

	tests := []struct {
		id    string
		valid bool
		why   string
	}{
		{"evt-abc", true, "item prefix overrides shape heuristics"},
		{"AI-Summit-2026", true, "mixed-case slug"},
		{"9xKdQ2mP", true, "opaque ID"},
		{"xKdQ2mP", false, "lowercase-then-uppercase reads as camelCase key"},
		{"usr-abc123", false, "user-profile prefix"},
		{"cal-abc123", false, "calendar prefix"},
		{"org-abc123", false, "organization prefix"},
		{"sf", false, "excluded navigation slug"},
		{"login", false, "excluded navigation slug"},
		{"hero_image_mobile_url", false, "snake_case JSON key"},
		{"heroImageUrl", false, "camelCase JSON key"},
		{"ab", false, "too short"},
		{"abcdefg", false, "short all-lowercase"},
		{"abcdefgh1", true, "lowercase with digit is not a JSON key shape"},
		{"", false, "empty"},
		{"abc/def?x=1", false, "cleans to 'abc', too short"},
		{"evt-x/extra?q=1", true, "cleans to item-prefixed ID"},
	}

	for _, tt := range tests {
		if got := ValidIdentifier(tt.id, site); got != tt.valid {
			t.Errorf("ValidIdentifier(%q) = %v, want %v (%s)", tt.id, got, tt.valid, tt.why)
		}
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	site := DefaultSite()

	normalized, ok := NormalizeURL("https://LU.MA/evt-abc123/?utm_source=x", site)
	if !ok {
		t.Fatal("Expected URL to be accepted")
	}
	if normalized != "https://lu.ma/evt-abc123" {
		t.Errorf("Unexpected canonical form: %s", normalized)
	}

	// Normalizing the normalized form yields the same value
	again, ok := NormalizeURL(normalized, site)
	if !ok {
		t.Fatal("Expected canonical URL to be accepted")
	}
	if again != normalized {
		t.Errorf("Normalization not idempotent: %s != %s", again, normalized)
	}
}

func TestNormalizeURL_EquivalentFormsCollapse(t *testing.T) {
	site := DefaultSite()

	forms := []string{
		"https://lu.ma/evt-abc123",
		"https://LU.MA/evt-abc123/",
		"https://luma.com/evt-abc123?ref=home",
		"http://www.lu.ma/evt-abc123",
		"/evt-abc123",
	}

	want := "https://lu.ma/evt-abc123"
	for _, f := range forms {
		got, ok := NormalizeURL(f, site)
		if !ok {
			t.Errorf("NormalizeURL(%q) rejected", f)
			continue
		}
		if got != want {
			t.Errorf("NormalizeURL(%q) = %s, want %s", f, got, want)
		}
	}
}

func TestNormalizeURL_RejectsForeignHost(t *testing.T) {
	site := DefaultSite()

	if _, ok := NormalizeURL("https://example.com/evt-abc123", site); ok {
		t.Error("Expected foreign host to be rejected")
	}
}
