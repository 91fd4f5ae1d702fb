package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)

	// embeddedDatePatterns pull a date-like substring out of prose when
	// the whole string does not parse.
	embeddedDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:Mon|Tues?|Wed(?:nes)?|Thur?s?|Fri|Sat(?:ur)?|Sun)day,?\s+[A-Z][a-z]+\s+\d{1,2},?\s+\d{4}(?:\s+(?:at\s+)?\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)?)?`),
		regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}(?:\s+(?:at\s+)?\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)?)?`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}(?:[T\s]\d{2}:\d{2}(?::\d{2})?(?:Z|[+-]\d{2}:?\d{2})?)?`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}(?:\s+\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)?)?`),
	}
)

// ParseDateLoose parses free-text date strings permissively. It collapses
// whitespace, tries the whole string, then falls back to date-like
// substrings. Returns nil when nothing parses.
func ParseDateLoose(s string) *time.Time {
	s = strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
	if s == "" {
		return nil
	}

	if t := tryParse(s); t != nil {
		return t
	}

	for _, p := range embeddedDatePatterns {
		for _, match := range p.FindAllString(s, 3) {
			if t := tryParse(match); t != nil {
				return t
			}
		}
	}
	return nil
}

var leadingWeekdayPattern = regexp.MustCompile(`(?i)^(?:Mon|Tues?|Wed(?:nes)?|Thur?s?|Fri|Sat(?:ur)?|Sun)day,?\s+`)

func tryParse(s string) *time.Time {
	// dateparse understands neither the "at" connective nor a leading
	// spelled-out weekday
	s = strings.ReplaceAll(s, " at ", " ")
	s = leadingWeekdayPattern.ReplaceAllString(s, "")
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return nil
	}
	return &t
}

// WithinWindow reports whether start falls inside [now, now+days]. A nil
// start passes: an unparseable date on an otherwise relevant event is
// advisory, not disqualifying.
func WithinWindow(start *time.Time, now time.Time, days int) bool {
	if start == nil {
		return true
	}
	end := now.AddDate(0, 0, days)
	return !start.Before(now) && !start.After(end)
}
