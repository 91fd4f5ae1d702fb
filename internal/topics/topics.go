// Package topics builds the domain-context profile the scorer matches
// events against: a fixed seed keyword set enriched with phrases mined
// from the reference site.
package topics

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/trackevents/trackevents/internal/browse"
	"github.com/trackevents/trackevents/internal/cache"
	"github.com/trackevents/trackevents/internal/model"
)

// SeedKeywords anchor the profile regardless of what the reference site
// currently says.
var SeedKeywords = []string{
	"agent reliability",
	"agent behavior monitoring",
	"agent behavior",
	"monitoring",
	"observability",
	"tracing",
	"traces",
	"anomaly detection",
	"anomalies",
	"evaluation",
	"scoring",
	"custom scoring",
	"golden dataset",
	"debugging",
	"production",
	"agent in production",
	"llm evaluation",
	"reliability",
	"safety",
	"security",
	"pii",
	"privacy",
	"hallucination",
	"prompting",
	"prompt optimization",
	"agent ops",
	"agentops",
	"observability for agents",
}

// coreTerms bias phrase ranking toward the domain vocabulary.
var coreTerms = []string{"agent", "monitor", "observab", "trace", "score", "eval", "reliab", "anomal", "pii"}

// phrase-mining bounds
const (
	maxPhrases  = 40
	minTokenLen = 3
)

var (
	tokenStripPattern = regexp.MustCompile(`[^a-z0-9\s\-_/]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// skipPhrases drops boilerplate n-grams before ranking.
var skipPhrases = []string{"privacy policy", "terms of use"}

// Builder assembles profiles, caching the mined phrases per reference
// URL so repeated runs do not refetch the site.
type Builder struct {
	fetcher *browse.StaticFetcher
	store   cache.Cache
	ttl     time.Duration
	verbose bool
}

// NewBuilder creates a profile builder. store may be nil to disable
// caching.
func NewBuilder(fetcher *browse.StaticFetcher, store cache.Cache, ttl time.Duration, verbose bool) *Builder {
	return &Builder{fetcher: fetcher, store: store, ttl: ttl, verbose: verbose}
}

// Build returns the profile for a reference URL. Phrase mining is best
// effort: if the site cannot be fetched the profile falls back to the
// seed keywords alone.
func (b *Builder) Build(ctx context.Context, referenceURL, narrative string) *model.Profile {
	profile := &model.Profile{
		SeedKeywords: append([]string(nil), SeedKeywords...),
		Narrative:    narrative,
	}

	if referenceURL == "" {
		return profile
	}

	if cached, ok := b.cachedPhrases(referenceURL); ok {
		profile.DerivedPhrases = cached
		return profile
	}

	page, err := b.fetcher.Fetch(ctx, referenceURL)
	if err != nil {
		b.warnf("reference site %s unavailable, using seed keywords only: %v", referenceURL, err)
		return profile
	}

	text := MainText(page.HTML)
	profile.DerivedPhrases = TopPhrases(text, maxPhrases)
	b.storePhrases(referenceURL, profile.DerivedPhrases)
	return profile
}

func (b *Builder) cachedPhrases(referenceURL string) ([]string, bool) {
	if b.store == nil {
		return nil, false
	}
	raw, found := b.store.Get(cache.CacheKey(referenceURL))
	if !found {
		return nil, false
	}
	var phrases []string
	if err := json.Unmarshal(raw, &phrases); err != nil {
		return nil, false
	}
	return phrases, true
}

func (b *Builder) storePhrases(referenceURL string, phrases []string) {
	if b.store == nil {
		return
	}
	raw, err := json.Marshal(phrases)
	if err != nil {
		return
	}
	if err := b.store.Set(cache.CacheKey(referenceURL), raw, b.ttl); err != nil {
		b.warnf("cache profile phrases: %v", err)
	}
}

// mainTextTags are the elements whose text carries the site's actual
// copy, as opposed to navigation and chrome.
var mainTextTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "p": true, "li": true,
}

var chromeTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "svg": true,
}

// MainText extracts the main copy of a page: the text of heading,
// paragraph and list elements, one chunk per line. Unparsable HTML
// yields an empty string.
func MainText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	var chunks []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if chromeTags[n.Data] {
				return
			}
			if mainTextTags[n.Data] {
				if txt := cleanText(nodeText(n)); len(txt) >= 3 {
					chunks = append(chunks, txt)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(chunks, "\n")
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && chromeTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func cleanText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// TopPhrases mines the most telling 2- and 3-grams from text: ranked by
// whether they contain a core domain term, then by frequency, then
// alphabetically for determinism.
func TopPhrases(text string, limit int) []string {
	tokens := tokenize(text)

	counts := make(map[string]int)
	for _, n := range []int{2, 3} {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if isSkipPhrase(gram) {
				continue
			}
			counts[gram]++
		}
	}

	type scored struct {
		gram  string
		core  bool
		count int
	}
	ranked := make([]scored, 0, len(counts))
	for gram, count := range counts {
		ranked = append(ranked, scored{gram: gram, core: containsCoreTerm(gram), count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].core != ranked[j].core {
			return ranked[i].core
		}
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].gram < ranked[j].gram
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	phrases := make([]string, len(ranked))
	for i, r := range ranked {
		phrases[i] = r.gram
	}
	return phrases
}

func tokenize(text string) []string {
	text = strings.ToLower(text)
	text = tokenStripPattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	var tokens []string
	for _, t := range strings.Split(text, " ") {
		if len(t) >= minTokenLen {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func isSkipPhrase(gram string) bool {
	for _, skip := range skipPhrases {
		if strings.Contains(gram, skip) {
			return true
		}
	}
	return false
}

func containsCoreTerm(gram string) bool {
	for _, core := range coreTerms {
		if strings.Contains(gram, core) {
			return true
		}
	}
	return false
}

func (b *Builder) warnf(format string, args ...any) {
	if b.verbose {
		fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
	}
}
