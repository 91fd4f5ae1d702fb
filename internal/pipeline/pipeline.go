// Package pipeline orchestrates a full scrape run: profile building,
// URL discovery, batched extraction and scoring, event assembly,
// filtering and export.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/trackevents/trackevents/internal/browse"
	"github.com/trackevents/trackevents/internal/cache"
	"github.com/trackevents/trackevents/internal/discover"
	"github.com/trackevents/trackevents/internal/export"
	"github.com/trackevents/trackevents/internal/extract"
	"github.com/trackevents/trackevents/internal/filter"
	"github.com/trackevents/trackevents/internal/llm"
	"github.com/trackevents/trackevents/internal/model"
	"github.com/trackevents/trackevents/internal/score"
	"github.com/trackevents/trackevents/internal/topics"
	"github.com/trackevents/trackevents/internal/worker"
)

// descriptionDateChars bounds the description prefix tried as a date
// source when the dedicated date text does not parse.
const descriptionDateChars = 200

// Summary reports what a run did.
type Summary struct {
	URLsFound  int
	Extracted  int
	Assembled  int
	Selected   int
	Events     []model.Event
	JSONLPath  string
	CSVPath    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline wires the run stages together. Construct once, Run per
// scrape; concurrent Run calls are rejected by the guard.
type Pipeline struct {
	cfg        *model.Config
	guard      *RunGuard
	profiles   *topics.Builder
	discoverer *discover.Discoverer
	extractor  worker.Extractor
	scheduler  *worker.Scheduler
	strategy   score.Strategy
	verbose    bool
}

// New builds a pipeline from configuration. renderer may be nil;
// discovery then degrades to static fetches.
func New(cfg *model.Config, renderer browse.Renderer) (*Pipeline, error) {
	fetcher := browse.NewStaticFetcher(cfg.HTTP)
	verbose := cfg.Output.Verbose

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("configure llm provider: %w", err)
	}

	strategy, err := score.NewStrategy(cfg.Scrape.Strategy, cfg.Scrape.Threshold, provider)
	if err != nil {
		return nil, fmt.Errorf("configure scoring strategy: %w", err)
	}

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		cfg:        cfg,
		guard:      &RunGuard{},
		profiles:   topics.NewBuilder(fetcher, store, cfg.Cache.TTL, verbose),
		discoverer: discover.New(renderer, fetcher, discover.DefaultSite(), verbose),
		extractor:  extract.NewExtractor(fetcher, provider, verbose),
		scheduler:  worker.NewScheduler(cfg.Scrape.BatchSize, cfg.Scrape.ItemTimeout, cfg.Scrape.BatchTimeout, verbose),
		strategy:   strategy,
		verbose:    verbose,
	}, nil
}

// Run executes one full scrape and writes the artifacts. It returns
// ErrRunInProgress if another run holds the guard.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.guard.Acquire(); err != nil {
		return nil, err
	}
	defer p.guard.Release()

	summary := &Summary{StartedAt: time.Now()}
	scrape := p.cfg.Scrape

	profile := p.profiles.Build(ctx, scrape.ReferenceURL, scrape.Narrative)
	p.logf("profile ready: %d seed keywords, %d derived phrases",
		len(profile.SeedKeywords), len(profile.DerivedPhrases))

	urls := p.discoverer.Run(ctx, scrape.ListingURLs, scrape.MaxEvents)
	summary.URLsFound = len(urls)
	p.logf("discovered %d candidate URLs", len(urls))

	records := p.scheduler.ExtractAll(ctx, urls, p.extractor)
	for _, r := range records {
		if !r.IsStub() {
			summary.Extracted++
		}
	}
	p.logf("extracted %d/%d records", summary.Extracted, len(records))

	verdicts := p.scheduler.ScoreAll(ctx, records, p.strategy, profile)

	now := time.Now()
	events := assembleEvents(records, verdicts)
	summary.Assembled = len(events)

	selected := filter.Select(events, filter.Options{
		Now:        now,
		WindowDays: scrape.DaysAhead,
		Region:     scrape.Region,
		GeoTerms:   scrape.GeoTerms,
		Threshold:  scrape.Threshold,
		TopN:       scrape.TopN,
	})
	summary.Selected = len(selected)
	summary.Events = selected
	p.logf("selected %d/%d events", len(selected), len(events))

	jsonlPath, csvPath, err := export.Events(selected, p.cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("export events: %w", err)
	}
	summary.JSONLPath = jsonlPath
	summary.CSVPath = csvPath
	summary.FinishedAt = time.Now()
	return summary, nil
}

// assembleEvents joins extraction records with their verdicts into
// events. Records without usable content and records judged not
// relevant are dropped here; threshold, recency and geography are the
// filter stage's business.
func assembleEvents(records []model.ExtractedRecord, verdicts []model.RelevanceVerdict) []model.Event {
	var events []model.Event
	for i, record := range records {
		if record.URL == "" || record.IsStub() {
			continue
		}

		verdict := model.NotRelevant("not scored")
		if i < len(verdicts) {
			verdict = verdicts[i]
		}
		if !verdict.IsRelevant {
			continue
		}

		title := strings.TrimSpace(record.Title)
		if title == "" {
			title = record.URL
		}

		startAt := filter.ParseDateLoose(record.DateText)
		if startAt == nil && record.DescriptionText != "" {
			startAt = filter.ParseDateLoose(prefix(record.DescriptionText, descriptionDateChars))
		}

		venueRaw := strings.TrimSpace(record.VenueText)
		lowerVenue := strings.ToLower(venueRaw)

		events = append(events, model.Event{
			URL:     record.URL,
			Title:   title,
			StartAt: startAt,
			Venue: model.Venue{
				Raw:      venueRaw,
				IsOnline: strings.Contains(lowerVenue, "online") || strings.Contains(lowerVenue, "virtual"),
			},
			Organizer:       model.Organizer{Name: strings.TrimSpace(record.OrganizerText)},
			Description:     strings.TrimSpace(record.DescriptionText),
			Tags:            verdict.MatchedTopics,
			RelevanceScore:  verdict.Score,
			MatchedKeywords: verdict.MatchedTopics,
			RelevanceReason: verdict.Reason,
		})
	}
	return events
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back up to a rune boundary
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
