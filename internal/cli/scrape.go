package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/trackevents/trackevents/internal/model"
	"github.com/trackevents/trackevents/internal/pipeline"
)

var (
	listingURLs  []string
	referenceURL string
	daysAhead    int
	region       string
	maxEvents    int
	batchSize    int
	itemTimeout  time.Duration
	batchTimeout time.Duration
	strategy     string
	threshold    float64
	topN         int
	outDir       string
	noCache      bool
	llmProvider  string
	llmModel     string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run a full scrape: discover, extract, score, filter, export",
	Long: `Scrape runs the complete pipeline:
- Build the domain-context profile (seed keywords + reference site phrases)
- Discover candidate event URLs on the listing site
- Extract details from each event page in small concurrent batches
- Score each event for relevance (LLM classifier or keyword heuristic)
- Filter by recency window, geography, and relevance threshold
- Export the ranked shortlist as events.jsonl and events.csv

Example:
  trackevents scrape
  trackevents scrape --days 7 --region any --top 10
  trackevents scrape --strategy heuristic --out ./results`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	// Discovery flags
	scrapeCmd.Flags().StringSliceVar(&listingURLs, "listing", nil, "listing URLs to try in order (default: built-in lu.ma listings)")
	scrapeCmd.Flags().StringVar(&referenceURL, "reference", "", "reference site for profile phrase mining (default: built-in)")
	scrapeCmd.Flags().IntVar(&maxEvents, "max-events", 50, "max candidate URLs to extract")

	// Filter flags
	scrapeCmd.Flags().IntVar(&daysAhead, "days", 14, "recency window in days")
	scrapeCmd.Flags().StringVar(&region, "region", "sf_bay", "region filter (sf_bay or any)")
	scrapeCmd.Flags().Float64Var(&threshold, "threshold", 0.5, "relevance score threshold")
	scrapeCmd.Flags().IntVar(&topN, "top", 7, "max events in the final shortlist")

	// Scheduling flags
	scrapeCmd.Flags().IntVar(&batchSize, "batch-size", 2, "concurrent extractions per batch")
	scrapeCmd.Flags().DurationVar(&itemTimeout, "item-timeout", 60*time.Second, "per-item extraction timeout")
	scrapeCmd.Flags().DurationVar(&batchTimeout, "batch-timeout", 90*time.Second, "per-batch aggregate timeout")

	// Scoring and LLM flags
	scrapeCmd.Flags().StringVar(&strategy, "strategy", "classifier", "scoring strategy (classifier or heuristic)")
	scrapeCmd.Flags().StringVar(&llmProvider, "llm-provider", "anthropic", "LLM provider (anthropic, openai)")
	scrapeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default if empty)")

	// Output flags
	scrapeCmd.Flags().StringVar(&outDir, "out", "out", "output directory for events.jsonl and events.csv")
	scrapeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the profile cache (force fresh reference fetch)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	// Build configuration from flags
	cfg := model.DefaultConfig()
	if len(listingURLs) > 0 {
		cfg.Scrape.ListingURLs = listingURLs
	}
	if referenceURL != "" {
		cfg.Scrape.ReferenceURL = referenceURL
	}
	cfg.Scrape.DaysAhead = daysAhead
	cfg.Scrape.Region = region
	cfg.Scrape.MaxEvents = maxEvents
	cfg.Scrape.BatchSize = batchSize
	cfg.Scrape.ItemTimeout = itemTimeout
	cfg.Scrape.BatchTimeout = batchTimeout
	cfg.Scrape.Strategy = strategy
	cfg.Scrape.Threshold = threshold
	cfg.Scrape.TopN = topN
	cfg.Cache.Enabled = !noCache
	cfg.Output.Dir = outDir
	cfg.Output.Verbose = verbose

	// Heuristic strategy needs no LLM; the extractor still uses one when
	// a key is available.
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.LLM.APIKey == "" {
		if strategy == "classifier" {
			return fmt.Errorf("strategy %q needs an LLM: set %s_API_KEY or use --strategy heuristic",
				strategy, envKeyName(llmProvider))
		}
		// No key at all: disable the provider, extraction degrades to stubs
		cfg.LLM.Provider = ""
	}

	p, err := pipeline.New(cfg, nil)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Listing URLs: %v\n", cfg.Scrape.ListingURLs)
		fmt.Fprintf(os.Stderr, "Window: %d days, region: %s\n", daysAhead, region)
		fmt.Fprintf(os.Stderr, "Strategy: %s (threshold %.2f, top %d)\n", strategy, threshold, topN)
		fmt.Fprintln(os.Stderr)
	}

	summary, err := p.Run(cmd.Context())
	if err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			return fmt.Errorf("another scrape is already running")
		}
		return fmt.Errorf("scrape failed: %w", err)
	}

	printSummary(summary)
	return nil
}

func envKeyName(provider string) string {
	switch provider {
	case "openai":
		return "OPENAI"
	default:
		return "ANTHROPIC"
	}
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("✓ Discovered %d candidate URLs\n", s.URLsFound)
	fmt.Printf("✓ Extracted %d event records\n", s.Extracted)
	fmt.Printf("✓ Selected %d events\n", s.Selected)
	for i, e := range s.Events {
		when := "date unknown"
		if e.StartAt != nil {
			when = e.StartAt.Format("Mon Jan 2 15:04")
		}
		fmt.Printf("  %d. [%.2f] %s (%s)\n", i+1, e.RelevanceScore, e.Title, when)
	}
	fmt.Printf("\nArtifacts:\n  %s\n  %s\n", s.JSONLPath, s.CSVPath)
	fmt.Printf("Completed in %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
}
