package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trackevents/trackevents/internal/browse"
	"github.com/trackevents/trackevents/internal/cache"
	"github.com/trackevents/trackevents/internal/model"
	"github.com/trackevents/trackevents/internal/topics"
)

var (
	topicsReferenceURL string
	topicsNoCache      bool
)

// topicsCmd represents the topics command
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Build and print the domain-context profile",
	Long: `Topics builds the profile used for relevance scoring: the built-in
seed keyword set plus key phrases mined from the reference site. Useful
for checking what the scorer will actually match against.

Example:
  trackevents topics
  trackevents topics --reference https://www.judgmentlabs.ai/ --fresh`,
	RunE: runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)

	topicsCmd.Flags().StringVar(&topicsReferenceURL, "reference", "", "reference site to mine phrases from (default: built-in)")
	topicsCmd.Flags().BoolVar(&topicsNoCache, "fresh", false, "skip the cache and refetch the reference site")
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg := model.DefaultConfig()
	if topicsReferenceURL != "" {
		cfg.Scrape.ReferenceURL = topicsReferenceURL
	}

	fetcher := browse.NewStaticFetcher(cfg.HTTP)
	var store cache.Cache
	if cfg.Cache.Enabled && !topicsNoCache {
		store = cache.NewLayeredCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}
	builder := topics.NewBuilder(fetcher, store, cfg.Cache.TTL, verbose)

	if verbose {
		fmt.Fprintf(os.Stderr, "Reference site: %s\n\n", cfg.Scrape.ReferenceURL)
	}

	profile := builder.Build(cmd.Context(), cfg.Scrape.ReferenceURL, cfg.Scrape.Narrative)

	fmt.Printf("Seed keywords (%d):\n", len(profile.SeedKeywords))
	for _, k := range profile.SeedKeywords {
		fmt.Printf("  - %s\n", k)
	}

	fmt.Printf("\nDerived phrases (%d):\n", len(profile.DerivedPhrases))
	if len(profile.DerivedPhrases) == 0 {
		fmt.Println("  (reference site unavailable, seed keywords only)")
	}
	for _, p := range profile.DerivedPhrases {
		fmt.Printf("  - %s\n", p)
	}

	return nil
}
