package model

import "time"

// Config is the complete runtime configuration, layered from defaults,
// config file, environment and flags (highest wins).
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	LLM    LLMConfig    `yaml:"llm"`
	Scrape ScrapeConfig `yaml:"scrape"`
	Cache  CacheConfig  `yaml:"cache"`
	Output OutputConfig `yaml:"output"`
}

// HTTPConfig controls the plain HTTP fetcher used for listing fallback,
// detail pages and the reference site.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	RateBurst     int           `yaml:"rate_burst"`
	RespectRobots bool          `yaml:"respect_robots"`
}

// LLMConfig selects the text-completion provider behind the detail
// extractor and the classifier strategy.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "anthropic" or "openai"
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// ScrapeConfig holds the run parameters of the pipeline itself.
type ScrapeConfig struct {
	ListingURLs  []string      `yaml:"listing_urls"`
	ReferenceURL string        `yaml:"reference_url"`
	DaysAhead    int           `yaml:"days_ahead"`
	Region       string        `yaml:"region"` // "sf_bay" or "any"
	GeoTerms     []string      `yaml:"geo_terms"`
	MaxEvents    int           `yaml:"max_events"`
	BatchSize    int           `yaml:"batch_size"`
	ItemTimeout  time.Duration `yaml:"item_timeout"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	Strategy     string        `yaml:"strategy"` // "heuristic" or "classifier"
	Threshold    float64       `yaml:"threshold"`
	TopN         int           `yaml:"top_n"`
	Narrative    string        `yaml:"narrative"`
}

// CacheConfig controls the layered cache for the domain-context profile.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// OutputConfig controls the exported artifacts.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// RegionAny disables the geography filter.
const RegionAny = "any"

// DefaultNarrative describes the target relevance domain handed to the
// classifier strategy. Override it via config for a different domain.
const DefaultNarrative = `The target organization is an applied research lab focused on:
- Agent behavior monitoring and reliability in production
- LLM evaluation, scoring, and debugging
- Observability and tracing for AI agents
- Anomaly detection and failure pattern analysis
- Production AI safety, security, and privacy (PII detection)
- Agent optimization and performance tuning

Related topics include: AI agents, autonomous agents, LLM ops, ML ops, AI infrastructure,
model evaluation, prompt engineering, AI safety, AI observability, agent frameworks.`

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "TrackEvents/1.0 (+https://github.com/trackevents/trackevents)",
			MaxBodyBytes:  2_000_000,
			RatePerSecond: 2,
			RateBurst:     5,
			RespectRobots: false,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Timeout:   60,
			MaxTokens: 500,
		},
		Scrape: ScrapeConfig{
			ListingURLs: []string{
				"https://lu.ma/sf",
				"https://lu.ma/sf/events",
				"https://lu.ma/explore/sf",
			},
			ReferenceURL: "https://www.judgmentlabs.ai/",
			DaysAhead:    14,
			Region:       "sf_bay",
			GeoTerms: []string{
				"san francisco",
				"sf",
				"bay area",
				"oakland",
				"berkeley",
				"san jose",
				"palo alto",
				"mountain view",
				"redwood city",
				"menlo park",
				"santa clara",
				"sunnyvale",
				"fremont",
				"south san francisco",
			},
			MaxEvents:    50,
			BatchSize:    2,
			ItemTimeout:  60 * time.Second,
			BatchTimeout: 90 * time.Second,
			Strategy:     "classifier",
			Threshold:    0.5,
			TopN:         7,
			Narrative:    DefaultNarrative,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "out/cache",
			TTL:     24 * time.Hour,
		},
		Output: OutputConfig{
			Dir: "out",
		},
	}
}
