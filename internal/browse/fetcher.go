package browse

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/trackevents/trackevents/internal/model"
)

// StaticFetcher fetches pages over plain HTTP without rendering. It is
// the fallback when no renderer is available and the fetch path for item
// pages, which do not need client-side rendering.
type StaticFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *Limiter
	robots     *RobotsGate
}

// NewStaticFetcher creates a fetcher from the HTTP configuration.
func NewStaticFetcher(cfg model.HTTPConfig) *StaticFetcher {
	f := &StaticFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   NewLimiter(cfg.RatePerSecond, cfg.RateBurst),
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsGate(cfg.UserAgent, cfg.Timeout)
	}
	return f
}

// Fetch retrieves a page from the given URL. It waits for per-domain
// rate-limit clearance first and honors robots.txt when configured.
func (f *StaticFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Page{
		URL:  resp.Request.URL.String(),
		HTML: string(body),
	}, nil
}

// Render makes StaticFetcher usable as a Renderer of last resort. A
// static fetch under-collects on script-driven listings; discovery
// prefers a real renderer and falls back to this.
func (f *StaticFetcher) Render(ctx context.Context, url string) (*Page, error) {
	return f.Fetch(ctx, url)
}
