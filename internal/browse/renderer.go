// Package browse provides the page-fetching collaborators of the
// pipeline: the render/browse capability contract for dynamically loaded
// listing pages, and a plain HTTP fetcher used both as the rendering
// fallback and for static item pages.
package browse

import "context"

// Page is the result of loading a URL: the final URL after redirects,
// the page title when known, and the page markup.
type Page struct {
	URL   string
	Title string
	HTML  string
}

// Renderer is the render/browse capability: given a URL it returns the
// page after allowing client-side content to load, scrolling as a
// best-effort action to trigger lazy loading. Implementations live
// outside this module (browser automation is an external collaborator);
// the pipeline only depends on this contract.
type Renderer interface {
	Render(ctx context.Context, url string) (*Page, error)
}
