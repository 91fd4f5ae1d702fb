package discover

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/trackevents/trackevents/internal/browse"
)

// Discoverer finds candidate item URLs on listing pages. The primary
// path renders the page (listings are script-driven and under-collect on
// a static fetch); when rendering is unavailable or fails it degrades to
// a plain fetch, and when no HTML is obtained at all it returns an empty
// set rather than an error.
type Discoverer struct {
	renderer browse.Renderer
	fallback browse.Renderer
	site     Site
	verbose  bool
}

// New creates a Discoverer. renderer may be nil, in which case only the
// fallback fetch path is used.
func New(renderer browse.Renderer, fallback browse.Renderer, site Site, verbose bool) *Discoverer {
	return &Discoverer{
		renderer: renderer,
		fallback: fallback,
		site:     site,
		verbose:  verbose,
	}
}

// Run tries the listing URLs in order until one yields HTML, then
// extracts up to target candidate URLs from it.
func (d *Discoverer) Run(ctx context.Context, listingURLs []string, target int) []string {
	htmlContent := d.loadListing(ctx, listingURLs)
	if htmlContent == "" {
		return nil
	}
	return Discover(htmlContent, d.site, target)
}

// loadListing returns the first successfully loaded listing page,
// preferring the renderer over the static fallback.
func (d *Discoverer) loadListing(ctx context.Context, listingURLs []string) string {
	for _, loader := range []browse.Renderer{d.renderer, d.fallback} {
		if loader == nil {
			continue
		}
		for _, u := range listingURLs {
			page, err := loader.Render(ctx, u)
			if err != nil {
				if d.verbose {
					fmt.Fprintf(os.Stderr, "Warning: load %s failed: %v\n", u, err)
				}
				continue
			}
			if page != nil && page.HTML != "" {
				return page.HTML
			}
		}
	}
	return ""
}

// Discover runs the four extraction passes over the markup, unions their
// results preserving first-seen order, and truncates to target.
func Discover(htmlContent string, site Site, target int) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(candidates []string) {
		for _, u := range candidates {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}

	add(passMarkupRegex(htmlContent, site))

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err == nil {
		add(passAnchors(doc, site))
		add(passScripts(doc, site))
		add(passDataAttributes(doc, site))
	}

	if target > 0 && len(urls) > target {
		urls = urls[:target]
	}
	return urls
}

// siteURLPattern matches absolute item URLs for the site's hosts and
// captures the identifier.
func siteURLPattern(site Site) *regexp.Regexp {
	quoted := make([]string, len(site.Hosts))
	for i, h := range site.Hosts {
		quoted[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`https?://(?:` + strings.Join(quoted, "|") + `)/([a-zA-Z0-9_-]+)`)
}

var hrefAttrPattern = regexp.MustCompile(`href=["']/?([a-zA-Z0-9_-]+)["']`)

// passMarkupRegex scans the raw markup for absolute item URLs and
// relative href values matching the identifier shape.
func passMarkupRegex(htmlContent string, site Site) []string {
	var out []string

	for _, m := range siteURLPattern(site).FindAllStringSubmatch(htmlContent, -1) {
		if ValidIdentifier(m[1], site) {
			out = append(out, CanonicalURL(m[1], site))
		}
	}

	for _, m := range hrefAttrPattern.FindAllStringSubmatch(htmlContent, -1) {
		if ValidIdentifier(m[1], site) {
			out = append(out, CanonicalURL(m[1], site))
		}
	}

	return out
}

// passAnchors walks anchor elements and normalizes their href targets.
func passAnchors(doc *html.Node, site Site) []string {
	var out []string

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if u, ok := NormalizeURL(attr.Val, site); ok {
				out = append(out, u)
			}
		}
	})

	return out
}

// passScripts scans embedded script blocks for item URLs; listing pages
// carry their data as serialized JSON inside scripts.
func passScripts(doc *html.Node, site Site) []string {
	pattern := siteURLPattern(site)
	var out []string

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "script" {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				continue
			}
			for _, m := range pattern.FindAllStringSubmatch(c.Data, -1) {
				if ValidIdentifier(m[1], site) {
					out = append(out, CanonicalURL(m[1], site))
				}
			}
		}
	})

	return out
}

// passDataAttributes scans custom data-attributes whose values encode
// item identifiers.
func passDataAttributes(doc *html.Node, site Site) []string {
	var out []string

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		for _, attr := range n.Attr {
			if !strings.HasPrefix(attr.Key, "data-") {
				continue
			}
			if ValidIdentifier(attr.Val, site) {
				out = append(out, CanonicalURL(attr.Val, site))
			}
		}
	})

	return out
}

// walk applies fn to every node in the tree.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
