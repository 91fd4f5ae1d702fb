// Package discover turns a rendered listing page into a deduplicated,
// ordered set of candidate item URLs. Four independent extraction passes
// run over the same markup and their results are unioned; every pass
// applies the same identifier-validity filter.
package discover

// Site describes the shape of a listing site's item URLs: which hosts it
// lives on, which path slugs are navigation rather than items, and which
// identifier prefixes mark non-item pages.
type Site struct {
	// Hosts are the hostnames item URLs appear under.
	Hosts []string

	// CanonicalHost is the host every candidate is normalized to.
	CanonicalHost string

	// ItemPrefix marks identifiers that are certainly items (kept even
	// when other shape heuristics would reject them).
	ItemPrefix string

	// NonItemPrefixes mark identifiers that are certainly not items
	// (user profiles, calendars, organizations).
	NonItemPrefixes []string

	// ExcludedSlugs are known navigation/auth/policy path segments and
	// structural-data key names that must never be treated as items.
	ExcludedSlugs map[string]bool
}

// DefaultSite returns the Luma site profile.
func DefaultSite() Site {
	excluded := []string{
		"sf", "ios", "android", "web", "about", "help", "privacy", "terms",
		"login", "signup", "explore", "discover", "events", "organizers",
		"venues", "contact", "blog", "jobs", "press", "api", "docs",
		"create", "event", "description", "slug", "url", "image", "info",
		"hero_image_mobile_url", "hero_image_desktop_url", "is_free",
		"virtual_info", "personal_user",
	}
	slugs := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		slugs[s] = true
	}

	return Site{
		Hosts:           []string{"lu.ma", "luma.com"},
		CanonicalHost:   "lu.ma",
		ItemPrefix:      "evt-",
		NonItemPrefixes: []string{"usr-", "cal-", "org-"},
		ExcludedSlugs:   slugs,
	}
}
