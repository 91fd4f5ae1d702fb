package discover

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// Identifier shapes that are almost certainly JSON property names
	// leaked from embedded data blocks, not item IDs.
	snakeCasePattern = regexp.MustCompile(`^[a-z_]+$`)
	camelCasePattern = regexp.MustCompile(`^[a-z]+[A-Z]`)

	identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// minIdentifierLen rejects identifiers too short to be item IDs.
const minIdentifierLen = 4

// shortLowercaseLen rejects short all-lowercase identifiers, which are
// usually page paths; the site's item prefix overrides the rejection.
const shortLowercaseLen = 8

// ValidIdentifier reports whether id passes the shared candidate-validity
// filter applied by every extraction pass.
func ValidIdentifier(id string, site Site) bool {
	id = cleanIdentifier(id)
	if id == "" {
		return false
	}

	if !identifierPattern.MatchString(id) {
		return false
	}

	if site.ExcludedSlugs[strings.ToLower(id)] {
		return false
	}

	for _, prefix := range site.NonItemPrefixes {
		if strings.HasPrefix(id, prefix) {
			return false
		}
	}

	if len(id) < minIdentifierLen {
		return false
	}

	if strings.HasPrefix(id, site.ItemPrefix) {
		return true
	}

	if snakeCasePattern.MatchString(id) || camelCasePattern.MatchString(id) {
		return false
	}

	if isAllLowercase(id) && len(id) < shortLowercaseLen {
		return false
	}

	return true
}

// cleanIdentifier strips surrounding slashes, query strings and anything
// past the first path segment.
func cleanIdentifier(id string) string {
	id = strings.Trim(id, "/")
	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	if i := strings.IndexByte(id, '?'); i >= 0 {
		id = id[:i]
	}
	return id
}

// isAllLowercase reports whether s contains at least one letter and no
// uppercase letters.
func isAllLowercase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			return false
		}
		if r >= 'a' && r <= 'z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// CanonicalURL builds the canonical item URL for an identifier: fixed
// scheme and host, no query string, no trailing slash. Normalization is
// idempotent; two URLs differing only in host case, host alias, query or
// trailing slash canonicalize to the same value.
func CanonicalURL(id string, site Site) string {
	return "https://" + site.CanonicalHost + "/" + cleanIdentifier(id)
}

// NormalizeURL canonicalizes a raw URL when it points at the site and
// carries a valid item identifier. The boolean reports acceptance.
func NormalizeURL(raw string, site Site) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Host)
	if host != "" {
		known := false
		for _, h := range site.Hosts {
			if host == h || host == "www."+h {
				known = true
				break
			}
		}
		if !known {
			return "", false
		}
	}

	id := cleanIdentifier(parsed.Path)
	if !ValidIdentifier(id, site) {
		return "", false
	}

	return CanonicalURL(id, site), true
}
