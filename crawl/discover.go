package crawl

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeURL resolves raw against base and returns its canonical form:
// fragment removed, scheme and host lower-cased, default port dropped,
// empty path set to "/" and trailing slashes removed from non-root paths.
func NormalizeURL(base *url.URL, raw string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}

	u := ref
	if base != nil {
		u = base.ResolveReference(ref)
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = canonicalHost(u.Scheme, u.Host)

	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = strings.TrimRight(u.RawPath, "/")
		if u.Path == "" {
			u.Path = "/"
			u.RawPath = ""
		}
	}
	return u, nil
}

// canonicalHost lower-cases the host and strips the scheme's default port.
func canonicalHost(scheme, host string) string {
	host = strings.ToLower(host)
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}

// SameOrigin reports whether both URLs share scheme, host and port.
// Both URLs must already be normalized.
func SameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host
}

// DiscoverLinks turns the raw anchor targets of a page into the absolute,
// fragment-free, same-origin URLs worth offering to the frontier.
// Relative hrefs are resolved against pageURL. Order of first occurrence
// is preserved and duplicates are dropped.
func DiscoverLinks(origin *url.URL, pageURL string, hrefs []string) []string {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		base = origin
	}
	canonicalOrigin, err := NormalizeURL(nil, origin.String())
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{}, len(hrefs))
	var links []string
	for _, href := range hrefs {
		if href == "" || isNonHTTPLink(href) {
			continue
		}
		u, err := NormalizeURL(base, href)
		if err != nil {
			continue
		}
		if !SameOrigin(u, canonicalOrigin) {
			continue
		}
		s := u.String()
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		links = append(links, s)
	}
	return links
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
