package scan

import (
	"net/url"
	"strings"
)

var nonNavigationalSchemes = []string{"javascript:", "mailto:", "tel:"}

// IsInternalHTTPLink reports whether href navigates to another http(s) page
// on the same origin as page. In-page fragments, javascript:, mailto: and
// tel: links, and hrefs that do not parse are not internal. With a nil page
// only relative references count as internal.
func IsInternalHTTPLink(href string, page *url.URL) bool {
	h := strings.TrimSpace(href)
	if h == "" || strings.HasPrefix(h, "#") {
		return false
	}
	lower := strings.ToLower(h)
	for _, p := range nonNavigationalSchemes {
		if strings.HasPrefix(lower, p) {
			return false
		}
	}
	u, err := url.Parse(h)
	if err != nil {
		return false
	}
	if page == nil {
		return u.Scheme == "" && u.Host == ""
	}
	abs := page.ResolveReference(u)
	switch strings.ToLower(abs.Scheme) {
	case "http", "https":
	default:
		return false
	}
	return sameOrigin(abs, page)
}

func sameOrigin(a, b *url.URL) bool {
	if !strings.EqualFold(a.Scheme, b.Scheme) {
		return false
	}
	if !strings.EqualFold(a.Hostname(), b.Hostname()) {
		return false
	}
	return effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}
