package app

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "page"
	}
	return s
}

// deriveOutputPath returns a stable file name under dir for input. The name
// is a slug of the file name or URL host and path, plus a short hash of the
// full input so distinct inputs never collide.
func deriveOutputPath(dir, input string) string {
	base := input
	if u, err := url.Parse(input); err == nil && isURL(u) {
		base = u.Host + u.Path
	} else {
		base = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	slug := slugify(base)
	if len(slug) > 60 {
		slug = strings.Trim(slug[:60], "-")
	}
	h := sha256.Sum256([]byte(input))
	return filepath.Join(dir, slug+"-"+hex.EncodeToString(h[:])[:12]+".html")
}

func isURL(u *url.URL) bool {
	if u == nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return (s == "http" || s == "https") && u.Host != ""
}
