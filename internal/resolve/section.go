package resolve

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
)

// PackageSelector matches the flagged "container package" sections.
const PackageSelector = "section.container-package"

// PackageTitle returns the normalized title of a package section: its
// data-title, else the text of its header title, else its title attribute.
func PackageTitle(section *html.Node) string {
	if v := normalize.Text(dom.AttrOr(section, "data-title", "")); v != "" {
		return v
	}
	for _, t := range dom.QueryAllIn(section, "header .title") {
		if v := normalize.Text(dom.InnerText(t)); v != "" {
			return v
		}
	}
	return normalize.Text(dom.AttrOr(section, "title", ""))
}

// SectionKeywordSignal is a low-confidence signal for sections whose visible
// text may not be rendered yet: the section's title, id and class, every
// outgoing link href and every script src, normalized together. Widget
// configuration tends to leak the topic through these.
func SectionKeywordSignal(section *html.Node) string {
	if !dom.IsElement(section) {
		return ""
	}
	parts := []string{
		dom.AttrOr(section, "title", ""),
		dom.ID(section),
		dom.ClassName(section),
	}
	for _, a := range dom.QueryAllIn(section, "a[href]") {
		parts = append(parts, dom.AttrOr(a, "href", ""))
	}
	for _, s := range dom.QueryAllIn(section, "script[src]") {
		parts = append(parts, dom.AttrOr(s, "src", ""))
	}
	return normalize.Text(strings.Join(parts, " "))
}

// EmbedsTopicWidget reports whether section (or anything inside it) carries
// a topic-strip widget marker.
func EmbedsTopicWidget(section *html.Node) bool {
	if !dom.IsElement(section) {
		return false
	}
	check := func(n *html.Node) bool {
		for _, key := range []string{"class", "id", "data-widget", "src"} {
			if containsAny(strings.ToLower(dom.AttrOr(n, key, "")), TopicWidgetMarkers) {
				return true
			}
		}
		return false
	}
	if check(section) {
		return true
	}
	return len(dom.Descendants(section, check)) > 0
}
