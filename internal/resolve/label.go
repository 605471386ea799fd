package resolve

import (
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
)

// LabelSource extracts one candidate label string from an element.
type LabelSource func(n *html.Node) string

// LabelSources are consulted in priority order by StripLabelText.
var LabelSources = []LabelSource{
	dom.OwnText,
	nestedHeadingText,
	nestedLinkText,
	func(n *html.Node) string { return dom.AttrOr(n, "aria-label", "") },
	func(n *html.Node) string { return dom.AttrOr(n, "data-title", "") },
	dom.InnerText,
}

func nestedHeadingText(n *html.Node) string {
	for _, h := range dom.QueryAllIn(n, `h1, h2, h3, h4, h5, h6, [role="heading"]`) {
		if t := dom.InnerText(h); t != "" {
			return t
		}
	}
	return ""
}

func nestedLinkText(n *html.Node) string {
	for _, a := range dom.QueryAllIn(n, "a") {
		if t := dom.InnerText(a); t != "" {
			return t
		}
	}
	return ""
}

// StripLabelText returns the normalized label of a strip element. The first
// candidate short enough to be a label (LabelMaxChars) wins; a long candidate
// is used only when no short one exists, since it has likely swept in nested
// content.
func StripLabelText(n *html.Node, p Policy) string {
	if !dom.IsElement(n) {
		return ""
	}
	fallback := ""
	for _, src := range LabelSources {
		t := normalize.Text(src(n))
		if t == "" {
			continue
		}
		if normalize.Len(t) <= p.LabelMaxChars {
			return t
		}
		if fallback == "" {
			fallback = t
		}
	}
	return fallback
}
