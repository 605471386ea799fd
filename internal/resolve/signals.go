package resolve

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
)

var (
	cardSignals      = []string{"teaser", "article", "card", "story", "item", "promo", "tile"}
	containerSignals = []string{"module", "section", "container", "block", "package", "stripe", "shelf", "feed", "list"}
	stripSignals     = []string{"kicker", "rubrikk", "topic", "tag", "stripe", "header", "heading", "title", "label"}

	// TopicWidgetMarkers identify an embedded third-party topic-strip widget
	// in class names, ids, data-widget values or script URLs.
	TopicWidgetMarkers = []string{"topic-strip", "topicstrip", "topic_strip", "emnestripe"}
)

// Selectors for the structural checks made on single elements.
const (
	StructuralCardSelector = "li, article"
	StripHeadingSelector   = "h1, h2, h3, [role=heading]"
	NextStripSelector      = "h1, h2, h3"
)

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func classHas(n *html.Node, needles []string) bool {
	return containsAny(strings.ToLower(dom.ClassName(n)), needles)
}

func testIDHas(n *html.Node, needles []string) bool {
	return containsAny(strings.ToLower(dom.AttrOr(n, "data-testid", "")), needles)
}

// HasCardSignal reports whether the class name or test id of n suggests a
// teaser, article, card, story, item, promo or tile.
func HasCardSignal(n *html.Node) bool {
	return dom.IsElement(n) && (classHas(n, cardSignals) || testIDHas(n, cardSignals))
}

// IsCardLike reports whether n is structurally or nominally a card: a list
// item, an <article>, or an element carrying a card signal.
func IsCardLike(n *html.Node) bool {
	return dom.Matches(n, StructuralCardSelector) || HasCardSignal(n)
}

// IsStripCandidate reports whether n may label a strip: a top-level heading
// or an element whose class suggests a kicker, topic, tag or title.
func IsStripCandidate(n *html.Node) bool {
	if dom.Matches(n, StripHeadingSelector) {
		return true
	}
	return dom.IsElement(n) && classHas(n, stripSignals)
}

// IsMainLandmark reports whether n is the page's main region.
func IsMainLandmark(n *html.Node) bool {
	return dom.TagName(n) == "main" || strings.EqualFold(dom.AttrOr(n, "role", ""), "main")
}

// TextOf returns the normalized rendered text of n.
func TextOf(n *html.Node) string {
	return normalize.Text(dom.InnerText(n))
}
