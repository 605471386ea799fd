package resolve

import (
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
)

// ResolveStripContainer returns the element holding everything the strip
// label groups, or nil. It walks from strip up through StripDepth ancestors
// and accepts the first element that looks like a container and holds
// enough content. The walk stops at the main region: neither main nor
// anything enclosing it is ever returned.
func ResolveStripContainer(strip *html.Node, p Policy) *html.Node {
	cur := strip
	for i := 0; i <= p.StripDepth && dom.IsElement(cur); i++ {
		if dom.IsDocumentRoot(cur) || IsMainLandmark(cur) {
			return nil
		}
		if LooksLikeContainer(cur) && HoldsContent(cur, p) {
			return cur
		}
		cur = dom.Parent(cur)
	}
	return nil
}

// LooksLikeContainer reports whether n is a sectioning element, a list, or
// has a class naming a module, section, block, feed or similar grouping.
func LooksLikeContainer(n *html.Node) bool {
	switch dom.TagName(n) {
	case "section", "article", "aside", "ul", "ol":
		return true
	case "":
		return false
	}
	return classHas(n, containerSignals)
}

// HoldsContent reports whether n contains enough links, an article, or
// enough cards to be the container of a strip.
func HoldsContent(n *html.Node, p Policy) bool {
	if dom.CountIn(n, "a[href]") >= p.ContainerMinLinks {
		return true
	}
	if dom.CountIn(n, "article") >= 1 {
		return true
	}
	return len(dom.Descendants(n, IsCardLike)) >= p.ContainerMinCards
}

// IsLikelyNextStrip reports whether n looks like the start of another strip:
// a top-level heading, a class suggesting a heading/label/topic role, or a
// short element with few links.
func IsLikelyNextStrip(n *html.Node, p Policy) bool {
	if !dom.IsElement(n) {
		return false
	}
	if dom.Matches(n, NextStripSelector) || classHas(n, stripSignals) {
		return true
	}
	l := normalize.Len(TextOf(n))
	return l > 0 && l <= p.NextStripMaxChars && dom.CountIn(n, "a[href]") <= p.NextStripMaxLinks
}

// SiblingRun returns the elements to hide when a matched strip has no
// container: the strip itself, then the following siblings of the strip, of
// its parent and of its grandparent, each run ending at the first sibling
// that looks like the next strip. The main region always ends a run.
func SiblingRun(strip *html.Node, p Policy) []*html.Node {
	if !dom.IsElement(strip) {
		return nil
	}
	out := []*html.Node{strip}
	seen := map[*html.Node]bool{strip: true}
	parent := dom.Parent(strip)
	for _, base := range []*html.Node{strip, parent, dom.Parent(parent)} {
		if base == nil || dom.IsDocumentRoot(base) {
			continue
		}
		for s := dom.NextElementSibling(base); s != nil; s = dom.NextElementSibling(s) {
			if IsMainLandmark(s) || IsLikelyNextStrip(s, p) {
				break
			}
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
