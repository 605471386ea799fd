package dom

import "golang.org/x/net/html"

// Element markers written by the filter. They live on the element itself so
// the classification state follows the node and disappears with it.
const (
	AttrProcessed     = "data-article-filter-processed"
	AttrHidden        = "data-article-filter-hidden"
	AttrPrevDisplay   = "data-article-filter-prev-display"
	AttrContentTarget = "data-article-filter-content-target"
)

// HiddenSelector matches every element currently hidden by the filter.
const HiddenSelector = "[" + AttrHidden + "]"

// State is the per-element visibility record.
type State struct {
	Processed bool
	Hidden    bool
	// PrevDisplay is the inline display value captured when hiding began;
	// "" means there was no inline value.
	PrevDisplay string
}

// StateOf reads the markers of n.
func StateOf(n *html.Node) State {
	return State{
		Processed:   AttrOr(n, AttrProcessed, "") == "1",
		Hidden:      AttrOr(n, AttrHidden, "") == "1",
		PrevDisplay: AttrOr(n, AttrPrevDisplay, ""),
	}
}

// IsProcessed reports whether n was classified since the last forced rescan.
func IsProcessed(n *html.Node) bool { return AttrOr(n, AttrProcessed, "") == "1" }

// IsHidden reports whether n is currently hidden by the filter.
func IsHidden(n *html.Node) bool { return AttrOr(n, AttrHidden, "") == "1" }

// MarkProcessed sets the processed marker.
func (d *Document) MarkProcessed(n *html.Node) { d.SetAttr(n, AttrProcessed, "1") }

// ClearProcessed removes the processed marker.
func (d *Document) ClearProcessed(n *html.Node) { d.RemoveAttr(n, AttrProcessed) }
