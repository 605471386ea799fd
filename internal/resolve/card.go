package resolve

import (
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
)

// CardStrategy proposes the card enclosing seed, or nil.
type CardStrategy func(seed *html.Node, p Policy) *html.Node

// CardStrategies are tried in order; the first non-nil result wins.
var CardStrategies = []CardStrategy{
	StructuralCard,
	SignalCard,
	ParentCard,
}

// ResolveCard returns the content card enclosing seed (a link or heading).
func ResolveCard(seed *html.Node, p Policy) *html.Node {
	if !dom.IsElement(seed) {
		return nil
	}
	for _, s := range CardStrategies {
		if c := s(seed, p); c != nil {
			return c
		}
	}
	return nil
}

// ancestors calls visit for seed and up to depth ancestors above it,
// stopping at <body>/<html> or when visit returns true.
func ancestors(seed *html.Node, depth int, visit func(*html.Node) bool) *html.Node {
	cur := seed
	for i := 0; i <= depth && dom.IsElement(cur); i++ {
		if dom.IsDocumentRoot(cur) {
			return nil
		}
		if visit(cur) {
			return cur
		}
		cur = dom.Parent(cur)
	}
	return nil
}

// StructuralCard returns the nearest <li> or <article> within CardDepth.
func StructuralCard(seed *html.Node, p Policy) *html.Node {
	return ancestors(seed, p.CardDepth, func(n *html.Node) bool {
		return dom.Matches(n, StructuralCardSelector)
	})
}

// SignalCard returns the nearest element within CardDepth whose class or
// test id carries a card signal and whose own text fits the card window.
func SignalCard(seed *html.Node, p Policy) *html.Node {
	return ancestors(seed, p.CardDepth, func(n *html.Node) bool {
		if !HasCardSignal(n) {
			return false
		}
		return p.CardTextOK(normalize.Len(TextOf(n)))
	})
}

// ParentCard falls back to the seed's parent, unless that parent is the
// document body or the main region.
func ParentCard(seed *html.Node, _ Policy) *html.Node {
	parent := dom.Parent(seed)
	if parent == nil || dom.IsDocumentRoot(parent) || IsMainLandmark(parent) {
		return nil
	}
	return parent
}
