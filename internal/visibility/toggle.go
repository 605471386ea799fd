// Package visibility applies and reverts hide decisions on single elements.
package visibility

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
)

const importantSuffix = " !important"

// SetHidden hides or reveals element n.
//
// Hiding captures the element's own inline display value the first time
// only, then forces display:none with !important so page stylesheets cannot
// win. Revealing restores the captured value, or removes the inline display
// entirely when there was none. Requests matching the current state change
// nothing observable.
func SetHidden(doc *dom.Document, n *html.Node, hidden bool) {
	if doc == nil || !dom.IsElement(n) {
		return
	}
	if hidden {
		hide(doc, n)
		return
	}
	reveal(doc, n)
}

func hide(doc *dom.Document, n *html.Node) {
	if !dom.IsHidden(n) {
		doc.SetAttr(n, dom.AttrPrevDisplay, captureDisplay(n))
	}
	doc.SetStyleProperty(n, "display", "none", true)
	doc.SetAttr(n, dom.AttrHidden, "1")
}

func reveal(doc *dom.Document, n *html.Node) {
	if dom.IsHidden(n) {
		prev := dom.AttrOr(n, dom.AttrPrevDisplay, "")
		if prev != "" {
			value, important := strings.CutSuffix(prev, importantSuffix)
			doc.SetStyleProperty(n, "display", value, important)
		} else {
			doc.RemoveStyleProperty(n, "display")
		}
	}
	doc.RemoveAttr(n, dom.AttrHidden)
	doc.RemoveAttr(n, dom.AttrPrevDisplay)
}

func captureDisplay(n *html.Node) string {
	value, important := dom.StyleProperty(n, "display")
	if value == "" {
		return ""
	}
	if important {
		return value + importantSuffix
	}
	return value
}

// RevealAll reveals every element currently hidden by the filter and
// returns how many there were. When clearProcessed is set, their processed
// markers are removed too so the next pass classifies them again.
func RevealAll(doc *dom.Document, clearProcessed bool) int {
	hidden := doc.QueryAll(dom.HiddenSelector)
	for _, n := range hidden {
		SetHidden(doc, n, false)
		if clearProcessed {
			doc.ClearProcessed(n)
		}
	}
	return len(hidden)
}
