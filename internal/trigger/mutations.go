// Package trigger turns document mutations into debounced rescan requests.
package trigger

import (
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/articlefilter/internal/dom"
)

// ObservedAttributes are the attributes whose changes can alter a decision:
// labels carried in title/data-title and card or strip signals in class.
var ObservedAttributes = []string{"title", "data-title", "class"}

// Requester receives rescan requests. *loop.Debouncer satisfies it.
type Requester interface {
	Trigger()
}

// Mutations forwards relevant document mutations to a Requester.
type Mutations struct {
	doc  *dom.Document
	req  Requester
	stop func()
	// Seen counts delivered mutation records.
	Seen int
}

// Watch starts observing the whole document. Writes made by the filter
// itself (style and data-article-filter-* attributes) are not observed.
func Watch(doc *dom.Document, req Requester) *Mutations {
	m := &Mutations{doc: doc, req: req}
	m.stop = doc.Observe(doc.Root(), dom.ObserveOptions{
		ChildList:       true,
		Attributes:      true,
		Subtree:         true,
		AttributeFilter: ObservedAttributes,
	}, m.handle)
	return m
}

func (m *Mutations) handle(rec dom.MutationRecord) {
	m.Seen++
	log.Debug().
		Str("type", rec.Type.String()).
		Str("tag", dom.TagName(rec.Target)).
		Str("attr", rec.AttributeName).
		Msg("mutation")
	m.req.Trigger()
}

// Stop ends observation.
func (m *Mutations) Stop() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}
