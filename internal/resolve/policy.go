// Package resolve finds the content unit a visibility decision applies to.
//
// Heading or link text alone does not say how much of the page it speaks
// for: "Sport" may label one teaser or a section of forty. The strategies
// here locate the smallest enclosing element that plausibly represents what
// a seed element groups: a card for links and headings inside a teaser, a
// container for strip labels, and a bounded run of following siblings when
// no container can be found.
//
// Every strategy is a pure function over the tree; none of them mutate it.
package resolve

// Policy holds the tunable thresholds used by the resolvers. The values are
// empirical and are kept configurable rather than derived.
type Policy struct {
	// CardDepth bounds how many ancestors card resolution inspects.
	CardDepth int
	// StripDepth bounds how many ancestors container resolution inspects.
	StripDepth int

	// CardMinChars and CardMaxChars delimit the normalized text length of a
	// decidable card. Shorter is an icon or label, longer is a whole section.
	CardMinChars int
	CardMaxChars int

	// LabelMaxChars is the longest candidate accepted as a strip label.
	LabelMaxChars int

	// NextStripMaxChars and NextStripMaxLinks describe a short element that
	// ends a sibling run.
	NextStripMaxChars int
	NextStripMaxLinks int

	// ContainerMinLinks and ContainerMinCards are the content a container
	// must hold (either suffices, as does one <article>).
	ContainerMinLinks int
	ContainerMinCards int
}

// DefaultPolicy returns the thresholds tuned against real news front pages.
func DefaultPolicy() Policy {
	return Policy{
		CardDepth:         9,
		StripDepth:        8,
		CardMinChars:      20,
		CardMaxChars:      3000,
		LabelMaxChars:     160,
		NextStripMaxChars: 60,
		NextStripMaxLinks: 2,
		ContainerMinLinks: 2,
		ContainerMinCards: 2,
	}
}

// CardTextOK reports whether a normalized text length is inside the card
// window.
func (p Policy) CardTextOK(n int) bool {
	return n >= p.CardMinChars && n <= p.CardMaxChars
}
