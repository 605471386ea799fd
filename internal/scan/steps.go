package scan

import (
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/resolve"
	"github.com/hyperifyio/articlefilter/internal/visibility"
)

// classifyCards decides every structurally obvious card by its own text.
// Text outside the card window is not a decidable card and stays visible.
func (p *pass) classifyCards() {
	for _, n := range dom.Descendants(p.scope(), resolve.IsCardLike) {
		p.guard("card", n, func() { p.classifyCard(n) })
	}
}

func (p *pass) classifyCard(n *html.Node) {
	if p.skip(n) {
		return
	}
	defer p.doc.MarkProcessed(n)
	p.stats.Cards++
	text := resolve.TextOf(n)
	if text == "" {
		return
	}
	if !p.policy().CardTextOK(p.textLen(text)) {
		p.show(n)
		return
	}
	p.decide(n, p.matches(text))
}

// classifyLinks resolves the card around every internal link and decides it
// by the card's text.
func (p *pass) classifyLinks() {
	for _, a := range p.doc.QueryAll("a[href]") {
		p.guard("link", a, func() { p.classifyLink(a) })
	}
}

func (p *pass) classifyLink(a *html.Node) {
	if !IsInternalHTTPLink(dom.AttrOr(a, "href", ""), p.doc.URL) {
		return
	}
	card := resolve.ResolveCard(a, p.policy())
	if card == nil || p.seenCards[card] || p.skip(card) {
		return
	}
	text := resolve.TextOf(card)
	if text == "" {
		text = resolve.TextOf(a)
	}
	if !p.policy().CardTextOK(p.textLen(text)) {
		return
	}
	p.seenCards[card] = true
	p.stats.Links++
	p.decide(card, p.matches(text))
	p.doc.MarkProcessed(card)
}

// classifyStrips matches strip labels and hides the container they
// introduce, or the run of siblings after them when no container resolves.
func (p *pass) classifyStrips() {
	for _, s := range dom.Descendants(p.scope(), resolve.IsStripCandidate) {
		p.guard("strip", s, func() { p.classifyStrip(s) })
	}
}

func (p *pass) classifyStrip(s *html.Node) {
	if p.skip(s) {
		return
	}
	defer p.doc.MarkProcessed(s)
	text := resolve.StripLabelText(s, p.policy())
	if l := p.textLen(text); l < p.e.opts.StripMinChars || l > p.e.opts.StripMaxChars {
		return
	}
	p.stats.Strips++
	if !p.matches(text) {
		return
	}
	if c := resolve.ResolveStripContainer(s, p.policy()); c != nil {
		p.hide(c)
		p.doc.MarkProcessed(c)
		return
	}
	for _, n := range resolve.SiblingRun(s, p.policy()) {
		p.hide(n)
		p.doc.MarkProcessed(n)
	}
}

// classifyPackages decides flagged package sections by title and, when they
// embed a topic-strip widget, by the section's keyword signal. They are
// re-evaluated on every pass.
func (p *pass) classifyPackages() {
	for _, s := range p.doc.QueryAll(resolve.PackageSelector) {
		p.guard("package", s, func() { p.classifyPackage(s) })
	}
}

func (p *pass) classifyPackage(s *html.Node) {
	title := resolve.PackageTitle(s)
	widget := resolve.EmbedsTopicWidget(s)
	if title == "" && !widget {
		return
	}
	p.stats.Packages++
	hit := p.matches(title)
	if !hit && widget {
		hit = p.matches(resolve.SectionKeywordSignal(s))
	}
	p.decide(s, hit)
	p.doc.MarkProcessed(s)
}

// contentTarget returns the page's main article body. Once chosen it is
// marked, so later lookups stay stable while the markup around it changes.
// Listing pages with several <article> teasers have no article body.
func (p *pass) contentTarget() *html.Node {
	if n := p.doc.Query("[" + dom.AttrContentTarget + "]"); n != nil {
		return n
	}
	n := pickContentTarget(p.doc)
	if n != nil {
		p.doc.SetAttr(n, dom.AttrContentTarget, "1")
	}
	return n
}

func pickContentTarget(doc *dom.Document) *html.Node {
	if main := doc.Query("main"); main != nil {
		switch articles := dom.QueryAllIn(main, "article"); len(articles) {
		case 0:
			return main
		case 1:
			return articles[0]
		default:
			return nil
		}
	}
	if articles := doc.QueryAll("article"); len(articles) == 1 {
		return articles[0]
	}
	return nil
}

// updateContentTarget re-evaluates the main article body. Its decision is
// authoritative: with body filtering off it is always visible.
func (p *pass) updateContentTarget() {
	target := p.contentTarget()
	if target == nil {
		return
	}
	p.guard("target", target, func() {
		if !p.cfg.FilterBody {
			visibility.SetHidden(p.doc, target, false)
			p.doc.ClearProcessed(target)
			p.stats.Target = TargetDisabled
			return
		}
		defer p.doc.MarkProcessed(target)
		text := resolve.TextOf(target)
		if p.textLen(text) < p.e.opts.ContentTargetMinChars {
			visibility.SetHidden(p.doc, target, false)
			p.stats.Target = TargetVisible
			return
		}
		hit := p.matches(text)
		visibility.SetHidden(p.doc, target, hit)
		if hit {
			p.stats.Target = TargetHidden
		} else {
			p.stats.Target = TargetVisible
		}
	})
}
