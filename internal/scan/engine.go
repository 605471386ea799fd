// Package scan walks a document and applies keyword decisions to its cards,
// strips, package sections and main article body.
//
// Each element moves from unprocessed to processed (visible or hidden). A
// forced pass reveals everything the filter hid and reclassifies the whole
// page; an incremental pass only classifies elements that are still
// unprocessed, so mutation-driven rescans stay cheap.
package scan

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/normalize"
	"github.com/hyperifyio/articlefilter/internal/resolve"
	"github.com/hyperifyio/articlefilter/internal/visibility"
)

// Engine owns the filter configuration for one document. Scan passes must
// not run concurrently with each other or with document mutations.
type Engine struct {
	doc  *dom.Document
	opts Options
	cfg  atomic.Pointer[Config]
}

// New returns an engine with an empty configuration, which hides nothing.
func New(doc *dom.Document, opts Options) *Engine {
	e := &Engine{doc: doc, opts: opts.withDefaults()}
	e.cfg.Store(&Config{})
	return e
}

// Document returns the document the engine filters.
func (e *Engine) Document() *dom.Document { return e.doc }

// Config returns the active configuration.
func (e *Engine) Config() *Config { return e.cfg.Load() }

// SetConfig replaces the active configuration without scanning.
func (e *Engine) SetConfig(cfg *Config) {
	if cfg == nil {
		cfg = &Config{}
	}
	e.cfg.Store(cfg)
}

// Apply replaces the configuration and runs a forced pass, so content hidden
// under the old keywords can reappear.
func (e *Engine) Apply(cfg *Config) Stats {
	e.SetConfig(cfg)
	return e.Scan(true)
}

// Stats summarizes one pass.
type Stats struct {
	Forced bool
	// Elements classified per step.
	Cards    int
	Links    int
	Strips   int
	Packages int
	// Revealed counts elements un-hidden by a reset.
	Revealed int
	// Hidden is the number of elements hidden once the pass completed.
	Hidden int
	// Failures counts elements whose classification panicked.
	Failures int
	Target   TargetState
	Duration time.Duration
}

// TargetState is the outcome for the main article body.
type TargetState string

const (
	TargetNone     TargetState = "none"
	TargetVisible  TargetState = "visible"
	TargetHidden   TargetState = "hidden"
	TargetDisabled TargetState = "disabled"
)

// Scan runs one pass. Nothing escapes a pass: a failure while classifying one
// element is logged and the pass continues with the next.
func (e *Engine) Scan(force bool) Stats {
	start := time.Now()
	p := &pass{
		e:         e,
		doc:       e.doc,
		cfg:       e.Config(),
		force:     force,
		hiddenNow: map[*html.Node]bool{},
		seenCards: map[*html.Node]bool{},
	}
	p.stats.Forced = force
	p.stats.Target = TargetNone

	if force {
		p.stats.Revealed = visibility.RevealAll(e.doc, true)
	}
	if p.cfg.Keywords.Empty() {
		p.stats.Revealed += visibility.RevealAll(e.doc, force)
		p.finish(start)
		return p.stats
	}

	p.classifyCards()
	p.classifyLinks()
	p.classifyStrips()
	p.classifyPackages()
	p.updateContentTarget()

	p.finish(start)
	return p.stats
}

type pass struct {
	e     *Engine
	doc   *dom.Document
	cfg   *Config
	force bool
	stats Stats

	// hiddenNow holds elements hidden during this pass; a later "show"
	// decision in the same pass does not revert them.
	hiddenNow map[*html.Node]bool
	seenCards map[*html.Node]bool
}

func (p *pass) finish(start time.Time) {
	p.stats.Hidden = len(p.doc.QueryAll(dom.HiddenSelector))
	p.stats.Duration = time.Since(start)
	log.Debug().
		Bool("forced", p.stats.Forced).
		Int("cards", p.stats.Cards).
		Int("links", p.stats.Links).
		Int("strips", p.stats.Strips).
		Int("packages", p.stats.Packages).
		Int("revealed", p.stats.Revealed).
		Int("hidden", p.stats.Hidden).
		Int("failures", p.stats.Failures).
		Str("target", string(p.stats.Target)).
		Dur("took", p.stats.Duration).
		Msg("scan pass")
}

func (p *pass) matches(text string) bool {
	_, ok := p.cfg.Keywords.Match(text)
	return ok
}

func (p *pass) hide(n *html.Node) {
	visibility.SetHidden(p.doc, n, true)
	p.hiddenNow[n] = true
}

// show reveals n unless this pass already hid it. Incremental passes never
// reveal what an earlier pass hid; only a forced pass resets decisions.
func (p *pass) show(n *html.Node) {
	if p.hiddenNow[n] {
		return
	}
	if !p.force && dom.IsHidden(n) {
		return
	}
	visibility.SetHidden(p.doc, n, false)
}

func (p *pass) decide(n *html.Node, hidden bool) {
	if hidden {
		p.hide(n)
		return
	}
	p.show(n)
}

func (p *pass) skip(n *html.Node) bool {
	return !p.force && dom.IsProcessed(n)
}

// guard isolates the classification of a single element.
func (p *pass) guard(step string, n *html.Node, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.Failures++
			log.Warn().
				Str("step", step).
				Str("tag", dom.TagName(n)).
				Str("class", dom.ClassName(n)).
				Str("panic", fmt.Sprint(r)).
				Msg("element classification failed")
		}
	}()
	fn()
}

func (p *pass) scope() *html.Node {
	if b := p.doc.Body(); b != nil {
		return b
	}
	return p.doc.Root()
}

func (p *pass) textLen(s string) int { return normalize.Len(s) }

func (p *pass) policy() resolve.Policy { return p.e.opts.Policy }
