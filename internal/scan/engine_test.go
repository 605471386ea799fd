package scan

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/visibility"
)

const pageURL = "https://news.example/"

func load(t *testing.T, body string) *dom.Document {
	t.Helper()
	u, err := url.Parse(pageURL)
	require.NoError(t, err)
	doc, err := dom.ParseString("<html><head><title>Forsiden</title></head><body>"+body+"</body></html>", u)
	require.NoError(t, err)
	return doc
}

func el(t *testing.T, doc *dom.Document, id string) *html.Node {
	t.Helper()
	n := doc.Query("#" + id)
	require.NotNil(t, n, "element #%s", id)
	return n
}

func hidden(t *testing.T, doc *dom.Document, id string) bool {
	t.Helper()
	return dom.IsHidden(el(t, doc, id))
}

const filler = "en helt vanlig nyhetssak om lokalpolitikk og vær"

func TestScan_CardMatchingKeywordIsHidden(t *testing.T) {
	doc := load(t, `<div class="teaser" id="card">Lokallaget vant i fotball-kampen i går</div>
		<div class="teaser" id="other">Kommunestyret vedtok nytt budsjett i går kveld</div>`)
	e := New(doc, Options{})
	stats := e.Apply(NewConfig([]string{"Fotball"}, false))

	assert.True(t, hidden(t, doc, "card"))
	assert.False(t, hidden(t, doc, "other"))
	assert.Equal(t, 1, stats.Hidden)
	v, imp := dom.StyleProperty(el(t, doc, "card"), "display")
	assert.Equal(t, "none", v)
	assert.True(t, imp)
}

func TestScan_CardTextLengthWindow(t *testing.T) {
	cases := []struct {
		length int
		hidden bool
	}{
		{19, false},
		{20, true},
		{3000, true},
		{3001, false},
	}
	for _, tc := range cases {
		text := "fotball " + strings.Repeat("x", tc.length-len("fotball "))
		doc := load(t, `<div class="teaser" id="card">`+text+`</div>`)
		New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, false))
		assert.Equal(t, tc.hidden, hidden(t, doc, "card"), "length %d", tc.length)
	}
}

func TestScan_HeadingHidesWholeSection(t *testing.T) {
	var links strings.Builder
	for i := 0; i < 5; i++ {
		links.WriteString(`<li><a href="/nyheter/` + string(rune('a'+i)) + `">Overskrift nummer ` + string(rune('a'+i)) + ` om noe helt annet</a></li>`)
	}
	doc := load(t, `<main><section class="sport-block" id="sec"><h2 id="h">Sport</h2><ul>`+links.String()+`</ul></section>
		<section class="news-block" id="news"><h2>Nyheter</h2><a href="/n/1">Første nyhet i dag</a><a href="/n/2">Andre nyhet</a></section></main>`)
	New(doc, Options{}).Apply(NewConfig([]string{"sport"}, false))

	assert.True(t, hidden(t, doc, "sec"))
	assert.False(t, hidden(t, doc, "h"), "the heading is hidden through its section, not on its own")
	assert.False(t, hidden(t, doc, "news"))
	assert.False(t, dom.IsHidden(doc.Query("main")))
}

func TestScan_HeadingWithoutContainerHidesSiblingRun(t *testing.T) {
	long := strings.Repeat(filler+" ", 2)
	doc := load(t, `<div id="wrap"><h2 id="h">Sport</h2>
		<div id="d1">`+long+`</div><div id="d2">`+long+`</div><div id="d3">`+long+`</div>
		<h2 id="next">Kultur</h2><div id="d5">`+long+`</div></div>`)
	New(doc, Options{}).Apply(NewConfig([]string{"sport"}, false))

	for _, id := range []string{"h", "d1", "d2", "d3"} {
		assert.True(t, hidden(t, doc, id), id)
	}
	assert.False(t, hidden(t, doc, "next"))
	assert.False(t, hidden(t, doc, "d5"))
	assert.False(t, hidden(t, doc, "wrap"))
}

func TestScan_HeadingInsideWrappedMainKeepsPageVisible(t *testing.T) {
	doc := load(t, `<div class="page-container" id="page"><main id="m">
		<h2 id="h">Sport</h2>
		<div id="d1"><a href="/a">Første sak om noe helt annet i dag</a></div>
		<div id="d2"><a href="/b">Andre sak om noe helt annet i dag</a></div>
		<h2 id="next">Nyheter</h2>
		<div id="d3"><a href="/c">Tredje sak om noe helt annet i dag</a></div>
	</main></div>`)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"sport"}, false))

	assert.False(t, hidden(t, doc, "page"))
	assert.False(t, hidden(t, doc, "m"))
	for _, id := range []string{"h", "d1", "d2"} {
		assert.True(t, hidden(t, doc, id), id)
	}
	for _, id := range []string{"next", "d3"} {
		assert.False(t, hidden(t, doc, id), id)
	}
	assert.Equal(t, TargetDisabled, stats.Target)
}

func TestScan_ContentTargetRespectsFilterBody(t *testing.T) {
	body := strings.Repeat("Kampen endte uavgjort etter en jevn fotballkamp på Lerkendal. ", 4)
	page := `<main><article id="body"><h1 id="title">Referat</h1><p>` + body + `</p></article></main>`

	doc := load(t, page)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, false))
	assert.False(t, hidden(t, doc, "body"))
	assert.False(t, dom.IsProcessed(el(t, doc, "body")))
	assert.Equal(t, TargetDisabled, stats.Target)
	assert.Equal(t, "1", dom.AttrOr(el(t, doc, "body"), dom.AttrContentTarget, ""))

	doc = load(t, page)
	stats = New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, true))
	assert.True(t, hidden(t, doc, "body"))
	assert.Equal(t, TargetHidden, stats.Target)
}

func TestScan_ShortContentTargetStaysVisible(t *testing.T) {
	doc := load(t, `<main id="m"><p>fotball</p></main>`)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, true))
	assert.False(t, hidden(t, doc, "m"))
	assert.Equal(t, TargetVisible, stats.Target)
}

func TestScan_ListingPageHasNoContentTarget(t *testing.T) {
	doc := load(t, `<main><article id="a1">`+filler+`</article><article id="a2">fotball `+filler+`</article></main>`)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, false))
	assert.Equal(t, TargetNone, stats.Target)
	assert.False(t, hidden(t, doc, "a1"))
	assert.True(t, hidden(t, doc, "a2"))
}

func TestScan_EmptyKeywordsRevealEverything(t *testing.T) {
	doc := load(t, `<div class="card" id="c" style="display: flex">fotball `+filler+`</div>`)
	e := New(doc, Options{})
	e.Apply(NewConfig([]string{"fotball"}, false))
	require.True(t, hidden(t, doc, "c"))

	stats := e.Apply(NewConfig([]string{"", "  "}, false))
	assert.False(t, hidden(t, doc, "c"))
	assert.Equal(t, 0, stats.Hidden)
	v, _ := dom.StyleProperty(el(t, doc, "c"), "display")
	assert.Equal(t, "flex", v)
	assert.False(t, dom.IsProcessed(el(t, doc, "c")))
}

func TestScan_EmptyKeywordsIncrementalRevealsToo(t *testing.T) {
	doc := load(t, `<div class="card" id="c">x</div>`)
	visibility.SetHidden(doc, el(t, doc, "c"), true)
	doc.MarkProcessed(el(t, doc, "c"))

	e := New(doc, Options{})
	e.Scan(false)
	assert.False(t, hidden(t, doc, "c"))
	assert.True(t, dom.IsProcessed(el(t, doc, "c")), "incremental pass keeps processed markers")
}

func TestScan_ForcedRescanAfterKeywordChange(t *testing.T) {
	doc := load(t, `<div class="card" id="fb">fotball `+filler+`</div><div class="card" id="ski">ski vm `+filler+`</div>`)
	e := New(doc, Options{})
	e.Apply(NewConfig([]string{"fotball"}, false))
	require.True(t, hidden(t, doc, "fb"))
	require.False(t, hidden(t, doc, "ski"))

	e.Apply(NewConfig([]string{"ski-VM"}, false))
	assert.False(t, hidden(t, doc, "fb"))
	assert.True(t, hidden(t, doc, "ski"))
}

func TestScan_IncrementalOnlyClassifiesNewElements(t *testing.T) {
	doc := load(t, `<div id="feed"><div class="card" id="old">`+filler+`</div></div>`)
	e := New(doc, Options{})
	e.Apply(NewConfig([]string{"fotball"}, false))
	require.True(t, dom.IsProcessed(el(t, doc, "old")))

	// a processed card is not reclassified by incremental passes
	old := el(t, doc, "old")
	doc.AppendChild(old, &html.Node{Type: html.TextNode, Data: " fotball"})

	nodes, err := dom.ParseFragment(el(t, doc, "feed"), `<div class="card" id="new">fotball `+filler+`</div>`)
	require.NoError(t, err)
	for _, n := range nodes {
		doc.AppendChild(el(t, doc, "feed"), n)
	}

	stats := e.Scan(false)
	assert.True(t, hidden(t, doc, "new"))
	assert.False(t, hidden(t, doc, "old"))
	assert.Equal(t, 1, stats.Cards)

	e.Scan(true)
	assert.True(t, hidden(t, doc, "old"))
}

func TestScan_IncrementalKeepsStripDecisions(t *testing.T) {
	doc := load(t, `<article class="card" id="box"><h2 id="h">Sport</h2>`+strings.Repeat(`<p>`+filler+`</p>`, 70)+`<a href="/1">a</a><a href="/2">b</a></article><article id="other">annet</article>`)
	e := New(doc, Options{})
	e.Apply(NewConfig([]string{"sport"}, false))
	require.True(t, hidden(t, doc, "box"), "strip hides its container")

	// the container's own text is outside the card window; an incremental
	// pass must not reveal it
	e.Scan(false)
	assert.True(t, hidden(t, doc, "box"))
}

func TestScan_LinkDerivedCards(t *testing.T) {
	doc := load(t, `<div><div id="wrap"><a href="/sak/1">Fotball: Laget rykker opp etter seier</a></div></div>
		<div><div id="ext"><a href="https://other.example/sak">Fotball: ekstern lenke som ikke teller</a></div></div>
		<div><div id="frag"><a href="#top">Fotball: fragmentlenke til toppen av siden</a></div></div>`)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, false))
	assert.True(t, hidden(t, doc, "wrap"))
	assert.False(t, hidden(t, doc, "ext"))
	assert.False(t, hidden(t, doc, "frag"))
	assert.Equal(t, 1, stats.Links)
}

func TestScan_PackageSections(t *testing.T) {
	doc := load(t, `<section class="container-package" id="titled" data-title="Fotball-EM"><p>x</p></section>
		<section class="container-package" id="widget"><div class="topic-strip-root"></div>
			<script src="https://widgets.example/topic-strip.js?topic=fotball"></script></section>
		<section class="container-package" id="plain" data-title="Valg"><div class="topic-strip-root"></div></section>
		<section class="container-package" id="untitled"><p>fotball</p></section>`)
	stats := New(doc, Options{}).Apply(NewConfig([]string{"fotball"}, false))
	assert.True(t, hidden(t, doc, "titled"))
	assert.True(t, hidden(t, doc, "widget"))
	assert.False(t, hidden(t, doc, "plain"))
	assert.False(t, hidden(t, doc, "untitled"))
	assert.Equal(t, 3, stats.Packages)
}

func TestScan_LaterShowDoesNotRevertEarlierHide(t *testing.T) {
	// the package title does not match, but a strip inside it hides the
	// section as its container
	doc := load(t, `<section class="container-package" id="pkg" data-title="Helg">
		<h2>Sport</h2><a href="/1">En</a><a href="/2">To</a></section>`)
	New(doc, Options{}).Apply(NewConfig([]string{"sport"}, false))
	assert.True(t, hidden(t, doc, "pkg"))
}

func TestPass_GuardIsolatesPanics(t *testing.T) {
	doc := load(t, `<div id="x"></div>`)
	e := New(doc, Options{})
	p := &pass{e: e, doc: doc, cfg: e.Config(), hiddenNow: map[*html.Node]bool{}, seenCards: map[*html.Node]bool{}}
	ran := false
	assert.NotPanics(t, func() {
		p.guard("card", el(t, doc, "x"), func() { panic("boom") })
		p.guard("card", el(t, doc, "x"), func() { ran = true })
	})
	assert.True(t, ran)
	assert.Equal(t, 1, p.stats.Failures)
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{StripMaxChars: 50}
	o.Policy.CardDepth = 3
	got := o.withDefaults()
	assert.Equal(t, 50, got.StripMaxChars)
	assert.Equal(t, 3, got.Policy.CardDepth)
	assert.Equal(t, DefaultOptions().Policy.StripDepth, got.Policy.StripDepth)
	assert.Equal(t, 80, got.ContentTargetMinChars)
}
