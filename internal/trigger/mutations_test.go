package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/scan"
	"github.com/hyperifyio/articlefilter/internal/visibility"
)

type counter struct{ n int }

func (c *counter) Trigger() { c.n++ }

func parse(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(`<html><body><div id="feed"><div class="card" id="c">Kampen endte med fotball-fest på stadion</div></div></body></html>`, nil)
	require.NoError(t, err)
	return doc
}

func TestMutations_RequestsOnRelevantChanges(t *testing.T) {
	doc := parse(t)
	c := &counter{}
	m := Watch(doc, c)
	defer m.Stop()

	card := doc.Query("#c")
	doc.SetAttr(card, "class", "card featured")
	doc.SetAttr(card, "title", "Sport")
	doc.AppendChild(doc.Query("#feed"), &html.Node{Type: html.ElementNode, Data: "div"})
	assert.Equal(t, 3, c.n)

	doc.SetAttr(card, "data-unrelated", "1")
	assert.Equal(t, 3, c.n)
}

func TestMutations_IgnoresFilterWrites(t *testing.T) {
	doc := parse(t)
	c := &counter{}
	m := Watch(doc, c)
	defer m.Stop()

	e := scan.New(doc, scan.Options{})
	e.Apply(scan.NewConfig([]string{"fotball"}, false))
	require.True(t, dom.IsHidden(doc.Query("#c")))
	visibility.RevealAll(doc, true)
	assert.Zero(t, c.n)
}

func TestMutations_Stop(t *testing.T) {
	doc := parse(t)
	c := &counter{}
	m := Watch(doc, c)
	m.Stop()
	m.Stop()
	doc.SetAttr(doc.Query("#c"), "class", "x")
	assert.Zero(t, c.n)
	assert.Zero(t, m.Seen)
}
