package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/scan"
)

func filtered(t *testing.T) (*dom.Document, *scan.Config, scan.Stats) {
	t.Helper()
	doc, err := dom.ParseString(`<html><head><title>Forsiden</title></head><body>
		<div class="teaser top" id="a">Fotball: Laget | vant cupfinalen etter ekstraomganger</div>
		<div class="teaser" id="b">Kommunen vedtar nytt budsjett for skolene</div>
	</body></html>`, nil)
	require.NoError(t, err)
	cfg := scan.NewConfig([]string{"fotball"}, false)
	stats := scan.New(doc, scan.Options{}).Apply(cfg)
	return doc, cfg, stats
}

func TestBuild_ListsHiddenElements(t *testing.T) {
	doc, cfg, stats := filtered(t)
	r := Build(doc, "forside.html", cfg, stats)
	assert.Equal(t, "Forsiden", r.Title)
	assert.Equal(t, []string{"fotball"}, r.Keywords)
	require.Len(t, r.Hidden, 1)
	assert.Equal(t, "a", r.Hidden[0].ID)
	assert.Equal(t, "div", r.Hidden[0].Tag)

	md := r.Markdown()
	assert.Contains(t, md, "# Filter report: Forsiden")
	assert.Contains(t, md, "- Keywords: fotball")
	assert.Contains(t, md, "div#a.teaser.top")
	assert.Contains(t, md, `Laget \| vant`)
	assert.NotContains(t, md, "Kommunen")
}

func TestBuild_SkipsNestedHidden(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><section id="outer"><div id="inner">x</div></section></body></html>`, nil)
	require.NoError(t, err)
	doc.SetAttr(doc.Query("#outer"), dom.AttrHidden, "1")
	doc.SetAttr(doc.Query("#inner"), dom.AttrHidden, "1")
	r := Build(doc, "x", nil, scan.Stats{})
	require.Len(t, r.Hidden, 1)
	assert.Equal(t, "outer", r.Hidden[0].ID)
}

func TestMarkdown_NothingHidden(t *testing.T) {
	r := Report{Source: "https://news.example/"}
	md := r.Markdown()
	assert.Contains(t, md, "# Filter report: https://news.example/")
	assert.Contains(t, md, "- Keywords: none")
	assert.Contains(t, md, "Nothing hidden.")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b", excerpt("  a \n b ", 10))
	assert.Equal(t, "abcde…", excerpt(strings.Repeat("abcdef", 3), 5))
}

func TestWritePDF(t *testing.T) {
	doc, cfg, stats := filtered(t)
	out := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, WritePDF(Build(doc, "forside.html", cfg, stats).Markdown()+"\nSæter på Østlandet\n", out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF-"))
}
