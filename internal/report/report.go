// Package report summarizes what a scan hid, as Markdown and PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hyperifyio/articlefilter/internal/dom"
	"github.com/hyperifyio/articlefilter/internal/scan"
)

// ExcerptChars bounds the text excerpt shown per hidden element.
const ExcerptChars = 80

// Entry is one hidden content unit.
type Entry struct {
	Tag     string
	ID      string
	Class   string
	Excerpt string
}

// Report describes the hidden state of one page after a pass.
type Report struct {
	Source      string
	Title       string
	Keywords    []string
	FilterBody  bool
	Stats       scan.Stats
	Hidden      []Entry
	GeneratedAt time.Time
}

// Build collects the outermost hidden elements of doc. Elements hidden
// inside an already hidden element are not listed separately.
func Build(doc *dom.Document, source string, cfg *scan.Config, stats scan.Stats) Report {
	r := Report{
		Source:      source,
		Title:       doc.Title(),
		Stats:       stats,
		GeneratedAt: time.Now().UTC(),
	}
	if cfg != nil {
		r.Keywords = cfg.Keywords.Words()
		r.FilterBody = cfg.FilterBody
	}
	for _, n := range doc.QueryAll(dom.HiddenSelector) {
		if hiddenAncestor(n) {
			continue
		}
		r.Hidden = append(r.Hidden, Entry{
			Tag:     dom.TagName(n),
			ID:      dom.ID(n),
			Class:   dom.ClassName(n),
			Excerpt: excerpt(dom.InnerText(n), ExcerptChars),
		})
	}
	return r
}

func hiddenAncestor(n *html.Node) bool {
	for p := dom.Parent(n); p != nil; p = dom.Parent(p) {
		if dom.IsHidden(p) {
			return true
		}
	}
	return false
}

func excerpt(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}

// Markdown renders the report.
func (r Report) Markdown() string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = r.Source
	}
	fmt.Fprintf(&b, "# Filter report: %s\n\n", title)
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", r.Source)
	}
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Settings\n\n")
	if len(r.Keywords) == 0 {
		b.WriteString("- Keywords: none\n")
	} else {
		fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(r.Keywords, ", "))
	}
	fmt.Fprintf(&b, "- Article body filtering: %t\n\n", r.FilterBody)

	b.WriteString("## Pass\n\n")
	s := r.Stats
	fmt.Fprintf(&b, "- Forced: %t\n", s.Forced)
	fmt.Fprintf(&b, "- Classified: %d cards, %d links, %d strips, %d packages\n", s.Cards, s.Links, s.Strips, s.Packages)
	fmt.Fprintf(&b, "- Hidden elements: %d\n", s.Hidden)
	fmt.Fprintf(&b, "- Article body: %s\n", s.Target)
	if s.Failures > 0 {
		fmt.Fprintf(&b, "- Failures: %d\n", s.Failures)
	}
	b.WriteString("\n## Hidden content\n\n")
	if len(r.Hidden) == 0 {
		b.WriteString("Nothing hidden.\n")
		return b.String()
	}
	b.WriteString("| # | Element | Text |\n|---|---|---|\n")
	for i, e := range r.Hidden {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, cell(describe(e)), cell(e.Excerpt))
	}
	return b.String()
}

func describe(e Entry) string {
	s := e.Tag
	if e.ID != "" {
		s += "#" + e.ID
	}
	for _, c := range strings.Fields(e.Class) {
		s += "." + c
	}
	return s
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
