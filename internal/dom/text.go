package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// blockTags start and end a line in rendered text.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"td": true, "th": true, "tr": true, "ul": true,
}

// InnerText approximates the rendered text of n: text of descendants that
// would be displayed, with block boundaries turned into line breaks.
// Scripts, styles and descendants that are not rendered (hidden attribute or
// an inline display:none) contribute nothing. n itself is always read, even
// when hidden, so callers can classify an element they previously hid.
func InnerText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(&b, n, true)
	return b.String()
}

func collectText(b *strings.Builder, n *html.Node, root bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		tag := TagName(n)
		switch tag {
		case "script", "style", "noscript", "template", "head", "title", "iframe", "svg":
			return
		case "br":
			b.WriteByte('\n')
			return
		}
		if !root && !rendered(n) {
			return
		}
		if blockTags[tag] {
			b.WriteByte('\n')
			defer b.WriteByte('\n')
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c, false)
	}
}

func rendered(n *html.Node) bool {
	if _, ok := Attr(n, "hidden"); ok {
		return false
	}
	v, _ := StyleProperty(n, "display")
	return !strings.EqualFold(strings.TrimSpace(v), "none")
}

// OwnText joins the text nodes that are direct children of n with single
// spaces.
func OwnText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			parts = append(parts, c.Data)
		}
	}
	return strings.Join(parts, " ")
}

// textContent returns all descendant text regardless of rendering.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
