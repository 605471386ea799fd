package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// TagName returns the lower-case tag name of an element, or "".
func TagName(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	return strings.ToLower(n.Data)
}

// Attr returns the value of attribute key.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when it is absent.
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// ClassName returns the raw class attribute.
func ClassName(n *html.Node) string { return AttrOr(n, "class", "") }

// ID returns the id attribute.
func ID(n *html.Node) string { return AttrOr(n, "id", "") }

// Parent returns the parent element, skipping non-element parents.
func Parent(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	p := n.Parent
	if !IsElement(p) {
		return nil
	}
	return p
}

// NextElementSibling returns the next sibling that is an element.
func NextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// IsAncestorOrSelf reports whether anc is n or one of its ancestors.
func IsAncestorOrSelf(anc, n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == anc {
			return true
		}
	}
	return false
}

// IsDocumentRoot reports whether n is <html> or <body>, or a non-element.
func IsDocumentRoot(n *html.Node) bool {
	switch TagName(n) {
	case "html", "body", "":
		return true
	}
	return false
}

func setAttr(n *html.Node, key, val string) (changed bool) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			if a.Val == val {
				return false
			}
			n.Attr[i].Val = val
			return true
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return true
}

func removeAttr(n *html.Node, key string) (changed bool) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return true
		}
	}
	return false
}

// Descendants returns the element descendants of n (excluding n) accepted by
// keep, in document order. A nil keep accepts every element.
func Descendants(n *html.Node, keep func(*html.Node) bool) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (keep == nil || keep(c)) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}
