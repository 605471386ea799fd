// Package dom wraps a parsed HTML tree as a live, mutable document.
//
// Every structural or attribute change made through a Document is reported to
// registered observers as a MutationRecord, the way a browser reports DOM
// changes to a MutationObserver. Lookups always re-query the tree so callers
// never hold stale node references across passes.
//
// A Document is not safe for concurrent use; drive it from a single goroutine
// (see package loop).
package dom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document is a parsed page plus the URL it was loaded from.
type Document struct {
	doc  *goquery.Document
	root *html.Node
	// URL is the page location. Internal-link checks resolve against it.
	URL *url.URL

	observers []*observer
}

// Parse reads an HTML document. pageURL may be nil for documents without a
// known location.
func Parse(r io.Reader, pageURL *url.URL) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromNode(root, pageURL), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string, pageURL *url.URL) (*Document, error) {
	return Parse(strings.NewReader(s), pageURL)
}

// FromNode wraps an already parsed tree.
func FromNode(root *html.Node, pageURL *url.URL) *Document {
	return &Document{doc: goquery.NewDocumentFromNode(root), root: root, URL: pageURL}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node { return d.Query("body") }

// Title returns the trimmed text of <head><title>.
func (d *Document) Title() string {
	t := d.Query("head title")
	if t == nil {
		return ""
	}
	return strings.TrimSpace(textContent(t))
}

// QueryAll returns every element in the document matching selector, in
// document order. An invalid selector matches nothing.
func (d *Document) QueryAll(selector string) []*html.Node {
	return d.doc.Find(selector).Nodes
}

// Query returns the first element matching selector, or nil.
func (d *Document) Query(selector string) *html.Node {
	nodes := d.doc.Find(selector).First().Nodes
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

// QueryAllIn returns descendants of n (excluding n) matching selector.
func QueryAllIn(n *html.Node, selector string) []*html.Node {
	if n == nil {
		return nil
	}
	return goquery.NewDocumentFromNode(n).Find(selector).Nodes
}

// CountIn reports how many descendants of n match selector.
func CountIn(n *html.Node, selector string) int {
	return len(QueryAllIn(n, selector))
}

var (
	selectorMu    sync.Mutex
	selectorCache = map[string]cascadia.Selector{}
)

func compiled(selector string) cascadia.Selector {
	selectorMu.Lock()
	defer selectorMu.Unlock()
	if s, ok := selectorCache[selector]; ok {
		return s
	}
	s, err := cascadia.Compile(selector)
	if err != nil {
		s = nil
	}
	selectorCache[selector] = s
	return s
}

// Matches reports whether element n itself matches selector.
func Matches(n *html.Node, selector string) bool {
	if !IsElement(n) {
		return false
	}
	s := compiled(selector)
	if s == nil {
		return false
	}
	return s.Match(n)
}

// Contains reports whether n is still attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	return n != nil && IsAncestorOrSelf(d.root, n)
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on error.
func (d *Document) String() string {
	var b bytes.Buffer
	if err := d.Render(&b); err != nil {
		return ""
	}
	return b.String()
}

// ParseFragment parses s as children of context (typically <body>).
func ParseFragment(context *html.Node, s string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}
