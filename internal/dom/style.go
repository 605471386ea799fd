package dom

import (
	"strings"

	"golang.org/x/net/html"
)

type declaration struct {
	property  string
	value     string
	important bool
}

// parseStyle splits an inline style attribute into declarations. Semicolons
// inside quotes or parentheses (url(...), quoted font names) do not split.
func parseStyle(s string) []declaration {
	var (
		out   []declaration
		start int
		depth int
		quote rune
	)
	flush := func(end int) {
		part := strings.TrimSpace(s[start:end])
		start = end + 1
		if part == "" {
			return
		}
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			return
		}
		prop := strings.ToLower(strings.TrimSpace(part[:colon]))
		val := strings.TrimSpace(part[colon+1:])
		important := false
		if i := strings.LastIndex(strings.ToLower(val), "!important"); i >= 0 && strings.TrimSpace(val[i+len("!important"):]) == "" {
			important = true
			val = strings.TrimSpace(val[:i])
		}
		out = append(out, declaration{property: prop, value: val, important: important})
	}
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			flush(i)
		}
	}
	if start < len(s) {
		flush(len(s))
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		v := d.property + ": " + d.value
		if d.important {
			v += " !important"
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, "; ")
}

// StyleProperty returns the inline value of property on n and whether it
// carries !important. A property set more than once resolves to the last
// declaration.
func StyleProperty(n *html.Node, property string) (value string, important bool) {
	raw, ok := Attr(n, "style")
	if !ok {
		return "", false
	}
	property = strings.ToLower(property)
	for _, d := range parseStyle(raw) {
		if d.property == property {
			value, important = d.value, d.important
		}
	}
	return value, important
}

// SetStyleProperty sets an inline style property, replacing any existing
// declarations of it.
func (d *Document) SetStyleProperty(n *html.Node, property, value string, important bool) {
	if !IsElement(n) {
		return
	}
	property = strings.ToLower(property)
	decls := withoutProperty(parseStyle(AttrOr(n, "style", "")), property)
	decls = append(decls, declaration{property: property, value: value, important: important})
	d.SetAttr(n, "style", formatStyle(decls))
}

// RemoveStyleProperty removes property from the inline style. The style
// attribute itself is dropped once no declarations remain.
func (d *Document) RemoveStyleProperty(n *html.Node, property string) {
	raw, ok := Attr(n, "style")
	if !ok {
		return
	}
	decls := withoutProperty(parseStyle(raw), strings.ToLower(property))
	if len(decls) == 0 {
		d.RemoveAttr(n, "style")
		return
	}
	d.SetAttr(n, "style", formatStyle(decls))
}

func withoutProperty(decls []declaration, property string) []declaration {
	out := decls[:0]
	for _, d := range decls {
		if d.property != property {
			out = append(out, d)
		}
	}
	return out
}
