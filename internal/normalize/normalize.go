// Package normalize canonicalizes page and keyword text into the single
// comparison space used by the keyword matcher.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes compatibility forms and drops the combining marks
// left behind (é -> e, å -> a, ﬁ -> fi).
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// letterFolds maps the Norwegian/Danish letters that have no canonical
// decomposition to their ASCII spellings. å decomposes on its own but is
// listed so the mapping does not depend on transform order.
var letterFolds = strings.NewReplacer(
	"æ", "ae",
	"ø", "o",
	"å", "a",
)

// Text lower-cases s, folds æ/ø/å, turns '/', '_' and '-' into spaces, strips
// diacritics and collapses whitespace. Text(Text(s)) == Text(s) for every s.
func Text(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	out = letterFolds.Replace(out)
	out = strings.Map(func(r rune) rune {
		switch r {
		case '/', '_', '-':
			return ' '
		}
		return r
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// All normalizes every entry of in, dropping entries that normalize to the
// empty string and later duplicates. Order of first occurrence is kept.
func All(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		n := Text(s)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Len reports the length of normalized text in characters. Length windows
// throughout the filter are expressed in characters, not bytes.
func Len(s string) int {
	return len([]rune(s))
}
