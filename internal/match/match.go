// Package match holds the active blocked-keyword set and the substring
// matcher applied to normalized page text.
package match

import (
	"strings"

	"github.com/hyperifyio/articlefilter/internal/normalize"
)

// KeywordSet is an ordered set of normalized, non-empty keywords. The zero
// value is an empty set and matches nothing.
type KeywordSet struct {
	words []string
}

// NewKeywordSet normalizes raw keywords, dropping entries that are empty
// after normalization and duplicates.
func NewKeywordSet(raw []string) KeywordSet {
	return KeywordSet{words: normalize.All(raw)}
}

// Len reports the number of keywords in the set.
func (k KeywordSet) Len() int { return len(k.words) }

// Empty reports whether the set has no keywords.
func (k KeywordSet) Empty() bool { return len(k.words) == 0 }

// Words returns a copy of the keywords in insertion order.
func (k KeywordSet) Words() []string {
	return append([]string(nil), k.words...)
}

// Match returns the first keyword contained in text, or "" if none is.
// text must already be normalized.
func (k KeywordSet) Match(text string) (string, bool) {
	if text == "" || len(k.words) == 0 {
		return "", false
	}
	for _, w := range k.words {
		if strings.Contains(text, w) {
			return w, true
		}
	}
	return "", false
}

// Matches reports whether normalized text contains any keyword of set as a
// contiguous substring. Matching is not word-boundary aware, so both partial
// words and multi-word phrases match.
func Matches(text string, set KeywordSet) bool {
	_, ok := set.Match(text)
	return ok
}
