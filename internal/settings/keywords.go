package settings

import (
	"slices"
	"strings"
)

// ParseKeywordInput splits user input on newlines and commas. Parts are
// trimmed and lower-cased; empty parts are dropped.
func ParseKeywordInput(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// AddKeywords appends the keywords parsed from input to list, skipping any
// already present. It returns the new list and the keywords actually added.
func AddKeywords(list []string, input string) (updated, added []string) {
	updated = slices.Clone(list)
	for _, kw := range ParseKeywordInput(input) {
		if slices.Contains(updated, kw) {
			continue
		}
		updated = append(updated, kw)
		added = append(added, kw)
	}
	return updated, added
}

// RemoveKeyword returns list without kw (exact match) and whether it was
// present.
func RemoveKeyword(list []string, kw string) ([]string, bool) {
	i := slices.Index(list, kw)
	if i < 0 {
		return slices.Clone(list), false
	}
	out := slices.Clone(list)
	return slices.Delete(out, i, i+1), true
}
