package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/articlefilter/internal/normalize"
)

func TestNewKeywordSet_NormalizesAndDedupes(t *testing.T) {
	set := NewKeywordSet([]string{"Fotball", "", "  ", "FOTBALL", "Ski-VM", "Været"})
	require.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"fotball", "ski vm", "vaeret"}, set.Words())
}

func TestMatches_EmptyFastPaths(t *testing.T) {
	assert.False(t, Matches("", NewKeywordSet([]string{"sport"})))
	assert.False(t, Matches("anything at all", KeywordSet{}))
	assert.False(t, Matches("anything at all", NewKeywordSet(nil)))
	assert.False(t, Matches("", KeywordSet{}))
}

func TestMatches_Substring(t *testing.T) {
	set := NewKeywordSet([]string{"fotball"})
	text := normalize.Text("Lokallaget vant i fotball-kampen i går")
	assert.True(t, Matches(text, set))
	// partial words match too
	assert.True(t, Matches("fotballpraten", set))
	assert.False(t, Matches("handball", set))
}

func TestMatches_PhraseAndFirstWins(t *testing.T) {
	set := NewKeywordSet([]string{"ski vm", "vm"})
	w, ok := set.Match("direkte fra ski vm i trondheim")
	require.True(t, ok)
	assert.Equal(t, "ski vm", w)
}

func TestMatches_KeywordEmbeddedInAnyText(t *testing.T) {
	texts := []string{"", "a", "prefix ", "mid dle", "日本"}
	keywords := []string{"k", "sport", "ski vm"}
	for _, k := range keywords {
		set := NewKeywordSet([]string{k})
		for _, tx := range texts {
			assert.True(t, Matches(tx+k+tx, set), "keyword %q in %q", k, tx+k+tx)
		}
	}
}

func TestWords_ReturnsCopy(t *testing.T) {
	set := NewKeywordSet([]string{"a", "b"})
	w := set.Words()
	w[0] = "zzz"
	assert.Equal(t, []string{"a", "b"}, set.Words())
}
