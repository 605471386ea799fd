package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"lower and trim", "  Sport  ", "sport"},
		{"nordic letters", "Ærlig Øl på Åsen", "aerlig ol pa asen"},
		{"separators", "fotball-kampen/lokal_lag", "fotball kampen lokal lag"},
		{"diacritics", "Café Crème", "cafe creme"},
		{"collapse runs", "a \n\n  b\t\tc", "a b c"},
		{"compatibility forms", "ﬁnale", "finale"},
		{"nbsp", "kort nytt", "kort nytt"},
		{"card scenario", "Lokallaget vant i fotball-kampen i går", "lokallaget vant i fotball kampen i gar"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Text(tc.in))
		})
	}
}

func TestText_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Sport",
		"ÆØÅ æøå",
		"ǽ ǿ",
		"ℌello Ⅻ",
		"Ǆ ǅ",
		"fullwidth／slash＿under",
		"İstanbul",
		"  mixed - / _ separators  ",
		"é combined",
		"日本語のテキスト",
	}
	for _, in := range inputs {
		once := Text(in)
		assert.Equal(t, once, Text(once), "input %q", in)
	}
}

func TestAll(t *testing.T) {
	got := All([]string{"Fotball", " ", "fotball", "Ski-VM", "", "ski vm", "Været"})
	assert.Equal(t, []string{"fotball", "ski vm", "vaeret"}, got)
}

func TestLen(t *testing.T) {
	assert.Equal(t, 0, Len(""))
	assert.Equal(t, 3, Len("abc"))
	assert.Equal(t, 2, Len("日本"))
}
