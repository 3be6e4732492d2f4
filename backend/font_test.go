package tkbackend

import (
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{}},
		{"abc", []string{"abc"}},
		{"  abc  def  ", []string{"abc", "def"}},
		{"{abc def}", []string{"abc def"}},
		{"{abc def} xy_z {another}", []string{"abc def", "xy_z", "another"}},
		{"a b  c", []string{"a", "b", "c"}},
		{"-family {DejaVu Sans} -size 10", []string{"-family", "DejaVu Sans", "-size", "10"}},
		{"{one} {two three}", []string{"one", "two three"}},
		{"a {unterminated", []string{"a"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitItems(tt.text), "%q", tt.text)
	}
}

func TestParseFont(t *testing.T) {
	f, err := ParseFont("-family Courier -size -12 -weight normal -slant roman -underline 0 -overstrike 1 -extra ignored")
	require.NoError(t, err)
	assert.Equal(t, Font{
		Family:     "Courier",
		Size:       -12,
		Weight:     "normal",
		Slant:      "roman",
		Overstrike: true,
	}, f)

	_, err = ParseFont("-size 10")
	assert.ErrorIs(t, err, errNoFamily)

	_, err = ParseFont("-family Courier -size big")
	assert.Error(t, err)
}

func TestFontString(t *testing.T) {
	f := Font{Family: "DejaVu Sans", Size: 10, Weight: "bold", Underline: true}
	assert.Equal(t, "{DejaVu Sans} 10 bold underline", f.String())
	assert.Equal(t, "{Courier} 8", Font{Family: "Courier", Size: 8}.String())
}

func TestSplitItemsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("plain words split on whitespace", prop.ForAll(
		func(words []string) bool {
			got := splitItems(strings.Join(words, " "))
			if len(got) != len(words) {
				return false
			}
			for i := range words {
				if got[i] != words[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.Property("a braced group is one item", prop.ForAll(
		func(a, b string) bool {
			got := splitItems("{" + a + " " + b + "}")
			return len(got) == 1 && got[0] == a+" "+b
		},
		gen.Identifier(), gen.Identifier(),
	))

	properties.Property("family round trips through a description", prop.ForAll(
		func(a, b string, size int) bool {
			family := a + " " + b
			f, err := ParseFont("-family {" + family + "} -size " + strconv.Itoa(size))
			return err == nil && f.Family == family && f.Size == size
		},
		gen.Identifier(), gen.Identifier(), gen.IntRange(-72, 72),
	))

	properties.TestingRun(t)
}
