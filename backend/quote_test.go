package tkbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "{}"},
		{"Hello", "{Hello}"},
		{"Hello world", "{Hello world}"},
		{"a {b} c", "{a {b} c}"},
		{"x}y", `x\}y`},
		{"{open", `\{open`},
		{"a }{ b", `a\ \}\{\ b`},
		{`C:\dir`, `C:\\dir`},
		{"two\nlines", `two\nlines`},
		{"$x [y] } ;", `\$x\ \[y\]\ \}\ \;`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Quote(tt.in), "%q", tt.in)
	}
}
