package tkbackend

import "strings"

// Quote renders s as a single Tcl word that evaluates to s exactly. Values
// with balanced braces and no backslash are wrapped in {...}; anything else
// is backslash escaped. The result never contains a newline, so it is safe
// to put on one protocol line.
func Quote(s string) string {
	if s == "" {
		return "{}"
	}
	if canBrace(s) {
		return "{" + s + "}"
	}

	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\', '{', '}', '[', ']', '$', ';', '"', ' ':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func canBrace(s string) bool {
	if strings.ContainsAny(s, "\\\n\r") {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
