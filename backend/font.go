package tkbackend

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Font describes a Tk font, as reported by "font actual" when the user
// picks a font in the font chooser.
type Font struct {
	Family string
	// Size is in points; negative values are pixels, as in Tk.
	Size       int
	Weight     string
	Slant      string
	Underline  bool
	Overstrike bool
}

var errNoFamily = errors.New("font description has no -family")

// ParseFont parses an option/value font description such as
// "-family {DejaVu Sans} -size 10 -weight bold -slant roman -underline 0 -overstrike 0".
// Unknown options are skipped.
func ParseFont(desc string) (Font, error) {
	var f Font
	items := splitItems(desc)
	hasFamily := false

	for i := 0; i+1 < len(items); i += 2 {
		value := items[i+1]
		switch items[i] {
		case "-family":
			f.Family = value
			hasFamily = true
		case "-size":
			size, err := strconv.Atoi(value)
			if err != nil {
				return Font{}, fmt.Errorf("font size %q: %w", value, err)
			}
			f.Size = size
		case "-weight":
			f.Weight = value
		case "-slant":
			f.Slant = value
		case "-underline":
			f.Underline = value == "1"
		case "-overstrike":
			f.Overstrike = value == "1"
		}
	}

	if !hasFamily {
		return Font{}, errNoFamily
	}
	return f, nil
}

// String renders f in the list form Tk accepts for -font options.
func (f Font) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{%s} %d", f.Family, f.Size)
	if f.Weight != "" {
		b.WriteString(" " + f.Weight)
	}
	if f.Slant != "" {
		b.WriteString(" " + f.Slant)
	}
	if f.Underline {
		b.WriteString(" underline")
	}
	if f.Overstrike {
		b.WriteString(" overstrike")
	}
	return b.String()
}

// splitItems splits a Tcl list-like string into words, keeping runs
// grouped in {...} together with the braces removed. An unterminated group
// ends the split and whatever was already collected is returned.
func splitItems(text string) []string {
	result := []string{}

	remaining := strings.TrimSpace(text)
	for len(remaining) > 0 {
		start := strings.IndexByte(remaining, '{')
		if start < 0 {
			result = append(result, strings.Fields(remaining)...)
			break
		}

		result = append(result, strings.Fields(remaining[:start])...)

		end := strings.IndexByte(remaining[start+1:], '}')
		if end < 0 {
			break
		}
		end += start + 1
		result = append(result, remaining[start+1:end])
		remaining = strings.TrimSpace(remaining[end+1:])
	}

	return result
}
