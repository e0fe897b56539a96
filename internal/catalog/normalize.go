package catalog

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes an attribute option for comparison: whitespace
// and hyphens are stripped and the result is lower-cased, so "192 mm" and
// "192-mm" compare equal. The empty string normalizes to itself.
func Normalize(option string) string {
	var b strings.Builder
	b.Grow(len(option))
	for _, r := range option {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Equal reports whether two options are the same after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
