// Package slug derives URL path segments from post titles.
package slug

import (
	"strings"
	"unicode"
)

// Make lower-cases title, drops everything except ASCII letters, digits,
// whitespace and hyphens, then joins whitespace runs with a single hyphen.
//
// Make(Make(t)) == Make(t) for every t. Collisions are left to the store's
// unique index.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	inSpace := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case isASCIIAlnum(r) || r == '-':
			if inSpace {
				b.WriteByte('-')
				inSpace = false
			}
			b.WriteRune(r)
		}
	}
	if inSpace {
		b.WriteByte('-')
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}
