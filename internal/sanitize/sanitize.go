// Package sanitize provides pure input-cleaning helpers. Every function
// is total: it never fails, it degrades its input to a safe value.
package sanitize

import (
	"strings"
	"unicode"

	"github.com/centsible/centsible/internal/model"
)

// MaxAmountLen caps raw amount strings before parsing.
const MaxAmountLen = 20

// Text trims, collapses internal whitespace runs to single spaces, strips
// characters unsafe for rendering (angle brackets, quotes, ampersand) and
// truncates the result to max runes.
func Text(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		switch r {
		case '<', '>', '"', '\'', '&':
			continue
		}
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return truncate(b.String(), max)
}

// CategoryName cleans a category name: trimmed, whitespace-collapsed, and
// restricted to alphanumerics, spaces, hyphens and underscores. Any other
// rune is dropped.
func CategoryName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			continue
		}
		if space && b.Len() > 0 {
			b.WriteRune(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return truncate(b.String(), model.MaxCategoryLen)
}

// Amount strips everything from a raw amount string except digits and the
// decimal separators the parser understands, capping length defensively.
func Amount(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return truncate(b.String(), MaxAmountLen)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
