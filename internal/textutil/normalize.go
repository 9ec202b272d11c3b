package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFoldReplacer maps typographic punctuation to ASCII equivalents.
var asciiFoldReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"‚", "'",
	"`", "'",
	"´", "'",
	"“", "\"",
	"”", "\"",
	"—", "-",
	"–", "-",
)

// diacriticFolder strips combining marks after NFD decomposition.
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepares a string for similarity comparison: lowercase, curly
// quotes and dashes folded to ASCII, diacritics removed, punctuation other
// than apostrophes and hyphens dropped, whitespace collapsed.
func Normalize(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = asciiFoldReplacer.Replace(value)
	if folded, _, err := transform.String(diacriticFolder, value); err == nil {
		value = folded
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
