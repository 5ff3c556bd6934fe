// Package textutil provides text canonicalization for keyword matching.
// Commitment descriptions come from the transparency API with mixed casing
// and Portuguese diacritics, so every comparison goes through Normalize.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks,
// then recomposes. "ç" becomes "c", "ã" becomes "a".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s and strips diacritic marks so that "Locação" and
// "locacao" compare equal. Whitespace and punctuation are left untouched.
// Normalize is idempotent.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// Mark removal cannot fail on valid UTF-8. Keep the lowercased
		// input for anything else rather than dropping the text.
		return strings.ToLower(s)
	}
	return out
}

// Pluralize derives the plural of an already-normalized keyword. Words ending
// in "l" swap the ending for "is" ("imovel" -> "imoveis"); everything else
// gains an "s" ("sistema" -> "sistemas").
func Pluralize(s string) string {
	if strings.HasSuffix(s, "l") {
		return strings.TrimSuffix(s, "l") + "is"
	}
	return s + "s"
}

// MatchKeyword reports whether text contains keyword in singular or plural
// form, ignoring case and accents. Matching is plain substring containment,
// so short keywords can match inside unrelated words; that trade-off keeps
// the rule table simple and is accepted.
func MatchKeyword(text, keyword string) bool {
	t := Normalize(text)
	k := Normalize(keyword)
	return strings.Contains(t, k) || strings.Contains(t, Pluralize(k))
}
