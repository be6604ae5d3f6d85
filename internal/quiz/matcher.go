package quiz

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a card name or guess for comparison: lowercase,
// strip every rune that is not a lowercase ASCII letter, digit, or
// whitespace, collapse whitespace runs to a single space, and trim.
//
// Accented characters are stripped rather than folded to their ASCII
// equivalents, so "Lim-Dûl" normalizes to "limdl" while a guess typed as
// "Lim-Dul" normalizes to "limdul". Names containing accents may therefore
// never match an ASCII-typed guess.
func Normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Matches reports whether a free-text guess names the correct card.
// Two strings match iff their normalized forms are identical; there is no
// fuzzy or edit-distance matching.
func Matches(guess, correctName string) bool {
	return Normalize(guess) == Normalize(correctName)
}
