package quiz

import "strings"

// impossibleQuery is the sentinel query used for an empty FilterSet. Set
// codes are at least three alphanumeric characters, so "00" can never match
// a real set. An empty selection must yield zero cards, never the whole
// catalog.
const impossibleQuery = "set:00"

// BuildQuery translates a FilterSet into a Scryfall search query.
// Empty filter → a query matching zero cards; one code → a plain set
// filter; multiple codes → a parenthesized OR so operator precedence in
// the query language stays unambiguous.
func BuildQuery(fs FilterSet) string {
	codes := fs.Codes()
	switch len(codes) {
	case 0:
		return impossibleQuery
	case 1:
		return "set:" + codes[0]
	default:
		parts := make([]string, len(codes))
		for i, code := range codes {
			parts[i] = "set:" + code
		}
		return "(" + strings.Join(parts, " or ") + ")"
	}
}
