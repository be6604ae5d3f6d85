// Package quiz implements the card-pool acquisition and answer-verification
// engine: resolving set filters into Scryfall queries, sampling random cards
// from the resulting corpus, generating multiple-choice options, matching
// free-text guesses, and tracking round and session state.
package quiz

import (
	"sort"
	"strings"
)

// FilterSet is the set of Scryfall set codes the player has chosen to draw
// cards from. Codes are stored lowercased, deduplicated, and sorted; order
// of construction is irrelevant to identity.
type FilterSet struct {
	codes []string
}

// NewFilterSet builds a FilterSet from set codes. Blank codes are dropped,
// duplicates collapse to one entry.
func NewFilterSet(codes ...string) FilterSet {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return FilterSet{codes: out}
}

// Empty reports whether no set codes are selected.
func (fs FilterSet) Empty() bool {
	return len(fs.codes) == 0
}

// Len returns the number of selected set codes.
func (fs FilterSet) Len() int {
	return len(fs.codes)
}

// Codes returns the sorted set codes as a copy.
func (fs FilterSet) Codes() []string {
	out := make([]string, len(fs.codes))
	copy(out, fs.codes)
	return out
}

// Contains reports whether the given set code is part of the filter.
func (fs FilterSet) Contains(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range fs.codes {
		if c == code {
			return true
		}
	}
	return false
}

// Key returns the canonical cache identity for the filter: the sorted set
// codes joined by commas. Two FilterSets built from the same codes in any
// order produce the same key.
func (fs FilterSet) Key() string {
	return strings.Join(fs.codes, ",")
}

// String implements fmt.Stringer.
func (fs FilterSet) String() string {
	if fs.Empty() {
		return "(no sets)"
	}
	return fs.Key()
}
