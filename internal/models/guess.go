package models

import (
	"strings"
)

// GuessSet is the player's fixed selection. It is immutable after construction.
type GuessSet struct {
	primary   map[string]struct{}
	secondary map[string]struct{}
}

// NewGuessSet builds a GuessSet. Blank entries are dropped and numbers are
// normalised so "03" and "3" are the same guess.
func NewGuessSet(primary, secondary []string) GuessSet {
	return GuessSet{
		primary:   toSet(primary),
		secondary: toSet(secondary),
	}
}

func toSet(numbers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		if key := NormalizeNumber(n); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

// HasPrimary reports whether n is one of the primary guesses.
func (g GuessSet) HasPrimary(n string) bool {
	_, ok := g.primary[NormalizeNumber(n)]
	return ok
}

// HasSecondary reports whether n is one of the secondary guesses.
func (g GuessSet) HasSecondary(n string) bool {
	_, ok := g.secondary[NormalizeNumber(n)]
	return ok
}

// Size returns the number of distinct primary and secondary guesses.
func (g GuessSet) Size() (primary, secondary int) {
	return len(g.primary), len(g.secondary)
}

// NormalizeNumber trims whitespace and leading zeros. A blank input yields "".
func NormalizeNumber(n string) string {
	n = strings.TrimSpace(n)
	if n == "" {
		return ""
	}
	trimmed := strings.TrimLeft(n, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
