// Package names canonicalizes person names for equivalence comparison.
package names

import "strings"

// Normalize prepares a name for comparison: trims leading/trailing
// whitespace, lower-cases, replaces hyphens with spaces and collapses
// whitespace runs into single spaces. The result is a comparison key
// only; stored names keep their original casing and hyphenation.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", " ")
	return strings.Join(strings.Fields(name), " ")
}

// Equivalent reports whether two names identify the same person: the
// sets of whitespace-split tokens of their normalized forms are equal.
// Token order is ignored and repeated tokens collapse, so
// "Ana Maria" and "maria ana" are equivalent.
func Equivalent(name1, name2 string) bool {
	set1 := tokenSet(name1)
	set2 := tokenSet(name2)
	if len(set1) != len(set2) {
		return false
	}
	for token := range set1 {
		if _, ok := set2[token]; !ok {
			return false
		}
	}
	return true
}

// IsValid reports whether a name is syntactically acceptable: at least
// two whitespace-separated tokens, and no character outside letters,
// spaces and hyphens. Validation runs on the raw input, before any
// normalization.
func IsValid(name string) bool {
	if len(strings.Fields(name)) < 2 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return true
}

func tokenSet(name string) map[string]struct{} {
	tokens := strings.Fields(Normalize(name))
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
