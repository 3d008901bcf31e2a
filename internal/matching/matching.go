// Package matching implements the coarse textual ingredient matching shared by
// the recommendation, shopping list and bonus features.
package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s used for every comparison
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether a and b refer to the same ingredient: after case
// folding, either one must contain the other. Empty strings never match.
func Matches(a, b string) bool {
	fa, fb := Fold(strings.TrimSpace(a)), Fold(strings.TrimSpace(b))
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}

// MatchesAny reports whether s matches at least one candidate
func MatchesAny(s string, candidates []string) bool {
	for _, c := range candidates {
		if Matches(s, c) {
			return true
		}
	}
	return false
}

// Missing returns the recipe ingredients that no pantry item covers, in
// recipe order.
func Missing(recipeIngredients, pantry []string) []string {
	missing := make([]string, 0, len(recipeIngredients))
	for _, ing := range recipeIngredients {
		if !MatchesAny(ing, pantry) {
			missing = append(missing, ing)
		}
	}
	return missing
}

// LeadingToken returns the first whitespace-delimited word of an ingredient
// line. "2 tenen knoflook" yields "2": quantities are not stripped.
func LeadingToken(ingredient string) string {
	fields := strings.Fields(ingredient)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
