// Package dietary excludes catalog items that conflict with a user's diet,
// allergies or dislikes using fixed keyword tables.
package dietary

import (
	"strings"

	"github.com/pageza/fridgechef/backend/internal/matching"
)

// allergenKeywords maps each allergy tag to the name fragments it blocks
var allergenKeywords = map[string][]string{
	"nuts":      {"noot", "amandel", "hazelnoot", "pinda"},
	"gluten":    {"tarwe", "rogge", "gerst", "haver"},
	"lactose":   {"melk", "kaas", "yoghurt", "room"},
	"fish":      {"vis", "zalm", "tonijn"},
	"shellfish": {"garnaal", "kreeft", "mosselen"},
	"eggs":      {"ei"},
	"soy":       {"soja"},
}

// dietKeywords maps a diet tag to the name fragments that violate it
var dietKeywords = map[string][]string{
	"vegan":      {"vlees", "kip", "vis", "kaas", "melk", "ei", "boter"},
	"vegetarian": {"vlees", "kip", "vis", "ham", "spek"},
}

// Constraints is what a profile contributes to filtering. The zero value
// filters nothing.
type Constraints struct {
	Diets     []string
	Allergies []string
	Dislikes  []string
}

// ParseDislikes splits the free-text dislike field on commas, trimming and
// lowercasing each term and dropping empty ones.
func ParseDislikes(s string) []string {
	var terms []string
	for _, part := range strings.Split(s, ",") {
		term := strings.ToLower(strings.TrimSpace(part))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// blocklist collects every keyword the constraints exclude
func (c Constraints) blocklist() []string {
	var terms []string
	for _, tag := range c.Allergies {
		terms = append(terms, allergenKeywords[strings.ToLower(tag)]...)
	}
	for _, tag := range c.Diets {
		terms = append(terms, dietKeywords[strings.ToLower(tag)]...)
	}
	return append(terms, c.Dislikes...)
}

// Allows reports whether name survives every exclusion rule
func (c Constraints) Allows(name string) bool {
	folded := matching.Fold(name)
	for _, term := range c.blocklist() {
		if term != "" && strings.Contains(folded, matching.Fold(term)) {
			return false
		}
	}
	return true
}

// Filter returns the items whose name passes the constraints, keeping input
// order. nameOf extracts the text to test from an item.
func Filter[T any](items []T, c Constraints, nameOf func(T) string) []T {
	terms := c.blocklist()
	if len(terms) == 0 {
		return items
	}

	kept := make([]T, 0, len(items))
	for _, item := range items {
		if c.Allows(nameOf(item)) {
			kept = append(kept, item)
		}
	}
	return kept
}

// KnownAllergy reports whether tag belongs to the allergy taxonomy
func KnownAllergy(tag string) bool {
	_, ok := allergenKeywords[strings.ToLower(tag)]
	return ok
}
