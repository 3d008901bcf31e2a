package service

import (
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/fridgechef/backend/internal/matching"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const dutchVowels = "aeiouyáéëïóöü"

// GenerateEmbedding returns a deterministic three-dimensional embedding of
// text: letter count, vowel count and consonant count after case folding.
func GenerateEmbedding(text string) pgvector.Vector {
	var letters, vowels float32
	for _, r := range matching.Fold(text) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if strings.ContainsRune(dutchVowels, r) {
			vowels++
		}
	}
	return pgvector.NewVector([]float32{letters, vowels, letters - vowels})
}

// recipeEmbedding embeds the searchable text of a recipe
func recipeEmbedding(r *models.Recipe) *pgvector.Vector {
	vec := GenerateEmbedding(r.Title + " " + r.Description)
	return &vec
}
