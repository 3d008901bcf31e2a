package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

const (
	SourceSpoonacular = "spoonacular"
	SourceGenerated   = "AI Generated"
)

// Recipe is a catalog entry shared by all users. ExternalID is set for
// recipes from the external search API and is their only dedup key.
type Recipe struct {
	Base
	ExternalID   *string          `gorm:"size:64;uniqueIndex" json:"external_id,omitempty"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  StringList       `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions string           `gorm:"type:text" json:"instructions"`
	PrepTime     int              `json:"prep_time"`
	CookTime     int              `json:"cook_time"`
	Servings     int              `json:"servings"`
	Difficulty   string           `gorm:"size:20" json:"difficulty"`
	CuisineType  string           `gorm:"size:100" json:"cuisine_type"`
	DietType     StringList       `gorm:"type:jsonb;not null;default:'[]'" json:"diet_type"`
	ImageURL     string           `gorm:"size:500" json:"image_url"`
	SourceURL    string           `gorm:"size:500" json:"source_url"`
	Embedding    *pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

// Recommendation records that a recipe was suggested to a user. Only one
// unrated row may exist per (user, recipe); rated rows are history.
type Recommendation struct {
	Base
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_open_recommendation,where:user_rating IS NULL" json:"user_id"`
	RecipeID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_open_recommendation,where:user_rating IS NULL;index" json:"recipe_id"`
	Recipe        *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	Reason        string    `gorm:"type:text" json:"reason"`
	UserRating    *int      `json:"user_rating,omitempty"`
	UserFeedback  string    `gorm:"type:text" json:"user_feedback,omitempty"`
	RecommendedAt time.Time `gorm:"not null;index" json:"recommended_at"`
}

func (Recommendation) TableName() string {
	return "recipe_recommendations"
}

// SavedRecipe is a (user, recipe) bookmark toggle
type SavedRecipe struct {
	Base
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
	RecipeID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_recipe" json:"recipe_id"`
	Recipe   *Recipe   `gorm:"constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	Notes    string    `gorm:"type:text" json:"notes,omitempty"`
}
