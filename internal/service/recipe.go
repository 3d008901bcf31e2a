package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const searchLimit = 20

// RecipeService is the shared recipe catalog plus the per-user
// recommendation and bookmark records that point into it.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &recipe, nil
}

// SaveExternal stores a recipe fetched from an external source. When a
// recipe with the same external id already exists the stored row is left
// untouched and the fetched fields are returned under the existing id.
func (s *RecipeService) SaveExternal(ctx context.Context, detail *RecipeDetail, cuisine string) (*models.Recipe, error) {
	if detail == nil || detail.ExternalID == "" {
		return nil, fmt.Errorf("%w: external recipe without id", ErrInvalidInput)
	}
	recipe := recipeFromDetail(detail, cuisine)

	existing, err := s.findByExternalID(ctx, detail.ExternalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return reuse(recipe, existing), nil
	}

	err = s.db.WithContext(ctx).Create(recipe).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the insert race; the winner's row is authoritative
		existing, err = s.findByExternalID(ctx, detail.ExternalID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("recipe %s vanished after duplicate insert", detail.ExternalID)
		}
		return reuse(recipe, existing), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// SaveGenerated always inserts a new recipe row
func (s *RecipeService) SaveGenerated(ctx context.Context, g *GeneratedRecipe, cuisine string) (*models.Recipe, error) {
	recipe := &models.Recipe{
		Title:        g.Title,
		Description:  g.Description,
		Ingredients:  models.StringList(g.Ingredients),
		Instructions: g.Instructions,
		PrepTime:     g.PrepTime,
		CookTime:     g.CookTime,
		Servings:     g.Servings,
		Difficulty:   g.Difficulty,
		CuisineType:  cuisine,
		ImageURL:     g.ImageURL,
		SourceURL:    models.SourceGenerated,
	}
	recipe.Embedding = recipeEmbedding(recipe)
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create generated recipe: %w", err)
	}
	return recipe, nil
}

// RecordRecommendation inserts a recommendation unless the user already has
// an unrated one for this recipe. It reports whether a row was created.
func (s *RecipeService) RecordRecommendation(ctx context.Context, userID, recipeID uuid.UUID, reason string) (bool, error) {
	var open int64
	err := s.db.WithContext(ctx).Model(&models.Recommendation{}).
		Where("user_id = ? AND recipe_id = ? AND user_rating IS NULL", userID, recipeID).
		Count(&open).Error
	if err != nil {
		return false, fmt.Errorf("failed to check recommendation: %w", err)
	}
	if open > 0 {
		return false, nil
	}

	rec := models.Recommendation{
		UserID:        userID,
		RecipeID:      recipeID,
		Reason:        reason,
		RecommendedAt: time.Now(),
	}
	err = s.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logger.Debug("Recommendation already recorded concurrently",
			zap.String("user_id", userID.String()),
			zap.String("recipe_id", recipeID.String()))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to record recommendation: %w", err)
	}
	return true, nil
}

// Rate sets the rating and feedback on the user's most recent
// recommendation of the recipe.
func (s *RecipeService) Rate(ctx context.Context, userID, recipeID uuid.UUID, rating int, feedback string) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	var rec models.Recommendation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Order("recommended_at DESC").
		First(&rec).Error
	if err != nil {
		return notFound(err)
	}

	return s.db.WithContext(ctx).Model(&rec).Updates(map[string]interface{}{
		"user_rating":   rating,
		"user_feedback": feedback,
	}).Error
}

// ListRecommendations returns the user's newest recommendations with their recipes
func (s *RecipeService) ListRecommendations(ctx context.Context, userID uuid.UUID, limit int) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", userID).
		Order("recommended_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// IsSaved reports whether the user bookmarked the recipe
func (s *RecipeService) IsSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// ToggleSaved flips the bookmark and returns the new state
func (s *RecipeService) ToggleSaved(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return false, err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to unsave recipe: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := s.db.WithContext(ctx).Create(&models.SavedRecipe{UserID: userID, RecipeID: recipeID}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return false, fmt.Errorf("failed to save recipe: %w", err)
	}
	return true, nil
}

// ListSaved returns the user's bookmarks, newest first
func (s *RecipeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]models.SavedRecipe, error) {
	var saved []models.SavedRecipe
	err := s.db.WithContext(ctx).Preload("Recipe").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	return saved, nil
}

// Search matches q against title and description and filters by cuisine and
// difficulty. On postgres a non-empty q ranks by embedding distance.
func (s *RecipeService) Search(ctx context.Context, q, cuisine, difficulty string) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	q = strings.TrimSpace(q)
	if q != "" {
		like := containsPattern(strings.ToLower(q))
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(q)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		}
	}
	if cuisine != "" {
		query = query.Where("cuisine_type = ?", cuisine)
	}
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}

	var recipes []models.Recipe
	if err := query.Order("title").Limit(searchLimit).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) findByExternalID(ctx context.Context, externalID string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipe %s: %w", externalID, err)
	}
	return &recipe, nil
}

func recipeFromDetail(d *RecipeDetail, cuisine string) *models.Recipe {
	externalID := d.ExternalID
	recipe := &models.Recipe{
		ExternalID:   &externalID,
		Title:        d.Title,
		Description:  d.Summary,
		Ingredients:  models.StringList(d.IngredientLines),
		Instructions: d.Instructions,
		PrepTime:     d.PrepMinutes,
		CookTime:     d.CookMinutes,
		Servings:     d.Servings,
		Difficulty:   "medium",
		CuisineType:  cuisine,
		ImageURL:     d.ImageURL,
		SourceURL:    d.SourceURL,
	}
	recipe.Embedding = recipeEmbedding(recipe)
	return recipe
}

// reuse gives freshly fetched fields the identity of the stored row
func reuse(fetched, stored *models.Recipe) *models.Recipe {
	fetched.Base = stored.Base
	return fetched
}
