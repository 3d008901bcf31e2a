package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const (
	maxCuisineQueries       = 2
	candidatesPerCuisine    = 3
	maxRecommendations      = 5
	defaultSourceTimeout    = 10 * time.Second
	defaultGeneratorTimeout = 30 * time.Second
)

// EngineOptions bounds every external call the engine makes
type EngineOptions struct {
	SourceTimeout    time.Duration
	GeneratorTimeout time.Duration
}

// RecommendationEngine turns a user's fridge into at most five stored recipes,
// falling back to a generated recipe when the external source has nothing.
type RecommendationEngine struct {
	profiles  *ProfileService
	recipes   *RecipeService
	source    RecipeSource
	generator RecipeGenerator
	opts      EngineOptions
}

var _ IRecommender = (*RecommendationEngine)(nil)

// NewRecommendationEngine wires the engine. generator may be nil, in which
// case the template recipe is always used for the fallback.
func NewRecommendationEngine(profiles *ProfileService, recipes *RecipeService, source RecipeSource, generator RecipeGenerator, opts EngineOptions) *RecommendationEngine {
	if opts.SourceTimeout <= 0 {
		opts.SourceTimeout = defaultSourceTimeout
	}
	if opts.GeneratorTimeout <= 0 {
		opts.GeneratorTimeout = defaultGeneratorTimeout
	}
	return &RecommendationEngine{
		profiles:  profiles,
		recipes:   recipes,
		source:    source,
		generator: generator,
		opts:      opts,
	}
}

type rankedRecipe struct {
	recipe *models.Recipe
	used   int
}

// Recommend returns up to five recipes for the fridge contents and records a
// recommendation for each one the user has no open recommendation for.
// Provider failures are logged and absorbed; only store errors are returned.
func (e *RecommendationEngine) Recommend(ctx context.Context, userID uuid.UUID, fridge []models.FridgeItem) ([]models.Recipe, error) {
	profile, err := e.profiles.FindProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		profile = &models.UserProfile{}
	}

	ingredients := make([]string, 0, len(fridge))
	for _, item := range fridge {
		ingredients = append(ingredients, item.Name)
	}

	ranked, err := e.searchExternal(ctx, ingredients, profile)
	if err != nil {
		return nil, err
	}

	if len(ranked) == 0 {
		generated, err := e.generate(ctx, ingredients, profile)
		if err != nil {
			return nil, err
		}
		ranked = []rankedRecipe{{recipe: generated}}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].used > ranked[j].used })
	if len(ranked) > maxRecommendations {
		ranked = ranked[:maxRecommendations]
	}

	reason := "Based on ingredients: " + strings.Join(ingredients, ", ")
	out := make([]models.Recipe, 0, len(ranked))
	for _, r := range ranked {
		if _, err := e.recipes.RecordRecommendation(ctx, userID, r.recipe.ID, reason); err != nil {
			return nil, err
		}
		out = append(out, *r.recipe)
	}

	logger.Info("Recommendations produced",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(out)))
	return out, nil
}

// searchExternal queries the source for the first two cuisine preferences
// and persists every detailed hit, deduplicated by stored id.
func (e *RecommendationEngine) searchExternal(ctx context.Context, ingredients []string, profile *models.UserProfile) ([]rankedRecipe, error) {
	if e.source == nil || len(ingredients) == 0 {
		return nil, nil
	}

	cuisines := profile.CuisinePreferences
	if len(cuisines) > maxCuisineQueries {
		cuisines = cuisines[:maxCuisineQueries]
	}
	var diet string
	if len(profile.DietPreferences) > 0 {
		diet = profile.DietPreferences[0]
	}

	var ranked []rankedRecipe
	seen := make(map[uuid.UUID]bool)
	for _, cuisine := range cuisines {
		candidates, err := e.search(ctx, RecipeQuery{
			Ingredients:  ingredients,
			Diet:         diet,
			Cuisine:      cuisine,
			Intolerances: profile.Allergies,
			Limit:        candidatesPerCuisine,
		})
		if err != nil {
			logger.Warn("Recipe source search failed",
				zap.String("provider", "recipe_source"),
				zap.String("cuisine", cuisine),
				zap.Error(err))
			continue
		}

		for _, c := range candidates {
			detail, err := e.detail(ctx, c.ExternalID)
			if err != nil {
				logger.Warn("Recipe source detail failed",
					zap.String("provider", "recipe_source"),
					zap.String("external_id", c.ExternalID),
					zap.Error(err))
				continue
			}
			if detail == nil {
				continue
			}

			recipe, err := e.recipes.SaveExternal(ctx, detail, cuisine)
			if err != nil {
				return nil, err
			}
			if seen[recipe.ID] {
				continue
			}
			seen[recipe.ID] = true
			ranked = append(ranked, rankedRecipe{recipe: recipe, used: c.UsedCount})
		}
	}
	return ranked, nil
}

func (e *RecommendationEngine) search(ctx context.Context, q RecipeQuery) ([]RecipeCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.SourceTimeout)
	defer cancel()
	return e.source.Search(ctx, q)
}

func (e *RecommendationEngine) detail(ctx context.Context, externalID string) (*RecipeDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.SourceTimeout)
	defer cancel()
	return e.source.Detail(ctx, externalID)
}

// generate asks the generator for one recipe and stores it. Any generator
// failure degrades to the template recipe.
func (e *RecommendationEngine) generate(ctx context.Context, ingredients []string, profile *models.UserProfile) (*models.Recipe, error) {
	req := GenerationRequest{
		Ingredients: ingredients,
		Cuisines:    profile.CuisinePreferences,
		Diets:       profile.DietPreferences,
		Allergies:   profile.Allergies,
		Dislikes:    profile.Dislikes,
	}

	var generated *GeneratedRecipe
	if e.generator != nil {
		gctx, cancel := context.WithTimeout(ctx, e.opts.GeneratorTimeout)
		g, err := e.generator.Generate(gctx, req)
		cancel()
		if err != nil {
			logger.Warn("Recipe generation failed, using template",
				zap.String("provider", "generator"),
				zap.Error(err))
		} else {
			generated = g
		}
	}
	if generated == nil {
		generated = TemplateRecipe(ingredients)
	}

	var cuisine string
	if len(profile.CuisinePreferences) > 0 {
		cuisine = profile.CuisinePreferences[0]
	}
	return e.recipes.SaveGenerated(ctx, generated, cuisine)
}
