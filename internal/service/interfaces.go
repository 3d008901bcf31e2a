package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// RecipeQuery is the search input sent to an external recipe source
type RecipeQuery struct {
	Ingredients  []string
	Diet         string
	Cuisine      string
	Intolerances []string
	Limit        int
}

// RecipeCandidate is a search hit before its detail is fetched
type RecipeCandidate struct {
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	UsedCount   int    `json:"used_count"`
	MissedCount int    `json:"missed_count"`
}

// RecipeDetail is the full recipe as returned by an external source
type RecipeDetail struct {
	ExternalID      string
	Title           string
	Summary         string
	IngredientLines []string
	Instructions    string
	PrepMinutes     int
	CookMinutes     int
	Servings        int
	ImageURL        string
	SourceURL       string
}

// RecipeSource searches an external recipe catalog. Detail returns nil, nil
// when the recipe does not exist. Implementations must turn malformed
// upstream data into "no result" instead of an error.
type RecipeSource interface {
	Search(ctx context.Context, q RecipeQuery) ([]RecipeCandidate, error)
	Detail(ctx context.Context, externalID string) (*RecipeDetail, error)
}

// GenerationRequest is everything a generated recipe is conditioned on
type GenerationRequest struct {
	Ingredients []string
	Cuisines    []string
	Diets       []string
	Allergies   []string
	Dislikes    string
}

// GeneratedRecipe is the uniform output of a generative provider
type GeneratedRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	Servings     int      `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	ImageURL     string   `json:"image_url,omitempty"`
}

// RecipeGenerator synthesizes a recipe. Callers fall back to TemplateRecipe
// on any error.
type RecipeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedRecipe, error)
}

// BonusOffer is one discount item as delivered by a bonus source
type BonusOffer struct {
	ProductID          string    `json:"product_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	OriginalPrice      float64   `json:"original_price"`
	BonusPrice         float64   `json:"bonus_price"`
	DiscountPercentage int       `json:"discount_percentage"`
	Category           string    `json:"category"`
	Brand              string    `json:"brand"`
	ImageURL           string    `json:"image_url"`
	ValidFrom          time.Time `json:"valid_from"`
	ValidUntil         time.Time `json:"valid_until"`
}

// BonusSource fetches the current discount catalog
type BonusSource interface {
	FetchCurrent(ctx context.Context) ([]BonusOffer, error)
}

// BonusArchive stores a copy of each fetched catalog
type BonusArchive interface {
	Store(ctx context.Context, fetchedAt time.Time, offers []BonusOffer) error
}

// SearchCache caches external search results
type SearchCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, userID uuid.UUID, req *types.ProfileRequest) (*models.UserProfile, error)
}

// IRecommender produces recipe recommendations from a user's fridge
type IRecommender interface {
	Recommend(ctx context.Context, userID uuid.UUID, fridge []models.FridgeItem) ([]models.Recipe, error)
}

// IBonusRefresher replaces the bonus catalog and reports how many items were written
type IBonusRefresher interface {
	Refresh(ctx context.Context) int
}
