package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const (
	activeUserWindow   = 30 * 24 * time.Hour
	recentUserLimit    = 10
	recipeRankingLimit = 20
	minRatingsForRank  = 2
)

// User list filters
const (
	UserFilterActive            = "active"
	UserFilterIncompleteProfile = "incomplete_profile"
	UserFilterNoActivity        = "no_activity"
)

// AdminService backs the administrative analytics panel
type AdminService struct {
	db        *gorm.DB
	refresher IBonusRefresher
}

func NewAdminService(db *gorm.DB, refresher IBonusRefresher) *AdminService {
	return &AdminService{db: db, refresher: refresher}
}

// AdminStats is the usage overview
type AdminStats struct {
	TotalUsers        int64         `json:"total_users"`
	ActiveUsers       int64         `json:"active_users"`
	CompletedProfiles int64         `json:"completed_profiles"`
	TotalRecipes      int64         `json:"total_recipes"`
	Recommendations   int64         `json:"total_recommendations"`
	ValidBonusItems   int64         `json:"valid_bonus_items"`
	RecentUsers       []models.User `json:"recent_users"`
}

// Stats runs the overview queries concurrently
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			q := s.db.WithContext(gctx).Model(model)
			if query != "" {
				q = q.Where(query, args...)
			}
			return q.Count(dst).Error
		})
	}

	count(&stats.TotalUsers, &models.User{}, "")
	count(&stats.ActiveUsers, &models.User{}, "last_login >= ?", time.Now().Add(-activeUserWindow))
	count(&stats.CompletedProfiles, &models.User{}, "profile_completed = ?", true)
	count(&stats.TotalRecipes, &models.Recipe{}, "")
	count(&stats.Recommendations, &models.Recommendation{}, "")
	count(&stats.ValidBonusItems, &models.BonusItem{}, "valid_until >= ?", datatypes.Date(time.Now()))
	g.Go(func() error {
		return s.db.WithContext(gctx).Order("created_at DESC").Limit(recentUserLimit).Find(&stats.RecentUsers).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect admin stats: %w", err)
	}
	return stats, nil
}

// RecipeStat is one row of the recipe rankings
type RecipeStat struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	RecommendationCount int64     `json:"recommendation_count"`
	RatingCount         int64     `json:"rating_count"`
	AverageRating       float64   `json:"average_rating"`
}

// RecipeAnalytics holds the two recipe rankings
type RecipeAnalytics struct {
	MostRecommended []RecipeStat `json:"most_recommended"`
	BestRated       []RecipeStat `json:"best_rated"`
}

func (s *AdminService) RecipeAnalytics(ctx context.Context) (*RecipeAnalytics, error) {
	base := func() *gorm.DB {
		return s.db.WithContext(ctx).Table("recipes").
			Select("recipes.id, recipes.title, COUNT(rr.id) AS recommendation_count, COUNT(rr.user_rating) AS rating_count, COALESCE(AVG(rr.user_rating), 0) AS average_rating").
			Joins("JOIN recipe_recommendations rr ON rr.recipe_id = recipes.id").
			Group("recipes.id, recipes.title")
	}

	out := &RecipeAnalytics{MostRecommended: []RecipeStat{}, BestRated: []RecipeStat{}}
	if err := base().Order("recommendation_count DESC").Limit(recipeRankingLimit).Scan(&out.MostRecommended).Error; err != nil {
		return nil, fmt.Errorf("failed to rank recommended recipes: %w", err)
	}
	err := base().
		Where("rr.user_rating IS NOT NULL").
		Having("COUNT(rr.user_rating) >= ?", minRatingsForRank).
		Order("average_rating DESC").
		Limit(recipeRankingLimit).
		Scan(&out.BestRated).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank rated recipes: %w", err)
	}
	return out, nil
}

// RefreshBonus runs the catalog refresher on demand and logs the action
func (s *AdminService) RefreshBonus(ctx context.Context, adminID uuid.UUID, ip string) int {
	written := s.refresher.Refresh(ctx)

	activity := models.AdminActivity{
		AdminUserID: adminID,
		Action:      "bonus_refresh",
		Description: fmt.Sprintf("Bonus catalog refreshed, %d items written", written),
		IPAddress:   ip,
	}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		logger.Error("Failed to record admin activity",
			zap.String("admin_id", adminID.String()),
			zap.Error(err))
	}
	return written
}

// UserSummary is one row of the user management list
type UserSummary struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	IsAdmin             bool       `json:"is_admin"`
	ProfileCompleted    bool       `json:"profile_completed"`
	LastLogin           *time.Time `json:"last_login,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	DietGoal            string     `json:"diet_goal"`
	RecommendationCount int64      `json:"recommendation_count"`
	ShoppingListCount   int64      `json:"shopping_list_count"`
}

// Users lists users newest first with their activity counts. filter is empty
// or one of the UserFilter constants.
func (s *AdminService) Users(ctx context.Context, filter string) ([]UserSummary, error) {
	query := s.db.WithContext(ctx).Table("users").
		Select(`users.id, users.name, users.email, users.is_admin, users.profile_completed, users.last_login, users.created_at,
			COALESCE(up.diet_goal, '') AS diet_goal,
			(SELECT COUNT(*) FROM recipe_recommendations rr WHERE rr.user_id = users.id) AS recommendation_count,
			(SELECT COUNT(*) FROM shopping_lists sl WHERE sl.user_id = users.id) AS shopping_list_count`).
		Joins("LEFT JOIN user_profiles up ON up.user_id = users.id")

	switch filter {
	case "":
	case UserFilterActive:
		query = query.Where("users.last_login >= ?", time.Now().Add(-activeUserWindow))
	case UserFilterIncompleteProfile:
		query = query.Where("users.profile_completed = ?", false)
	case UserFilterNoActivity:
		query = query.Where("NOT EXISTS (SELECT 1 FROM recipe_recommendations rr WHERE rr.user_id = users.id)")
	default:
		return nil, fmt.Errorf("%w: unknown user filter %q", ErrInvalidInput, filter)
	}

	users := []UserSummary{}
	if err := query.Order("users.created_at DESC").Scan(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UserDetail is everything the admin panel shows for a single user
type UserDetail struct {
	User            models.User             `json:"user"`
	Profile         *models.UserProfile     `json:"profile"`
	Recommendations []models.Recommendation `json:"recommendations"`
	ShoppingLists   []models.ShoppingList   `json:"shopping_lists"`
	FridgeItems     []models.FridgeItem     `json:"fridge_items"`
}

func (s *AdminService) UserDetail(ctx context.Context, userID uuid.UUID) (*UserDetail, error) {
	detail := &UserDetail{
		Recommendations: []models.Recommendation{},
		ShoppingLists:   []models.ShoppingList{},
		FridgeItems:     []models.FridgeItem{},
	}
	if err := s.db.WithContext(ctx).First(&detail.User, "id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var profile models.UserProfile
		err := s.db.WithContext(gctx).Where("user_id = ?", userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		detail.Profile = &profile
		return nil
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Preload("Recipe").
			Where("user_id = ?", userID).
			Order("recommended_at DESC").
			Find(&detail.Recommendations).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Model(&models.ShoppingList{}).
			Select("shopping_lists.*, (SELECT COUNT(*) FROM shopping_list_items WHERE shopping_list_items.shopping_list_id = shopping_lists.id) AS item_count").
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&detail.ShoppingLists).Error
	})
	g.Go(func() error {
		return s.db.WithContext(gctx).Where("user_id = ?", userID).Order("name").Find(&detail.FridgeItems).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return detail, nil
}
