package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/fridgechef/backend/internal/models"
)

const dashboardLimit = 5

// Dashboard is the per-user landing page summary
type Dashboard struct {
	FridgeItems     []models.FridgeItem     `json:"fridge_items"`
	Recommendations []models.Recommendation `json:"recent_recommendations"`
	ShoppingLists   []models.ShoppingList   `json:"shopping_lists"`
}

// DashboardService aggregates the newest rows of the user's collections
type DashboardService struct {
	fridge   *FridgeService
	recipes  *RecipeService
	shopping *ShoppingService
}

func NewDashboardService(fridge *FridgeService, recipes *RecipeService, shopping *ShoppingService) *DashboardService {
	return &DashboardService{fridge: fridge, recipes: recipes, shopping: shopping}
}

func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.fridge.List(gctx, userID)
		if len(items) > dashboardLimit {
			items = items[:dashboardLimit]
		}
		d.FridgeItems = items
		return err
	})
	g.Go(func() error {
		recs, err := s.recipes.ListRecommendations(gctx, userID, dashboardLimit)
		d.Recommendations = recs
		return err
	})
	g.Go(func() error {
		lists, err := s.shopping.Lists(gctx, userID, 3)
		d.ShoppingLists = lists
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return d, nil
}
