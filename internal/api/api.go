package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/fridgechef/backend/internal/dietary"
	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// ConstraintProvider resolves the dietary filter for a user
type ConstraintProvider interface {
	Constraints(ctx context.Context, userID uuid.UUID) (dietary.Constraints, error)
}

// Services bundles everything the HTTP layer calls into
type Services struct {
	Auth        service.IAuthService
	Profiles    service.IProfileService
	Constraints ConstraintProvider
	Fridge      *service.FridgeService
	Recipes     *service.RecipeService
	Recommender service.IRecommender
	Shopping    *service.ShoppingService
	Bonus       *service.BonusService
	Dashboard   *service.DashboardService
	Admin       *service.AdminService

	// RecommendationLimiter may be nil; requests are then not limited
	RecommendationLimiter *middleware.RateLimiter
}

// SetupAPI registers every /api/v1 route on the router
func SetupAPI(router *gin.Engine, svc Services) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(svc.Auth))
	{
		NewProfileHandler(svc.Profiles).RegisterRoutes(authed)
		NewFridgeHandler(svc.Fridge).RegisterRoutes(authed)
		NewRecipeHandler(svc.Recipes, svc.Fridge, svc.Recommender, svc.RecommendationLimiter).RegisterRoutes(authed)
		NewShoppingHandler(svc.Shopping, svc.Bonus, svc.Constraints).RegisterRoutes(authed)
		NewDashboardHandler(svc.Dashboard).RegisterRoutes(authed)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(svc.Auth), middleware.AdminOnly())
	NewAdminHandler(svc.Admin, svc.Bonus).RegisterRoutes(admin)
}
