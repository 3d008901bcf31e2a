package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fridgechef/backend/internal/middleware"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

const emptyFridgeMessage = "Voeg eerst ingrediënten toe aan je koelkast om receptaanbevelingen te krijgen"

type RecipeHandler struct {
	recipeService *service.RecipeService
	fridgeService *service.FridgeService
	recommender   service.IRecommender
	limiter       *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, fridgeService *service.FridgeService, recommender service.IRecommender, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		fridgeService: fridgeService,
		recommender:   recommender,
		limiter:       limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		if h.limiter != nil {
			recipes.GET("/recommendations", h.limiter.RateLimitMiddleware(), h.Recommendations)
		} else {
			recipes.GET("/recommendations", h.Recommendations)
		}
		recipes.GET("/saved", h.ListSaved)
		recipes.GET("/search", h.Search)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("/:id/save", h.ToggleSave)
		recipes.POST("/:id/rate", h.Rate)
	}
}

// Recommendations runs the engine over the user's fridge. An empty fridge is
// answered with a hint instead of calling the engine.
func (h *RecipeHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	fridge, err := h.fridgeService.List(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load fridge")
		return
	}
	if len(fridge) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": emptyFridgeMessage,
			"recipes": []models.Recipe{},
		})
		return
	}

	recipes, err := h.recommender.Recommend(ctx, userID, fridge)
	if err != nil {
		respondError(c, err, "failed to get recommendations")
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes":      recipes,
		"fridge_items": fridge,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipe, err := h.recipeService.GetRecipe(ctx, recipeID)
	if err != nil {
		respondError(c, err, "failed to get recipe")
		return
	}
	saved, err := h.recipeService.IsSaved(ctx, userID, recipeID)
	if err != nil {
		respondError(c, err, "failed to get recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe, "is_saved": saved})
}

func (h *RecipeHandler) ToggleSave(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	saved, err := h.recipeService.ToggleSaved(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err, "failed to save recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (h *RecipeHandler) ListSaved(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	saved, err := h.recipeService.ListSaved(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list saved recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved_recipes": saved})
}

// Rate sets the rating on the user's most recent recommendation of the recipe
func (h *RecipeHandler) Rate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.recipeService.Rate(c.Request.Context(), userID, recipeID, req.Rating, req.Feedback); err != nil {
		respondError(c, err, "failed to rate recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating saved"})
}

func (h *RecipeHandler) Search(c *gin.Context) {
	recipes, err := h.recipeService.Search(c.Request.Context(), c.Query("q"), c.Query("cuisine"), c.Query("difficulty"))
	if err != nil {
		respondError(c, err, "failed to search recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
