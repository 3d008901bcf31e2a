package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

const shoppingListLimit = 50

type ShoppingHandler struct {
	shoppingService *service.ShoppingService
	bonusService    *service.BonusService
	constraints     ConstraintProvider
}

func NewShoppingHandler(shoppingService *service.ShoppingService, bonusService *service.BonusService, constraints ConstraintProvider) *ShoppingHandler {
	return &ShoppingHandler{
		shoppingService: shoppingService,
		bonusService:    bonusService,
		constraints:     constraints,
	}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	shopping := router.Group("/shopping")
	{
		shopping.GET("/lists", h.Lists)
		shopping.GET("/lists/:id", h.GetList)
		shopping.POST("/lists/from-recipe/:recipeId", h.FromRecipe)
		shopping.PUT("/items/:id/toggle", h.ToggleItem)
		shopping.GET("/bonus-recommendations", h.BonusRecommendations)
		shopping.POST("/add-bonus", h.AddBonus)
	}
}

func (h *ShoppingHandler) Lists(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	lists, err := h.shoppingService.Lists(c.Request.Context(), userID, shoppingListLimit)
	if err != nil {
		respondError(c, err, "failed to list shopping lists")
		return
	}

	c.JSON(http.StatusOK, gin.H{"shopping_lists": lists})
}

func (h *ShoppingHandler) GetList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}

	list, err := h.shoppingService.GetList(c.Request.Context(), userID, listID)
	if err != nil {
		respondError(c, err, "failed to get shopping list")
		return
	}

	c.JSON(http.StatusOK, list)
}

// FromRecipe creates a list of the recipe ingredients missing from the fridge.
// A partially built list is still returned, with the failed items and a 500.
func (h *ShoppingHandler) FromRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipeID, ok := pathID(c, "recipeId")
	if !ok {
		return
	}

	result, err := h.shoppingService.CreateFromRecipe(c.Request.Context(), userID, recipeID)
	if errors.Is(err, service.ErrPartialShoppingList) {
		logger.Error("Shopping list created with missing items",
			zap.String("shopping_list_id", result.ShoppingListID.String()),
			zap.Strings("failed", result.Failed),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
		return
	}
	if err != nil {
		respondError(c, err, "failed to create shopping list")
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ShoppingHandler) ToggleItem(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	purchased, err := h.shoppingService.ToggleItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err, "failed to toggle item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_purchased": purchased})
}

// BonusRecommendations lists current discounts the user's profile allows
func (h *ShoppingHandler) BonusRecommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	constraints, err := h.constraints.Constraints(ctx, userID)
	if err != nil {
		respondError(c, err, "failed to load profile")
		return
	}
	items, err := h.bonusService.Recommendations(ctx, constraints)
	if err != nil {
		respondError(c, err, "failed to load bonus items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bonus_items": items})
}

func (h *ShoppingHandler) AddBonus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AddBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bonusID := uuid.MustParse(req.BonusItemID)
	var listID *uuid.UUID
	if req.ShoppingListID != "" {
		id := uuid.MustParse(req.ShoppingListID)
		listID = &id
	}

	item, err := h.shoppingService.AddBonus(c.Request.Context(), userID, bonusID, listID)
	if err != nil {
		respondError(c, err, "failed to add bonus item")
		return
	}

	c.JSON(http.StatusCreated, item)
}
