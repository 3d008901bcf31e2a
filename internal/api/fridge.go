package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/types"
)

type FridgeHandler struct {
	fridgeService *service.FridgeService
}

func NewFridgeHandler(fridgeService *service.FridgeService) *FridgeHandler {
	return &FridgeHandler{fridgeService: fridgeService}
}

func (h *FridgeHandler) RegisterRoutes(router *gin.RouterGroup) {
	fridge := router.Group("/fridge")
	{
		fridge.GET("", h.List)
		fridge.POST("", h.Add)
		fridge.GET("/suggestions", h.Suggestions)
		fridge.PUT("/:id", h.Update)
		fridge.DELETE("/:id", h.Delete)
	}
}

func (h *FridgeHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.fridgeService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to list fridge items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Add stores an item, overwriting quantity and expiry when the name exists
func (h *FridgeHandler) Add(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.FridgeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	item, err := h.fridgeService.Upsert(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "failed to save fridge item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *FridgeHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.FridgeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.fridgeService.Update(c.Request.Context(), userID, itemID, &req); err != nil {
		respondError(c, err, "failed to update fridge item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fridge item updated"})
}

func (h *FridgeHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.fridgeService.Delete(c.Request.Context(), userID, itemID); err != nil {
		respondError(c, err, "failed to delete fridge item")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FridgeHandler) Suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suggestions": service.Suggestions(c.Query("q"))})
}
