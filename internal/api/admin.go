package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fridgechef/backend/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
	bonusService *service.BonusService
}

func NewAdminHandler(adminService *service.AdminService, bonusService *service.BonusService) *AdminHandler {
	return &AdminHandler{adminService: adminService, bonusService: bonusService}
}

// RegisterRoutes expects a group already guarded by AdminOnly
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.Stats)
	router.GET("/users", h.Users)
	router.GET("/users/:id", h.UserDetail)
	router.GET("/recipes", h.Recipes)
	router.GET("/bonus", h.Bonus)
	router.POST("/bonus/refresh", h.RefreshBonus)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Users answers ?filter=active|incomplete_profile|no_activity
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.adminService.Users(c.Request.Context(), c.Query("filter"))
	if err != nil {
		respondError(c, err, "failed to load users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "filter": c.Query("filter")})
}

func (h *AdminHandler) UserDetail(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.adminService.UserDetail(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdminHandler) Recipes(c *gin.Context) {
	analytics, err := h.adminService.RecipeAnalytics(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load recipe analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

func (h *AdminHandler) Bonus(c *gin.Context) {
	overview, err := h.bonusService.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load bonus items")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// RefreshBonus runs a catalog refresh now and reports how many items were written
func (h *AdminHandler) RefreshBonus(c *gin.Context) {
	adminID, ok := currentUser(c)
	if !ok {
		return
	}

	count := h.adminService.RefreshBonus(c.Request.Context(), adminID, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "bonus catalog refreshed", "count": count})
}
