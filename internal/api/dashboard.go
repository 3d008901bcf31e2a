package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fridgechef/backend/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.GetDashboard)
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
