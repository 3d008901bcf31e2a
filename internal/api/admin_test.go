package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t, false)

	for _, path := range []string{"/api/v1/admin/stats", "/api/v1/admin/users", "/api/v1/admin/recipes", "/api/v1/admin/bonus"} {
		w := env.do(t, http.MethodGet, path, nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}
	w := env.do(t, http.MethodPost, "/api/v1/admin/bonus/refresh", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t, true)
	testhelpers.CreateUser(t, env.db)
	testhelpers.CreateRecipe(t, env.db, "Bami", "Mie")

	w := env.do(t, http.MethodGet, "/api/v1/admin/stats", nil, token)
	requireStatus(t, w, http.StatusOK)
	var stats service.AdminStats
	decode(t, w, &stats)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalRecipes)
	assert.Len(t, stats.RecentUsers, 2)

	w = env.do(t, http.MethodGet, "/api/v1/admin/recipes", nil, token)
	requireStatus(t, w, http.StatusOK)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t, true)
	member := testhelpers.CreateUser(t, env.db)
	testhelpers.AddFridgeItems(t, env.db, member.ID, "Melk")

	w := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, token)
	requireStatus(t, w, http.StatusOK)
	var listed struct {
		Users []service.UserSummary `json:"users"`
	}
	decode(t, w, &listed)
	assert.Len(t, listed.Users, 2)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users?filter=no_activity", nil, token)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &listed)
	assert.Len(t, listed.Users, 2)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users?filter=everyone", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users/"+member.ID.String(), nil, token)
	requireStatus(t, w, http.StatusOK)
	var detail service.UserDetail
	decode(t, w, &detail)
	assert.Equal(t, member.Email, detail.User.Email)
	require.Len(t, detail.FridgeItems, 1)
	assert.Equal(t, "Melk", detail.FridgeItems[0].Name)
	assert.Nil(t, detail.Profile)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users/"+uuid.NewString(), nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/admin/users/not-a-uuid", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminBonusRefresh(t *testing.T) {
	env := newTestEnv(t, nil)
	admin, token := env.login(t, true)

	w := env.do(t, http.MethodPost, "/api/v1/admin/bonus/refresh", nil, token)
	requireStatus(t, w, http.StatusOK)
	var refreshed struct {
		Count int `json:"count"`
	}
	decode(t, w, &refreshed)
	assert.Equal(t, 5, refreshed.Count)

	var activity models.AdminActivity
	require.NoError(t, env.db.Where("admin_user_id = ?", admin.ID).First(&activity).Error)
	assert.Equal(t, "bonus_refresh", activity.Action)

	w = env.do(t, http.MethodGet, "/api/v1/admin/bonus", nil, token)
	requireStatus(t, w, http.StatusOK)
	var overview service.BonusOverview
	decode(t, w, &overview)
	assert.Equal(t, 5, overview.Total)
	assert.Len(t, overview.Items, 5)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, nil)
	user, token := env.login(t, false)
	testhelpers.AddFridgeItems(t, env.db, user.ID, "a1", "a2", "a3", "a4", "a5", "a6")

	w := env.do(t, http.MethodGet, "/api/v1/dashboard", nil, token)
	requireStatus(t, w, http.StatusOK)
	var dashboard service.Dashboard
	decode(t, w, &dashboard)
	assert.Len(t, dashboard.FridgeItems, 5)
	assert.Empty(t, dashboard.Recommendations)
	assert.Empty(t, dashboard.ShoppingLists)
}
