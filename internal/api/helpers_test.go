package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
}

// newTestEnv wires every handler against an in-memory database. A nil
// recommender gets the real engine over the sample recipe source.
func newTestEnv(t *testing.T, recommender service.IRecommender) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, testJWTSecret, time.Hour)
	profiles := service.NewProfileService(db)
	fridge := service.NewFridgeService(db)
	recipes := service.NewRecipeService(db)
	shopping := service.NewShoppingService(db)
	bonus := service.NewBonusService(db, service.NewSampleBonusSource(), nil, time.Second)
	if recommender == nil {
		recommender = service.NewRecommendationEngine(profiles, recipes, service.NewSampleRecipeSource(), nil, service.EngineOptions{})
	}

	router := gin.New()
	SetupAPI(router, Services{
		Auth:        auth,
		Profiles:    profiles,
		Constraints: profiles,
		Fridge:      fridge,
		Recipes:     recipes,
		Recommender: recommender,
		Shopping:    shopping,
		Bonus:       bonus,
		Dashboard:   service.NewDashboardService(fridge, recipes, shopping),
		Admin:       service.NewAdminService(db, bonus),
	})

	return &testEnv{db: db, auth: auth, router: router}
}

// login creates a user and returns it with a bearer token
func (e *testEnv) login(t *testing.T, admin bool) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, e.db)
	if admin {
		require.NoError(t, e.db.Model(user).Update("is_admin", true).Error)
		user.IsAdmin = true
	}
	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
