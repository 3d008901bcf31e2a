package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
	"github.com/pageza/fridgechef/backend/internal/types"
)

func TestShoppingListFromRecipe(t *testing.T) {
	env := newTestEnv(t, nil)
	user, token := env.login(t, false)
	_, otherToken := env.login(t, false)
	testhelpers.AddFridgeItems(t, env.db, user.ID, "aardappelen")
	testhelpers.CreateBonusItem(t, env.db, "AH-1", "AH Rookworst", 2.49, 25, 7)
	recipe := testhelpers.CreateRecipe(t, env.db, "Stamppot", "1 kg Aardappelen", "Boerenkool", "Rookworst")

	w := env.do(t, http.MethodPost, "/api/v1/shopping/lists/from-recipe/"+recipe.ID.String(), nil, token)
	requireStatus(t, w, http.StatusCreated)
	var result service.ShoppingListResult
	decode(t, w, &result)
	assert.Equal(t, 2, result.MissingCount)
	assert.Equal(t, []string{"Boerenkool", "Rookworst"}, result.Missing)

	listPath := "/api/v1/shopping/lists/" + result.ShoppingListID.String()
	w = env.do(t, http.MethodGet, listPath, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, listPath, nil, token)
	requireStatus(t, w, http.StatusOK)
	var list models.ShoppingList
	decode(t, w, &list)
	require.Len(t, list.Items, 2)
	assert.Nil(t, list.Items[0].BonusItem)
	require.NotNil(t, list.Items[1].BonusItem)
	assert.Equal(t, "AH Rookworst", list.Items[1].BonusItem.Name)

	toggle := "/api/v1/shopping/items/" + list.Items[0].ID.String() + "/toggle"
	w = env.do(t, http.MethodPut, toggle, nil, otherToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPut, toggle, nil, token)
	requireStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"is_purchased":true}`, w.Body.String())

	var lists struct {
		ShoppingLists []models.ShoppingList `json:"shopping_lists"`
	}
	w = env.do(t, http.MethodGet, "/api/v1/shopping/lists", nil, token)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &lists)
	require.Len(t, lists.ShoppingLists, 1)
	assert.Equal(t, int64(2), lists.ShoppingLists[0].ItemCount)
}

func TestShoppingListFromUnknownRecipe(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t, false)

	w := env.do(t, http.MethodPost, "/api/v1/shopping/lists/from-recipe/00000000-0000-0000-0000-000000000000", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddBonusToList(t *testing.T) {
	env := newTestEnv(t, nil)
	_, token := env.login(t, false)
	bonus := testhelpers.CreateBonusItem(t, env.db, "AH-2", "AH Halfvolle Melk", 0.99, 20, 7)

	w := env.do(t, http.MethodPost, "/api/v1/shopping/add-bonus", types.AddBonusRequest{BonusItemID: "nope"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := types.AddBonusRequest{BonusItemID: bonus.ID.String()}
	w = env.do(t, http.MethodPost, "/api/v1/shopping/add-bonus", req, token)
	requireStatus(t, w, http.StatusCreated)
	var item models.ShoppingListItem
	decode(t, w, &item)
	assert.Equal(t, "AH Halfvolle Melk", item.IngredientName)

	var list models.ShoppingList
	require.NoError(t, env.db.First(&list, "id = ?", item.ShoppingListID).Error)
	assert.Equal(t, "Bonus Boodschappen", list.Name)

	w = env.do(t, http.MethodPost, "/api/v1/shopping/add-bonus", req, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBonusRecommendationsFollowProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	user, token := env.login(t, false)
	testhelpers.CreateBonusItem(t, env.db, "AH-3", "AH Kipfilet", 5.99, 30, 7)
	testhelpers.CreateBonusItem(t, env.db, "AH-4", "AH Broccoli", 1.29, 15, 7)

	var resp struct {
		BonusItems []models.BonusItem `json:"bonus_items"`
	}
	w := env.do(t, http.MethodGet, "/api/v1/shopping/bonus-recommendations", nil, token)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	require.Len(t, resp.BonusItems, 2)
	assert.Equal(t, "AH Kipfilet", resp.BonusItems[0].Name)

	testhelpers.CreateProfile(t, env.db, user.ID, models.UserProfile{DietPreferences: models.StringList{"vegetarian"}})
	w = env.do(t, http.MethodGet, "/api/v1/shopping/bonus-recommendations", nil, token)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	require.Len(t, resp.BonusItems, 1)
	assert.Equal(t, "AH Broccoli", resp.BonusItems[0].Name)
}
