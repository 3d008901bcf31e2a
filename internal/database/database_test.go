package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/database"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

func TestMigrationsCreateEveryTable(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "%T", model)
	}
	assert.NoError(t, database.HealthCheck(context.Background(), db))
}

func TestMigrationsAreRepeatable(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	assert.NoError(t, database.RunMigrations(db))
}

func TestUniqueConstraints(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Zuurkool", "Zuurkool")

	testhelpers.AddFridgeItems(t, db, user.ID, "Melk")
	err := db.Create(&models.FridgeItem{UserID: user.ID, Name: "Melk", Quantity: "1"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.SavedRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err = db.Create(&models.SavedRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	testhelpers.CreateBonusItem(t, db, "AH-1", "AH Kaas", 3.5, 20, 7)
	err = db.Create(&models.BonusItem{ProductID: "AH-1", Name: "AH Kaas"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpenRecommendationIsUniquePerUserRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Nasi", "Rijst")

	require.NoError(t, db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	rating := 3
	require.NoError(t, db.Model(&models.Recommendation{}).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipe.ID).
		Update("user_rating", rating).Error)
	assert.NoError(t, db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID}).Error)
}

// checkDeleteRules verifies that removing a bonus item only unlinks shopping
// list lines and that removing a user removes everything the user owns.
func checkDeleteRules(t *testing.T, db *gorm.DB) {
	t.Helper()
	user := testhelpers.CreateUser(t, db)
	testhelpers.CreateProfile(t, db, user.ID, models.UserProfile{Allergies: models.StringList{"gluten"}})
	testhelpers.AddFridgeItems(t, db, user.ID, "Ui")
	recipe := testhelpers.CreateRecipe(t, db, "Uiensoep", "Ui", "Bouillon")
	bonus := testhelpers.CreateBonusItem(t, db, "ah_bouillon_001", "AH Bouillon", 1.09, 15, 7)

	require.NoError(t, db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID, RecommendedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.SavedRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error)
	list := models.ShoppingList{UserID: user.ID, Name: "Boodschappen voor Uiensoep"}
	require.NoError(t, db.Create(&list).Error)
	item := models.ShoppingListItem{ShoppingListID: list.ID, IngredientName: "Bouillon", BonusItemID: &bonus.ID}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&models.RecipeShoppingList{
		UserID:             user.ID,
		RecipeID:           recipe.ID,
		ShoppingListID:     list.ID,
		MissingIngredients: models.StringList{"Bouillon"},
	}).Error)

	require.NoError(t, db.Delete(bonus).Error)
	var unlinked models.ShoppingListItem
	require.NoError(t, db.First(&unlinked, "id = ?", item.ID).Error)
	assert.Nil(t, unlinked.BonusItemID)
	assert.Equal(t, "Bouillon", unlinked.IngredientName)

	require.NoError(t, db.Delete(user).Error)
	owned := []interface{}{
		&models.UserProfile{},
		&models.FridgeItem{},
		&models.Recommendation{},
		&models.SavedRecipe{},
		&models.ShoppingList{},
		&models.ShoppingListItem{},
		&models.RecipeShoppingList{},
	}
	for _, model := range owned {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T", model)
	}

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipes).Error)
	assert.Equal(t, int64(1), recipes, "recipes are shared and outlive their users")
}

func TestDeleteRules(t *testing.T) {
	checkDeleteRules(t, testhelpers.SetupTestDB(t))
}

func TestForeignKeysRejectOrphans(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	err := db.Create(&models.FridgeItem{UserID: uuid.New(), Name: "Melk", Quantity: "1"}).Error
	assert.Error(t, err)
}

func TestPostgresMigrations(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	ctx := context.Background()
	require.NoError(t, database.HealthCheck(ctx, db))

	external := "716429"
	first := models.Recipe{Title: "Pasta", ExternalID: &external, Ingredients: models.StringList{"pasta"}}
	require.NoError(t, db.Create(&first).Error)
	second := models.Recipe{Title: "Pasta", ExternalID: &external, Ingredients: models.StringList{"pasta"}}
	assert.ErrorIs(t, db.Create(&second).Error, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id <> ?", uuid.Nil).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, db.Delete(&first).Error)
	checkDeleteRules(t, db)
}
