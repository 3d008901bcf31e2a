package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

func sampleDetail(id, title string) *RecipeDetail {
	return &RecipeDetail{
		ExternalID:      id,
		Title:           title,
		Summary:         "Snel en simpel",
		IngredientLines: []string{"200g pasta", "tomaten"},
		Instructions:    "Kook de pasta.",
		PrepMinutes:     10,
		CookMinutes:     15,
		Servings:        2,
	}
}

func TestSaveExternalDedupesByExternalID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	first, err := svc.SaveExternal(ctx, sampleDetail("42", "Pasta"), "italian")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)

	second, err := svc.SaveExternal(ctx, sampleDetail("42", "Pasta Deluxe"), "italian")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Pasta Deluxe", second.Title, "fetched fields are returned")

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := svc.GetRecipe(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", stored.Title, "stored row is not updated")
	assert.Equal(t, "medium", stored.Difficulty)
	assert.Equal(t, "italian", stored.CuisineType)
	assert.Equal(t, models.StringList{"200g pasta", "tomaten"}, stored.Ingredients)
}

func TestSaveExternalRejectsMissingID(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	_, err := NewRecipeService(db).SaveExternal(context.Background(), sampleDetail("", "x"), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSaveGeneratedAlwaysInserts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	g := TemplateRecipe([]string{"Kip", "Paprika"})

	a, err := svc.SaveGenerated(ctx, g, "")
	require.NoError(t, err)
	b, err := svc.SaveGenerated(ctx, g, "")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.ExternalID)
	assert.Equal(t, models.SourceGenerated, a.SourceURL)
}

func TestRecordRecommendationIsInsertIfAbsent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Soep", "ui")

	created, err := svc.RecordRecommendation(ctx, user.ID, recipe.ID, "r")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.RecordRecommendation(ctx, user.ID, recipe.ID, "r")
	require.NoError(t, err)
	assert.False(t, created)

	// a rated recommendation is history; the next suggestion is a new event
	require.NoError(t, svc.Rate(ctx, user.ID, recipe.ID, 4, "lekker"))
	created, err = svc.RecordRecommendation(ctx, user.ID, recipe.ID, "r")
	require.NoError(t, err)
	assert.True(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Recommendation{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestOpenRecommendationUniqueIndex(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Soep", "ui")

	require.NoError(t, db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.Recommendation{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.Error(t, err)
}

func TestRate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Soep", "ui")

	assert.ErrorIs(t, svc.Rate(ctx, user.ID, recipe.ID, 3, ""), ErrNotFound)
	assert.ErrorIs(t, svc.Rate(ctx, user.ID, recipe.ID, 6, ""), ErrInvalidInput)

	_, err := svc.RecordRecommendation(ctx, user.ID, recipe.ID, "r")
	require.NoError(t, err)
	require.NoError(t, svc.Rate(ctx, user.ID, recipe.ID, 5, "top"))

	recs, err := svc.ListRecommendations(ctx, user.ID, 5)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].UserRating)
	assert.Equal(t, 5, *recs[0].UserRating)
	assert.Equal(t, "top", recs[0].UserFeedback)
	require.NotNil(t, recs[0].Recipe)
	assert.Equal(t, "Soep", recs[0].Recipe.Title)
}

func TestToggleSaved(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Soep", "ui")

	saved, err := svc.ToggleSaved(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	list, err := svc.ListSaved(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recipe.ID, list[0].Recipe.ID)

	saved, err = svc.ToggleSaved(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	isSaved, err := svc.IsSaved(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, isSaved)

	_, err = svc.ToggleSaved(ctx, user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	pasta := testhelpers.CreateRecipe(t, db, "Pasta Pesto", "pasta")
	require.NoError(t, db.Model(pasta).Updates(map[string]interface{}{"cuisine_type": "italian", "difficulty": "easy"}).Error)
	testhelpers.CreateRecipe(t, db, "Appeltaart", "appels")
	testhelpers.CreateRecipe(t, db, "Pasta Carbonara", "pasta", "spek")

	got, err := svc.Search(ctx, "PASTA", "", "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pasta Carbonara", got[0].Title)

	got, err = svc.Search(ctx, "pasta", "italian", "easy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pasta.ID, got[0].ID)

	got, err = svc.Search(ctx, "", "", "")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	got, err = svc.Search(ctx, "_", "", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateEmbeddingIsDeterministic(t *testing.T) {
	a := GenerateEmbedding("Tomaat")
	b := GenerateEmbedding("tomaat")
	assert.Equal(t, a.Slice(), b.Slice())
	assert.Equal(t, []float32{6, 3, 3}, a.Slice())
}
