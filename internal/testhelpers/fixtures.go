package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/models"
)

// CreateUser inserts a user with a unique email
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// CreateProfile stores a profile for the user
func CreateProfile(t *testing.T, db *gorm.DB, userID uuid.UUID, profile models.UserProfile) *models.UserProfile {
	t.Helper()
	profile.UserID = userID
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("failed to create profile: %v", err)
	}
	return &profile
}

// AddFridgeItems stores fridge items by name
func AddFridgeItems(t *testing.T, db *gorm.DB, userID uuid.UUID, names ...string) []models.FridgeItem {
	t.Helper()
	items := make([]models.FridgeItem, 0, len(names))
	for _, name := range names {
		item := models.FridgeItem{UserID: userID, Name: name, Quantity: "1"}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("failed to create fridge item %q: %v", name, err)
		}
		items = append(items, item)
	}
	return items
}

// CreateRecipe stores a recipe with the given ingredients
func CreateRecipe(t *testing.T, db *gorm.DB, title string, ingredients ...string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:       title,
		Ingredients: ingredients,
		Difficulty:  "medium",
		Servings:    2,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

// CreateBonusItem stores a bonus item valid from today for validDays days
func CreateBonusItem(t *testing.T, db *gorm.DB, productID, name string, price float64, discount, validDays int) *models.BonusItem {
	t.Helper()
	now := time.Now()
	item := &models.BonusItem{
		ProductID:          productID,
		Name:               name,
		OriginalPrice:      price * 1.25,
		BonusPrice:         price,
		DiscountPercentage: discount,
		Brand:              "AH",
		ValidFrom:          datatypes.Date(now),
		ValidUntil:         datatypes.Date(now.AddDate(0, 0, validDays)),
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create bonus item: %v", err)
	}
	return item
}
