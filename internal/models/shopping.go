package models

import (
	"github.com/google/uuid"
)

type ShoppingList struct {
	Base
	UserID uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name   string             `gorm:"size:255;not null" json:"name"`
	Items  []ShoppingListItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`

	ItemCount int64 `gorm:"-:migration;->" json:"item_count"`
}

// ShoppingListItem keeps a weak link to a bonus item: deleting the bonus item
// nulls BonusItemID instead of removing the line.
type ShoppingListItem struct {
	Base
	ShoppingListID uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"shopping_list_id"`
	Position       int        `gorm:"not null;default:0" json:"position"`
	IngredientName string     `gorm:"size:255;not null" json:"ingredient_name"`
	Quantity       string     `gorm:"size:100" json:"quantity,omitempty"`
	IsPurchased    bool       `gorm:"not null;default:false" json:"is_purchased"`
	BonusItemID    *uuid.UUID `gorm:"type:varchar(36)" json:"bonus_item_id,omitempty"`
	BonusItem      *BonusItem `gorm:"constraint:OnDelete:SET NULL" json:"bonus_item,omitempty"`
	EstimatedPrice *float64   `json:"estimated_price,omitempty"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
}

// RecipeShoppingList snapshots which recipe a list came from and what was
// missing at that moment. It is never updated afterwards.
type RecipeShoppingList struct {
	Base
	UserID             uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	RecipeID           uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"recipe_id"`
	ShoppingListID     uuid.UUID     `gorm:"type:varchar(36);not null;index" json:"shopping_list_id"`
	ShoppingList       *ShoppingList `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MissingIngredients StringList    `gorm:"type:jsonb;not null;default:'[]'" json:"missing_ingredients"`
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&AdminActivity{},
		&FridgeItem{},
		&Recipe{},
		&Recommendation{},
		&SavedRecipe{},
		&BonusItem{},
		&ShoppingList{},
		&ShoppingListItem{},
		&RecipeShoppingList{},
	}
}
