package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/matching"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const bonusListName = "Bonus Boodschappen"

// ShoppingService derives shopping lists from recipes and manages their items
type ShoppingService struct {
	db *gorm.DB
}

func NewShoppingService(db *gorm.DB) *ShoppingService {
	return &ShoppingService{db: db}
}

// ShoppingListResult reports what CreateFromRecipe produced
type ShoppingListResult struct {
	ShoppingListID uuid.UUID `json:"shopping_list_id"`
	MissingCount   int       `json:"missing_count"`
	Missing        []string  `json:"missing_ingredients"`
	Failed         []string  `json:"failed_items,omitempty"`
}

// CreateFromRecipe builds a list of the recipe ingredients the fridge does not
// cover, attaching the best current bonus offer to each where one matches.
// Everything runs in one transaction with a savepoint per item: an item that
// fails is rolled back on its own, the rest of the list and the snapshot are
// committed, and ErrPartialShoppingList is returned with the result.
func (s *ShoppingService) CreateFromRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*ShoppingListResult, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFound(err)
	}

	var pantry []string
	err := s.db.WithContext(ctx).Model(&models.FridgeItem{}).
		Where("user_id = ?", userID).
		Pluck("name", &pantry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load fridge: %w", err)
	}

	missing := matching.Missing(recipe.Ingredients, pantry)
	result := &ShoppingListResult{Missing: missing, MissingCount: len(missing)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list := models.ShoppingList{UserID: userID, Name: "Boodschappen voor " + recipe.Title}
		if err := tx.Create(&list).Error; err != nil {
			return fmt.Errorf("failed to create shopping list: %w", err)
		}
		result.ShoppingListID = list.ID

		for i, ingredient := range missing {
			err := tx.Transaction(func(itemTx *gorm.DB) error {
				return addMissingItem(itemTx, list.ID, i, ingredient)
			})
			if err != nil {
				logger.Warn("Failed to add shopping list item",
					zap.String("shopping_list_id", list.ID.String()),
					zap.String("ingredient", ingredient),
					zap.Error(err))
				result.Failed = append(result.Failed, ingredient)
			}
		}

		snapshot := models.RecipeShoppingList{
			UserID:             userID,
			RecipeID:           recipe.ID,
			ShoppingListID:     list.ID,
			MissingIngredients: models.StringList(missing),
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return fmt.Errorf("failed to record recipe shopping list: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Failed) > 0 {
		return result, fmt.Errorf("%w: %s", ErrPartialShoppingList, strings.Join(result.Failed, ", "))
	}
	return result, nil
}

func addMissingItem(tx *gorm.DB, listID uuid.UUID, position int, ingredient string) error {
	item := models.ShoppingListItem{
		ShoppingListID: listID,
		Position:       position,
		IngredientName: ingredient,
	}
	bonus, err := bestBonusMatch(tx, ingredient)
	if err != nil {
		return fmt.Errorf("failed to look up bonus item: %w", err)
	}
	if bonus != nil {
		price := bonus.BonusPrice
		item.BonusItemID = &bonus.ID
		item.EstimatedPrice = &price
	}
	return tx.Create(&item).Error
}

// Lists returns the user's shopping lists, newest first, with item counts
func (s *ShoppingService) Lists(ctx context.Context, userID uuid.UUID, limit int) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	query := s.db.WithContext(ctx).Model(&models.ShoppingList{}).
		Select("shopping_lists.*, (SELECT COUNT(*) FROM shopping_list_items WHERE shopping_list_items.shopping_list_id = shopping_lists.id) AS item_count").
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&lists).Error; err != nil {
		return nil, fmt.Errorf("failed to list shopping lists: %w", err)
	}
	return lists, nil
}

// GetList returns one of the user's lists with its items in order
func (s *ShoppingService) GetList(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position, created_at") }).
		Preload("Items.BonusItem").
		Where("id = ? AND user_id = ?", listID, userID).
		First(&list).Error
	if err != nil {
		return nil, notFound(err)
	}
	list.ItemCount = int64(len(list.Items))
	return &list, nil
}

// ToggleItem flips is_purchased on an item of one of the user's lists and
// returns the new state.
func (s *ShoppingService) ToggleItem(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	var item models.ShoppingListItem
	err := s.db.WithContext(ctx).
		Joins("JOIN shopping_lists ON shopping_lists.id = shopping_list_items.shopping_list_id").
		Where("shopping_list_items.id = ? AND shopping_lists.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return false, notFound(err)
	}

	purchased := !item.IsPurchased
	if err := s.db.WithContext(ctx).Model(&item).Update("is_purchased", purchased).Error; err != nil {
		return false, fmt.Errorf("failed to update item: %w", err)
	}
	return purchased, nil
}

// AddBonus puts a bonus item on the given list, or on the user's newest list
// when listID is nil, creating a bonus list if the user has none.
func (s *ShoppingService) AddBonus(ctx context.Context, userID, bonusID uuid.UUID, listID *uuid.UUID) (*models.ShoppingListItem, error) {
	var bonus models.BonusItem
	if err := s.db.WithContext(ctx).First(&bonus, "id = ?", bonusID).Error; err != nil {
		return nil, notFound(err)
	}

	var item *models.ShoppingListItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list, err := targetList(tx, userID, listID)
		if err != nil {
			return err
		}

		var dup int64
		err = tx.Model(&models.ShoppingListItem{}).
			Where("shopping_list_id = ? AND (bonus_item_id = ? OR ingredient_name = ?)", list.ID, bonus.ID, bonus.Name).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyOnList
		}

		var next int
		err = tx.Model(&models.ShoppingListItem{}).
			Where("shopping_list_id = ?", list.ID).
			Select("COALESCE(MAX(position) + 1, 0)").
			Scan(&next).Error
		if err != nil {
			return err
		}

		price := bonus.BonusPrice
		item = &models.ShoppingListItem{
			ShoppingListID: list.ID,
			Position:       next,
			IngredientName: bonus.Name,
			BonusItemID:    &bonus.ID,
			EstimatedPrice: &price,
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func targetList(tx *gorm.DB, userID uuid.UUID, listID *uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if listID != nil {
		if err := tx.Where("id = ? AND user_id = ?", *listID, userID).First(&list).Error; err != nil {
			return nil, notFound(err)
		}
		return &list, nil
	}

	err := tx.Where("user_id = ?", userID).Order("created_at DESC").First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		list = models.ShoppingList{UserID: userID, Name: bonusListName}
		if err := tx.Create(&list).Error; err != nil {
			return nil, fmt.Errorf("failed to create bonus list: %w", err)
		}
		return &list, nil
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}
