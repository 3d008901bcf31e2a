package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// commonIngredients backs the fridge autocomplete
var commonIngredients = []string{
	"Aardappelen", "Uien", "Knoflook", "Tomaten", "Paprika", "Courgette",
	"Wortel", "Broccoli", "Spinazie", "Sla", "Komkommer", "Champignons",
	"Kip", "Rundvlees", "Varkensvlees", "Vis", "Zalm", "Garnalen",
	"Eieren", "Melk", "Kaas", "Yoghurt", "Boter", "Room",
	"Rijst", "Pasta", "Brood", "Bloem", "Suiker", "Zout", "Peper",
	"Olijfolie", "Azijn", "Basilicum", "Peterselie", "Oregano",
}

const maxSuggestions = 10

// FridgeService manages a user's pantry
type FridgeService struct {
	db *gorm.DB
}

func NewFridgeService(db *gorm.DB) *FridgeService {
	return &FridgeService{db: db}
}

// List returns the user's fridge items, newest first
func (s *FridgeService) List(ctx context.Context, userID uuid.UUID) ([]models.FridgeItem, error) {
	var items []models.FridgeItem
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list fridge items: %w", err)
	}
	return items, nil
}

// Upsert adds an item or, when the name already exists for this user,
// overwrites its quantity and expiry date.
func (s *FridgeService) Upsert(ctx context.Context, userID uuid.UUID, req *types.FridgeItemRequest) (*models.FridgeItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	quantity := strings.TrimSpace(req.Quantity)
	if quantity == "" {
		quantity = "1"
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	item := models.FridgeItem{UserID: userID, Name: name, Quantity: quantity, ExpiryDate: expiry}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "expiry_date", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save fridge item: %w", err)
	}

	var stored models.FridgeItem
	if err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to reload fridge item: %w", err)
	}
	return &stored, nil
}

// Update changes the provided fields of one of the user's items
func (s *FridgeService) Update(ctx context.Context, userID, itemID uuid.UUID, req *types.FridgeUpdateRequest) error {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		updates["name"] = name
	}
	if req.Quantity != nil {
		updates["quantity"] = strings.TrimSpace(*req.Quantity)
	}
	if req.ExpiryDate != nil {
		expiry, err := parseDate(req.ExpiryDate)
		if err != nil {
			return err
		}
		updates["expiry_date"] = expiry
	}
	if len(updates) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	res := s.db.WithContext(ctx).Model(&models.FridgeItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update fridge item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one of the user's items
func (s *FridgeService) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.FridgeItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete fridge item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Suggestions returns up to ten common ingredients containing q.
// Queries shorter than two characters return nothing.
func Suggestions(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	if len([]rune(q)) < 2 {
		return out
	}
	for _, ing := range commonIngredients {
		if strings.Contains(strings.ToLower(ing), q) {
			out = append(out, ing)
			if len(out) == maxSuggestions {
				break
			}
		}
	}
	return out
}

// parseDate turns an optional YYYY-MM-DD string into a date column value.
// An empty string clears the date.
func parseDate(s *string) (*datatypes.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(*s), time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: expiry_date must be YYYY-MM-DD", ErrInvalidInput)
	}
	d := datatypes.Date(t)
	return &d, nil
}
