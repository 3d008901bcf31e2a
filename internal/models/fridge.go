package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// FridgeItem is a pantry ingredient. Name is unique per user and is the key
// every ingredient match runs against.
type FridgeItem struct {
	Base
	UserID     uuid.UUID       `gorm:"type:varchar(36);not null;uniqueIndex:idx_fridge_user_name" json:"user_id"`
	Name       string          `gorm:"size:255;not null;uniqueIndex:idx_fridge_user_name" json:"name"`
	Quantity   string          `gorm:"size:100;not null;default:'1'" json:"quantity"`
	ExpiryDate *datatypes.Date `json:"expiry_date,omitempty"`
	ImageURL   string          `gorm:"size:500" json:"image_url,omitempty"`
}
