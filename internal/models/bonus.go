package models

import (
	"gorm.io/datatypes"
)

// BonusItem is a time-boxed supermarket discount. ProductID is unique across
// the catalog and is the upsert key for refreshes.
type BonusItem struct {
	Base
	ProductID          string         `gorm:"column:ah_product_id;size:100;not null;uniqueIndex" json:"product_id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	OriginalPrice      float64        `json:"original_price"`
	BonusPrice         float64        `json:"bonus_price"`
	DiscountPercentage int            `gorm:"index" json:"discount_percentage"`
	Category           string         `gorm:"size:100" json:"category"`
	Brand              string         `gorm:"size:100" json:"brand"`
	ImageURL           string         `gorm:"size:500" json:"image_url"`
	ValidFrom          datatypes.Date `gorm:"not null" json:"valid_from"`
	ValidUntil         datatypes.Date `gorm:"not null;index" json:"valid_until"`
}

func (BonusItem) TableName() string {
	return "ah_bonus_items"
}
