package models

import (
	"time"

	"github.com/google/uuid"
)

// AllergyTags is the fixed allergy taxonomy a profile may hold
var AllergyTags = []string{"nuts", "gluten", "lactose", "fish", "shellfish", "eggs", "soy"}

type User struct {
	Base
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	IsAdmin          bool       `gorm:"not null;default:false" json:"is_admin"`
	ProfileCompleted bool       `gorm:"not null;default:false" json:"profile_completed"`
	LastLogin        *time.Time `json:"last_login,omitempty"`

	Profile         *UserProfile     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	FridgeItems     []FridgeItem     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Recommendations []Recommendation `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SavedRecipes    []SavedRecipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ShoppingLists   []ShoppingList   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserProfile holds the dietary profile that drives recommendations and filtering.
// It is replaced wholesale on every edit.
type UserProfile struct {
	Base
	UserID             uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	CuisinePreferences StringList `gorm:"type:jsonb;not null;default:'[]'" json:"cuisine_preferences"`
	DietPreferences    StringList `gorm:"type:jsonb;not null;default:'[]'" json:"diet_preferences"`
	Allergies          StringList `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	Dislikes           string     `gorm:"type:text" json:"dislikes"`
	DietGoal           string     `gorm:"size:255" json:"diet_goal"`
}

// AdminActivity records an administrative action
type AdminActivity struct {
	Base
	AdminUserID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"admin_user_id"`
	Action      string    `gorm:"size:100;not null" json:"action"`
	Description string    `gorm:"type:text" json:"description"`
	IPAddress   string    `gorm:"size:64" json:"ip_address"`
}

func (AdminActivity) TableName() string {
	return "admin_activity"
}
