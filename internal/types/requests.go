package types

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest replaces the whole dietary profile
type ProfileRequest struct {
	CuisinePreferences []string `json:"cuisine_preferences"`
	DietPreferences    []string `json:"diet_preferences"`
	Allergies          []string `json:"allergies"`
	Dislikes           string   `json:"dislikes"`
	DietGoal           string   `json:"diet_goal"`
}

// FridgeItemRequest is the body of POST /fridge
type FridgeItemRequest struct {
	Name       string  `json:"name" binding:"required"`
	Quantity   string  `json:"quantity"`
	ExpiryDate *string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
}

// FridgeUpdateRequest is the body of PUT /fridge/:id; nil fields are left alone
type FridgeUpdateRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1"`
	Quantity   *string `json:"quantity"`
	ExpiryDate *string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
}

// RateRequest is the body of POST /recipes/:id/rate
type RateRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// AddBonusRequest is the body of POST /shopping/add-bonus
type AddBonusRequest struct {
	BonusItemID    string `json:"bonus_item_id" binding:"required,uuid"`
	ShoppingListID string `json:"shopping_list_id" binding:"omitempty,uuid"`
}
