package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrAlreadyOnList       = errors.New("item already on shopping list")
	ErrPartialShoppingList = errors.New("shopping list created with missing items")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrProviderDisabled    = errors.New("provider not configured")
)

// notFound maps gorm's missing-row error onto ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
