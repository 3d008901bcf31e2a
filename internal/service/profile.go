package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fridgechef/backend/internal/dietary"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/types"
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{
		db: db,
	}
}

// GetProfile retrieves a user's profile, ErrNotFound when none was set up
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// FindProfile is GetProfile without the not-found error: an absent profile
// is returned as nil.
func (s *ProfileService) FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return profile, err
}

// SaveProfile creates the profile or replaces every field of the existing one
func (s *ProfileService) SaveProfile(ctx context.Context, userID uuid.UUID, req *types.ProfileRequest) (*models.UserProfile, error) {
	for _, tag := range req.Allergies {
		if !dietary.KnownAllergy(tag) {
			return nil, fmt.Errorf("%w: unknown allergy %q", ErrInvalidInput, tag)
		}
	}

	profile := models.UserProfile{
		UserID:             userID,
		CuisinePreferences: normalizeTags(req.CuisinePreferences),
		DietPreferences:    normalizeTags(req.DietPreferences),
		Allergies:          normalizeTags(req.Allergies),
		Dislikes:           strings.TrimSpace(req.Dislikes),
		DietGoal:           strings.TrimSpace(req.DietGoal),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"cuisine_preferences", "diet_preferences", "allergies", "dislikes", "diet_goal", "updated_at"}),
		}).Create(&profile).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("profile_completed", true).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// Constraints returns the filter constraints for a user. A missing profile
// yields the zero Constraints, which filter nothing.
func (s *ProfileService) Constraints(ctx context.Context, userID uuid.UUID) (dietary.Constraints, error) {
	profile, err := s.FindProfile(ctx, userID)
	if err != nil || profile == nil {
		return dietary.Constraints{}, err
	}
	return ConstraintsFor(profile), nil
}

// ConstraintsFor converts a stored profile into filter constraints
func ConstraintsFor(profile *models.UserProfile) dietary.Constraints {
	if profile == nil {
		return dietary.Constraints{}
	}
	return dietary.Constraints{
		Diets:     profile.DietPreferences,
		Allergies: profile.Allergies,
		Dislikes:  dietary.ParseDislikes(profile.Dislikes),
	}
}

func normalizeTags(tags []string) models.StringList {
	out := models.StringList{}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
