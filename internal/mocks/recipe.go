package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
)

// MockRecipeSource is a mock external recipe catalog
type MockRecipeSource struct {
	mock.Mock
}

func (m *MockRecipeSource) Search(ctx context.Context, q service.RecipeQuery) ([]service.RecipeCandidate, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RecipeCandidate), args.Error(1)
}

func (m *MockRecipeSource) Detail(ctx context.Context, externalID string) (*service.RecipeDetail, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecipeDetail), args.Error(1)
}

// MockRecipeGenerator is a mock generative recipe provider
type MockRecipeGenerator struct {
	mock.Mock
}

func (m *MockRecipeGenerator) Generate(ctx context.Context, req service.GenerationRequest) (*service.GeneratedRecipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GeneratedRecipe), args.Error(1)
}

// MockRecommender is a mock recommendation engine
type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, userID uuid.UUID, fridge []models.FridgeItem) ([]models.Recipe, error) {
	args := m.Called(ctx, userID, fridge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}
