package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/fridgechef/backend/internal/service"
)

// MockBonusSource is a mock discount catalog feed
type MockBonusSource struct {
	mock.Mock
}

func (m *MockBonusSource) FetchCurrent(ctx context.Context) ([]service.BonusOffer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BonusOffer), args.Error(1)
}

// MockBonusArchive records archived catalogs
type MockBonusArchive struct {
	mock.Mock
}

func (m *MockBonusArchive) Store(ctx context.Context, fetchedAt time.Time, offers []service.BonusOffer) error {
	args := m.Called(ctx, fetchedAt, offers)
	return args.Error(0)
}

// MockBonusRefresher is a mock catalog refresher
type MockBonusRefresher struct {
	mock.Mock
}

func (m *MockBonusRefresher) Refresh(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}
