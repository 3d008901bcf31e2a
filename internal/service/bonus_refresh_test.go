package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fridgechef/backend/internal/mocks"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/service"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

func sampleCatalog(t *testing.T) []service.BonusOffer {
	t.Helper()
	offers, err := service.NewSampleBonusSource().FetchCurrent(context.Background())
	require.NoError(t, err)
	return offers
}

func TestBonusRefreshArchivesFetchedCatalog(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	offers := sampleCatalog(t)

	source := &mocks.MockBonusSource{}
	source.On("FetchCurrent", mock.Anything).Return(offers, nil).Once()
	archive := &mocks.MockBonusArchive{}
	archive.On("Store", mock.Anything, mock.AnythingOfType("time.Time"), offers).
		Return(errors.New("bucket unavailable")).Once()

	svc := service.NewBonusService(db, source, archive, time.Second)
	assert.Equal(t, 5, svc.Refresh(context.Background()), "archive failures do not affect the count")

	var count int64
	require.NoError(t, db.Model(&models.BonusItem{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
	source.AssertExpectations(t)
	archive.AssertExpectations(t)
}

func TestBonusRefreshSkipsArchiveWhenFetchFails(t *testing.T) {
	db := testhelpers.SetupTestDB(t)

	source := &mocks.MockBonusSource{}
	source.On("FetchCurrent", mock.Anything).Return(nil, errors.New("offline"))
	archive := &mocks.MockBonusArchive{}

	svc := service.NewBonusService(db, source, archive, time.Second)
	assert.Equal(t, 0, svc.Refresh(context.Background()))
	archive.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestBonusSchedulerRunsAfterStartupDelay(t *testing.T) {
	ran := make(chan struct{}, 1)
	refresher := &mocks.MockBonusRefresher{}
	refresher.On("Refresh", mock.Anything).Return(1).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	sched := service.NewBonusScheduler(refresher, 10*time.Millisecond, time.Monday, 6)
	ctx, cancel := context.WithCancel(context.Background())
	done := sched.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run after the startup delay")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	refresher.AssertNumberOfCalls(t, "Refresh", 1)
}

func TestAdminRefreshBonusLogsActivity(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	admin := testhelpers.CreateUser(t, db)

	refresher := &mocks.MockBonusRefresher{}
	refresher.On("Refresh", mock.Anything).Return(5).Once()
	svc := service.NewAdminService(db, refresher)

	assert.Equal(t, 5, svc.RefreshBonus(context.Background(), admin.ID, "10.0.0.1"))
	refresher.AssertExpectations(t)

	var activity models.AdminActivity
	require.NoError(t, db.Where("admin_user_id = ?", admin.ID).First(&activity).Error)
	assert.Equal(t, "bonus_refresh", activity.Action)
	assert.Equal(t, "10.0.0.1", activity.IPAddress)
	assert.Contains(t, activity.Description, "5")
}
