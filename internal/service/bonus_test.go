package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/pageza/fridgechef/backend/internal/dietary"
	"github.com/pageza/fridgechef/backend/internal/models"
	"github.com/pageza/fridgechef/backend/internal/testhelpers"
)

type stubBonusSource struct {
	offers []BonusOffer
	err    error
	calls  int
}

func (s *stubBonusSource) FetchCurrent(ctx context.Context) ([]BonusOffer, error) {
	s.calls++
	return s.offers, s.err
}

type recordingPutter struct {
	keys []string
	err  error
}

func (p *recordingPutter) PutJSON(_ context.Context, key string, _ []byte) error {
	p.keys = append(p.keys, key)
	return p.err
}

func sampleOffers(t *testing.T) []BonusOffer {
	t.Helper()
	offers, err := NewSampleBonusSource().FetchCurrent(context.Background())
	require.NoError(t, err)
	return offers
}

func TestBonusRefreshIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewBonusService(db, &stubBonusSource{offers: sampleOffers(t)}, nil, time.Second)
	ctx := context.Background()

	assert.Equal(t, 5, svc.Refresh(ctx))
	var first []models.BonusItem
	require.NoError(t, db.Order("ah_product_id").Find(&first).Error)

	assert.Equal(t, 5, svc.Refresh(ctx))
	var second []models.BonusItem
	require.NoError(t, db.Order("ah_product_id").Find(&second).Error)

	require.Len(t, second, 5)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].BonusPrice, second[i].BonusPrice)
		assert.Equal(t, first[i].DiscountPercentage, second[i].DiscountPercentage)
	}
}

func TestBonusRefreshOverwritesAndPurges(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	expired := testhelpers.CreateBonusItem(t, db, "ah_old_001", "AH Oude Kaas", 2.00, 10, -3)

	offers := sampleOffers(t)
	offers[1].BonusPrice = 3.49
	offers[1].DiscountPercentage = 30
	offers = append(offers, BonusOffer{ProductID: "", Name: "zonder id"})

	svc := NewBonusService(db, &stubBonusSource{offers: offers}, nil, time.Second)
	assert.Equal(t, 5, svc.Refresh(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.BonusItem{}).Where("id = ?", expired.ID).Count(&count).Error)
	assert.Zero(t, count)

	var chicken models.BonusItem
	require.NoError(t, db.Where("ah_product_id = ?", "ah_chicken_001").First(&chicken).Error)
	assert.Equal(t, 3.49, chicken.BonusPrice)
	assert.Equal(t, 30, chicken.DiscountPercentage)
}

func TestBonusRefreshFetchErrorWritesNothing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewBonusService(db, &stubBonusSource{err: errors.New("offline")}, nil, time.Second)
	assert.Equal(t, 0, svc.Refresh(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.BonusItem{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestS3BonusArchiveKeysByFetchDate(t *testing.T) {
	fetchedAt := time.Date(2026, 10, 19, 6, 0, 0, 0, time.UTC)

	putter := &recordingPutter{}
	require.NoError(t, NewS3BonusArchive(putter).Store(context.Background(), fetchedAt, sampleOffers(t)))
	assert.Equal(t, []string{"bonus/2026-10-19.json"}, putter.keys)

	failing := &recordingPutter{err: errors.New("access denied")}
	err := NewS3BonusArchive(failing).Store(context.Background(), fetchedAt, nil)
	assert.ErrorContains(t, err, "access denied")
}

func TestBonusQueries(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewBonusService(db, &stubBonusSource{offers: sampleOffers(t)}, nil, time.Second)
	ctx := context.Background()
	require.Equal(t, 5, svc.Refresh(ctx))

	items, err := svc.ListValid(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "AH Tomaten Cherry", items[0].Name)

	vegan, err := svc.Recommendations(ctx, dietary.Constraints{Diets: []string{"vegan"}})
	require.NoError(t, err)
	for _, it := range vegan {
		assert.NotEqual(t, "AH Kip Filet", it.Name)
		assert.NotEqual(t, "AH Kaas Belegen", it.Name)
	}
	assert.Len(t, vegan, 3)

	all, err := svc.Recommendations(ctx, dietary.Constraints{})
	require.NoError(t, err)
	assert.Equal(t, items, all)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, overview.Total)
	assert.Equal(t, 22, overview.AverageDiscount)

	got, err := svc.Get(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, items[0].ProductID, got.ProductID)
}

func TestBestBonusMatch(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateBonusItem(t, db, "p1", "AH Pasta Penne", 0.99, 23, 7)
	testhelpers.CreateBonusItem(t, db, "p2", "Barilla Pasta Fusilli", 1.49, 35, 7)
	testhelpers.CreateBonusItem(t, db, "p3", "AH Pasta Verlopen", 0.50, 60, -1)

	got, err := bestBonusMatch(db, "Pasta naar keuze")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p2", got.ProductID)

	got, err = bestBonusMatch(db, "2 tenen knoflook")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = bestBonusMatch(db, "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBestBonusMatchTreatsWildcardsLiterally(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	testhelpers.CreateBonusItem(t, db, "p1", "AH Kaas Belegen", 2.79, 20, 7)
	juice := testhelpers.CreateBonusItem(t, db, "p2", "AH 100% Sinaasappelsap", 1.99, 15, 7)

	for _, ingredient := range []string{"_ snufje zout", "% room", "__ eieren"} {
		got, err := bestBonusMatch(db, ingredient)
		require.NoError(t, err)
		assert.Nil(t, got, ingredient)
	}

	got, err := bestBonusMatch(db, "100% sinaasappelsap")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, juice.ID, got.ID)
}

func TestNextWeeklyRun(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"sunday evening", time.Date(2026, 10, 18, 20, 0, 0, 0, loc), time.Date(2026, 10, 19, 6, 0, 0, 0, loc)},
		{"monday before six", time.Date(2026, 10, 19, 5, 59, 0, 0, loc), time.Date(2026, 10, 19, 6, 0, 0, 0, loc)},
		{"monday at six", time.Date(2026, 10, 19, 6, 0, 0, 0, loc), time.Date(2026, 10, 26, 6, 0, 0, 0, loc)},
		{"wednesday", time.Date(2026, 10, 21, 12, 0, 0, 0, loc), time.Date(2026, 10, 26, 6, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextWeeklyRun(tt.now, time.Monday, 6))
		})
	}
}

func TestBonusPurgeKeepsShoppingListLines(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db)
	recipe := testhelpers.CreateRecipe(t, db, "Pasta", "Pasta")
	penne := testhelpers.CreateBonusItem(t, db, "ah_pasta_001", "AH Pasta Penne", 0.99, 23, 7)

	shopping := NewShoppingService(db)
	res, err := shopping.CreateFromRecipe(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	yesterday := datatypes.Date(time.Now().AddDate(0, 0, -1))
	require.NoError(t, db.Model(penne).Update("valid_until", yesterday).Error)
	NewBonusService(db, &stubBonusSource{}, nil, time.Second).Refresh(ctx)

	var count int64
	require.NoError(t, db.Model(&models.BonusItem{}).Count(&count).Error)
	assert.Zero(t, count)

	list, err := shopping.GetList(ctx, user.ID, res.ShoppingListID)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Pasta", list.Items[0].IngredientName)
	assert.Nil(t, list.Items[0].BonusItemID)
	assert.Nil(t, list.Items[0].BonusItem)
	require.NotNil(t, list.Items[0].EstimatedPrice)
	assert.Equal(t, 0.99, *list.Items[0].EstimatedPrice)
}
