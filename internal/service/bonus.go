package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/fridgechef/backend/internal/dietary"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/matching"
	"github.com/pageza/fridgechef/backend/internal/models"
)

const bonusListLimit = 20

var bonusUpsertColumns = []string{
	"name", "description", "original_price", "bonus_price", "discount_percentage",
	"category", "brand", "image_url", "valid_from", "valid_until", "updated_at",
}

// BonusService owns the discount catalog: it refreshes it from a BonusSource
// and answers catalog queries.
type BonusService struct {
	db           *gorm.DB
	source       BonusSource
	archive      BonusArchive
	fetchTimeout time.Duration
}

var _ IBonusRefresher = (*BonusService)(nil)

// NewBonusService creates the catalog service. archive may be nil.
func NewBonusService(db *gorm.DB, source BonusSource, archive BonusArchive, fetchTimeout time.Duration) *BonusService {
	if fetchTimeout <= 0 {
		fetchTimeout = 30 * time.Second
	}
	return &BonusService{
		db:           db,
		source:       source,
		archive:      archive,
		fetchTimeout: fetchTimeout,
	}
}

// Refresh purges expired items and upserts the current offers by product id.
// It never fails: fetch errors yield 0 and a failing item is skipped.
func (s *BonusService) Refresh(ctx context.Context) int {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	offers, err := s.source.FetchCurrent(fetchCtx)
	cancel()
	if err != nil {
		logger.Error("Bonus catalog fetch failed", zap.String("provider", "bonus_source"), zap.Error(err))
		return 0
	}

	if s.archive != nil {
		if err := s.archive.Store(ctx, time.Now(), offers); err != nil {
			logger.Warn("Bonus catalog archive failed", zap.String("provider", "s3"), zap.Error(err))
		}
	}

	today := datatypes.Date(time.Now())
	purged := s.db.WithContext(ctx).Where("valid_until < ?", today).Delete(&models.BonusItem{})
	if purged.Error != nil {
		logger.Error("Failed to purge expired bonus items", zap.Error(purged.Error))
	}

	written := 0
	for _, offer := range offers {
		if err := s.upsert(ctx, offer); err != nil {
			logger.Warn("Skipping bonus item",
				zap.String("product_id", offer.ProductID),
				zap.Error(err))
			continue
		}
		written++
	}

	logger.Info("Bonus catalog refreshed",
		zap.Int("written", written),
		zap.Int64("purged", purged.RowsAffected))
	return written
}

func (s *BonusService) upsert(ctx context.Context, o BonusOffer) error {
	if strings.TrimSpace(o.ProductID) == "" || strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("%w: bonus item without product id or name", ErrInvalidInput)
	}
	item := models.BonusItem{
		ProductID:          o.ProductID,
		Name:               o.Name,
		Description:        o.Description,
		OriginalPrice:      o.OriginalPrice,
		BonusPrice:         o.BonusPrice,
		DiscountPercentage: o.DiscountPercentage,
		Category:           o.Category,
		Brand:              o.Brand,
		ImageURL:           o.ImageURL,
		ValidFrom:          datatypes.Date(o.ValidFrom),
		ValidUntil:         datatypes.Date(o.ValidUntil),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ah_product_id"}},
		DoUpdates: clause.AssignmentColumns(bonusUpsertColumns),
	}).Create(&item).Error
}

// ListValid returns items still valid today, best discount first
func (s *BonusService) ListValid(ctx context.Context, limit int) ([]models.BonusItem, error) {
	var items []models.BonusItem
	query := s.db.WithContext(ctx).
		Where("valid_until >= ?", datatypes.Date(time.Now())).
		Order("discount_percentage DESC").
		Order("name")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list bonus items: %w", err)
	}
	return items, nil
}

// Recommendations returns the valid items the constraints allow
func (s *BonusService) Recommendations(ctx context.Context, c dietary.Constraints) ([]models.BonusItem, error) {
	items, err := s.ListValid(ctx, bonusListLimit)
	if err != nil {
		return nil, err
	}
	return dietary.Filter(items, c, func(b models.BonusItem) string { return b.Name }), nil
}

// Get returns a single bonus item
func (s *BonusService) Get(ctx context.Context, id uuid.UUID) (*models.BonusItem, error) {
	var item models.BonusItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

// BonusOverview summarizes the valid catalog for the admin panel
type BonusOverview struct {
	Items           []models.BonusItem `json:"items"`
	Total           int                `json:"total"`
	AverageDiscount int                `json:"average_discount"`
}

func (s *BonusService) Overview(ctx context.Context) (*BonusOverview, error) {
	items, err := s.ListValid(ctx, 0)
	if err != nil {
		return nil, err
	}
	overview := &BonusOverview{Items: items, Total: len(items)}
	if len(items) > 0 {
		sum := 0
		for _, it := range items {
			sum += it.DiscountPercentage
		}
		overview.AverageDiscount = int(math.Round(float64(sum) / float64(len(items))))
	}
	return overview, nil
}

// bestBonusMatch finds the valid item with the highest discount whose name
// contains the ingredient's leading word. It returns nil when nothing matches.
func bestBonusMatch(tx *gorm.DB, ingredient string) (*models.BonusItem, error) {
	token := matching.Fold(matching.LeadingToken(ingredient))
	if token == "" {
		return nil, nil
	}

	var item models.BonusItem
	err := tx.Where(`LOWER(name) LIKE ? ESCAPE '\' AND valid_until >= ?`, containsPattern(token), datatypes.Date(time.Now())).
		Order("discount_percentage DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere in the
// column. Queries using it must declare ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// SampleBonusSource produces a fixed weekly catalog of five AH offers valid
// from today for one week.
type SampleBonusSource struct {
	now func() time.Time
}

func NewSampleBonusSource() *SampleBonusSource {
	return &SampleBonusSource{now: time.Now}
}

func (s *SampleBonusSource) FetchCurrent(ctx context.Context) ([]BonusOffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := from.AddDate(0, 0, 7)

	offer := func(id, name, desc string, orig, bonus float64, pct int, category string) BonusOffer {
		return BonusOffer{
			ProductID:          id,
			Name:               name,
			Description:        desc,
			OriginalPrice:      orig,
			BonusPrice:         bonus,
			DiscountPercentage: pct,
			Category:           category,
			Brand:              "AH",
			ValidFrom:          from,
			ValidUntil:         until,
		}
	}

	return []BonusOffer{
		offer("ah_bananas_001", "AH Biologische Bananen", "Verse biologische bananen per kilo", 2.49, 1.99, 20, "Fruit"),
		offer("ah_chicken_001", "AH Kip Filet", "Verse kipfilet per 500g", 4.99, 3.99, 20, "Vlees"),
		offer("ah_pasta_001", "AH Pasta Penne", "Penne pasta 500g", 1.29, 0.99, 23, "Pasta"),
		offer("ah_tomatoes_001", "AH Tomaten Cherry", "Verse cherry tomaten 250g", 1.99, 1.49, 25, "Groenten"),
		offer("ah_cheese_001", "AH Kaas Belegen", "Belegen kaas per 200g", 3.49, 2.79, 20, "Zuivel"),
	}, nil
}
