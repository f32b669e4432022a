package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tair/price-forecasting/internal/pricing/domain"
)

type GormPriceHistoryRepository struct {
	db *gorm.DB
}

func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

func (r *GormPriceHistoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.PriceHistory{})
}

func (r *GormPriceHistoryRepository) Create(entry *domain.PriceHistory) error {
	return r.db.Create(entry).Error
}

func (r *GormPriceHistoryRepository) FindByProduct(productID uint) ([]domain.PriceHistory, error) {
	var history []domain.PriceHistory
	err := r.db.Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&history).Error
	return history, err
}

func (r *GormPriceHistoryRepository) FindByProductSince(productID uint, since time.Time) ([]domain.PriceHistory, error) {
	var history []domain.PriceHistory
	err := r.db.Where("product_id = ? AND created_at >= ?", productID, since).
		Order("created_at ASC").
		Find(&history).Error
	return history, err
}

func (r *GormPriceHistoryRepository) FindLatest(productID uint) (*domain.PriceHistory, error) {
	var entry domain.PriceHistory
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormPriceHistoryRepository) FindLatestPerProduct() ([]domain.PriceHistory, error) {
	var latest []domain.PriceHistory
	err := r.db.Raw(`
		SELECT DISTINCT ON (product_id) *
		FROM price_history
		ORDER BY product_id, created_at DESC
	`).Scan(&latest).Error
	return latest, err
}

func (r *GormPriceHistoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.PriceHistory{}).Count(&count).Error
	return count, err
}
