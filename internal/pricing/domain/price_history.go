package domain

import "time"

// PriceHistory represents a single observed price of a product.
// Rows are append-only; the most recent row defines the product's
// current price.
type PriceHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Price     float64   `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (PriceHistory) TableName() string {
	return "price_history"
}

// PriceHistoryRepository defines the contract for price history access
type PriceHistoryRepository interface {
	Create(entry *PriceHistory) error
	// FindByProduct returns the full series ordered by timestamp ascending.
	FindByProduct(productID uint) ([]PriceHistory, error)
	// FindByProductSince returns the series since the given time, ordered ascending.
	FindByProductSince(productID uint, since time.Time) ([]PriceHistory, error)
	// FindLatest returns the most recent entry, or nil when the product has no history.
	FindLatest(productID uint) (*PriceHistory, error)
	// FindLatestPerProduct returns the most recent entry of every product.
	FindLatestPerProduct() ([]PriceHistory, error)
	Count() (int64, error)
}
