package domain

import "errors"

// ErrProductNotFound is returned when no product matches the lookup key
var ErrProductNotFound = errors.New("product not found")

// Product represents a tracked catalog item. The article is the external
// SKU used by the frontend; the numeric ID stays internal.
type Product struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Article     string `json:"article" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" gorm:"not null"`
	Brand       string `json:"brand"`
	ImageURL    string `json:"image_url"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindByArticle(article string) (*Product, error)
	FindAll() ([]Product, error)
	FindByCategory(categoryID uint) ([]Product, error)
	Count() (int64, error)
}
