package domain

import "errors"

// ErrCategoryNotFound is returned when no category matches the given id
var ErrCategoryNotFound = errors.New("category not found")

// Category represents a product category. ParentID is nil for roots;
// non-nil values form a tree.
type Category struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	ParentID *uint  `json:"parent_id"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// CategoryRepository defines the contract for category data access
type CategoryRepository interface {
	Create(category *Category) error
	FindByID(id uint) (*Category, error)
	FindAll() ([]Category, error)
	Count() (int64, error)
}
