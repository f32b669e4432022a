package query

import (
	"fmt"

	"github.com/tair/price-forecasting/internal/catalog/domain"
)

// GetCategoryQuery represents the query to get a category by ID
type GetCategoryQuery struct {
	ID uint
}

// GetCategoryHandler handles get category query
type GetCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewGetCategoryHandler creates a new get category handler
func NewGetCategoryHandler(repo domain.CategoryRepository) *GetCategoryHandler {
	return &GetCategoryHandler{repo: repo}
}

// Handle executes the get category query
func (h *GetCategoryHandler) Handle(query GetCategoryQuery) (*domain.Category, error) {
	if query.ID == 0 {
		return nil, fmt.Errorf("invalid category id")
	}

	return h.repo.FindByID(query.ID)
}
