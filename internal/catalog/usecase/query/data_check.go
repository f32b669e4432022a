package query

import (
	"fmt"
	"time"

	"github.com/tair/price-forecasting/internal/catalog/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

// DataCheckQuery represents the query to look up a product snapshot by article
type DataCheckQuery struct {
	Article string
}

// DataCheckResult is the product snapshot returned to the frontend
type DataCheckResult struct {
	ID              uint       `json:"id"`
	Article         string     `json:"article"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	CategoryID      uint       `json:"category_id"`
	Brand           string     `json:"brand"`
	ImageURL        string     `json:"image_url"`
	CurrentPrice    *float64   `json:"current_price"`
	LastPriceUpdate *time.Time `json:"last_price_update"`
}

// DataCheckHandler handles the article snapshot lookup
type DataCheckHandler struct {
	products domain.ProductRepository
	history  pricingdomain.PriceHistoryRepository
}

// NewDataCheckHandler creates a new data check handler
func NewDataCheckHandler(products domain.ProductRepository, history pricingdomain.PriceHistoryRepository) *DataCheckHandler {
	return &DataCheckHandler{products: products, history: history}
}

// Handle executes the data check query
func (h *DataCheckHandler) Handle(query DataCheckQuery) (*DataCheckResult, error) {
	if query.Article == "" {
		return nil, fmt.Errorf("article is required")
	}

	product, err := h.products.FindByArticle(query.Article)
	if err != nil {
		return nil, err
	}

	result := &DataCheckResult{
		ID:          product.ID,
		Article:     product.Article,
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		Brand:       product.Brand,
		ImageURL:    product.ImageURL,
	}

	latest, err := h.history.FindLatest(product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest price: %w", err)
	}
	if latest != nil {
		result.CurrentPrice = &latest.Price
		result.LastPriceUpdate = &latest.CreatedAt
	}

	return result, nil
}
