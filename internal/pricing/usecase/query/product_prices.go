package query

import (
	"fmt"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/pricing/domain"
)

// ProductPricesQuery represents the query for a product's full price series
type ProductPricesQuery struct {
	ProductID uint
}

// PricePoint is one series entry shaped for chart consumption
type PricePoint struct {
	Price     float64   `json:"price"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductPricesResult is the full ordered series with the product
type ProductPricesResult struct {
	Product      catalogdomain.Product `json:"product"`
	PriceHistory []PricePoint          `json:"price_history"`
	CurrentPrice float64               `json:"current_price"`
	LastUpdate   string                `json:"last_update"`
}

// ProductPricesHandler handles the product prices query
type ProductPricesHandler struct {
	products catalogdomain.ProductRepository
	history  domain.PriceHistoryRepository
}

// NewProductPricesHandler creates a new product prices handler
func NewProductPricesHandler(products catalogdomain.ProductRepository, history domain.PriceHistoryRepository) *ProductPricesHandler {
	return &ProductPricesHandler{products: products, history: history}
}

// Handle executes the product prices query
func (h *ProductPricesHandler) Handle(query ProductPricesQuery) (*ProductPricesResult, error) {
	product, err := h.products.FindByID(query.ProductID)
	if err != nil {
		return nil, err
	}

	entries, err := h.history.FindByProduct(product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	points := make([]PricePoint, 0, len(entries))
	for _, entry := range entries {
		points = append(points, PricePoint{
			Price:     entry.Price,
			Date:      entry.CreatedAt.Format("2006-01-02"),
			Timestamp: entry.CreatedAt,
		})
	}

	result := &ProductPricesResult{
		Product:      *product,
		PriceHistory: points,
	}
	if len(points) > 0 {
		last := points[len(points)-1]
		result.CurrentPrice = last.Price
		result.LastUpdate = last.Date
	}

	return result, nil
}
