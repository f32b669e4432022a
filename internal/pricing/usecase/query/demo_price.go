package query

import (
	"fmt"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/pricing/domain"
)

// DemoPriceQuery represents the query for the latest price of an article
type DemoPriceQuery struct {
	Article string
}

// DemoPriceProduct is the product view embedded in the demo price response
type DemoPriceProduct struct {
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

// DemoPriceResult is the latest price with its product
type DemoPriceResult struct {
	Price   float64          `json:"price"`
	Date    string           `json:"date"`
	Product DemoPriceProduct `json:"product"`
}

// DemoPriceHandler handles the demo price query
type DemoPriceHandler struct {
	products catalogdomain.ProductRepository
	history  domain.PriceHistoryRepository
}

// NewDemoPriceHandler creates a new demo price handler
func NewDemoPriceHandler(products catalogdomain.ProductRepository, history domain.PriceHistoryRepository) *DemoPriceHandler {
	return &DemoPriceHandler{products: products, history: history}
}

// Handle executes the demo price query
func (h *DemoPriceHandler) Handle(query DemoPriceQuery) (*DemoPriceResult, error) {
	product, err := h.products.FindByArticle(query.Article)
	if err != nil {
		return nil, err
	}

	latest, err := h.history.FindLatest(product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest price: %w", err)
	}

	result := &DemoPriceResult{
		Product: DemoPriceProduct{
			ID:          product.ID,
			Article:     product.Article,
			Name:        product.Name,
			Description: product.Description,
			CategoryID:  product.CategoryID,
			Brand:       product.Brand,
			ImageURL:    product.ImageURL,
		},
	}

	if latest != nil {
		result.Price = latest.Price
		result.Date = latest.CreatedAt.Format("2006-01-02")
		result.Product.CurrentPrice = &latest.Price
		result.Product.LastPriceUpdate = &latest.CreatedAt
	}

	return result, nil
}
