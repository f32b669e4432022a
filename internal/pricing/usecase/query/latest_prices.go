package query

import (
	"fmt"

	"github.com/tair/price-forecasting/internal/pricing/domain"
)

// LatestPricesQuery represents the query for the latest price of every product
type LatestPricesQuery struct{}

// LatestPricesHandler handles the latest prices query
type LatestPricesHandler struct {
	history domain.PriceHistoryRepository
}

// NewLatestPricesHandler creates a new latest prices handler
func NewLatestPricesHandler(history domain.PriceHistoryRepository) *LatestPricesHandler {
	return &LatestPricesHandler{history: history}
}

// Handle executes the latest prices query
func (h *LatestPricesHandler) Handle(_ LatestPricesQuery) ([]domain.PriceHistory, error) {
	latest, err := h.history.FindLatestPerProduct()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest prices: %w", err)
	}
	return latest, nil
}
