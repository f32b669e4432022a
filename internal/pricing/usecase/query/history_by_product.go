package query

import (
	"fmt"

	"github.com/tair/price-forecasting/internal/pricing/domain"
)

// HistoryByProductQuery represents the query for the raw price series
type HistoryByProductQuery struct {
	ProductID uint
}

// HistoryByProductHandler handles the raw history query
type HistoryByProductHandler struct {
	history domain.PriceHistoryRepository
}

// NewHistoryByProductHandler creates a new history handler
func NewHistoryByProductHandler(history domain.PriceHistoryRepository) *HistoryByProductHandler {
	return &HistoryByProductHandler{history: history}
}

// Handle executes the raw history query
func (h *HistoryByProductHandler) Handle(query HistoryByProductQuery) ([]domain.PriceHistory, error) {
	entries, err := h.history.FindByProduct(query.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return entries, nil
}
