package query

import (
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

// ProductSnapshot is the compact product view embedded in forecast and
// analysis responses. The current price comes from the latest entry of
// the series that was analyzed.
type ProductSnapshot struct {
	ID              uint      `json:"id"`
	Article         string    `json:"article"`
	Name            string    `json:"name"`
	CurrentPrice    float64   `json:"current_price"`
	LastPriceUpdate time.Time `json:"last_price_update"`
}

func snapshotOf(product *catalogdomain.Product, history []pricingdomain.PriceHistory) ProductSnapshot {
	snapshot := ProductSnapshot{
		ID:      product.ID,
		Article: product.Article,
		Name:    product.Name,
	}
	if len(history) > 0 {
		last := history[len(history)-1]
		snapshot.CurrentPrice = last.Price
		snapshot.LastPriceUpdate = last.CreatedAt
	}
	return snapshot
}

func seriesToRequest(history []pricingdomain.PriceHistory) (prices []float64, dates []string) {
	prices = make([]float64, 0, len(history))
	dates = make([]string, 0, len(history))
	for _, entry := range history {
		prices = append(prices, entry.Price)
		dates = append(dates, entry.CreatedAt.Format("2006-01-02"))
	}
	return prices, dates
}
