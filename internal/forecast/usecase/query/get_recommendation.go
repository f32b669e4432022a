package query

import (
	"context"
	"fmt"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

// GetRecommendationQuery represents the query to get a price recommendation
type GetRecommendationQuery struct {
	Article  string
	Period   int    // lookback window in days, defaults to 30
	Scenario string // defaults to "optimist"
}

// RecommendationResult is the price action suggested for a product
type RecommendationResult struct {
	PriceAction string  `json:"price_action"`
	Percentage  float64 `json:"percentage"`
	Timeframe   string  `json:"timeframe"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	Scenario    string  `json:"scenario"`
}

// GetRecommendationHandler handles the recommendation query
type GetRecommendationHandler struct {
	products   catalogdomain.ProductRepository
	history    pricingdomain.PriceHistoryRepository
	forecaster domain.Forecaster
	now        func() time.Time
}

// NewGetRecommendationHandler creates a new recommendation handler
func NewGetRecommendationHandler(
	products catalogdomain.ProductRepository,
	history pricingdomain.PriceHistoryRepository,
	forecaster domain.Forecaster,
	now func() time.Time,
) *GetRecommendationHandler {
	if now == nil {
		now = time.Now
	}
	return &GetRecommendationHandler{products: products, history: history, forecaster: forecaster, now: now}
}

// Handle executes the recommendation query. An unknown article fails
// before any history lookup; a product without history in the period
// yields a deterministic safe default without touching the forecaster.
func (h *GetRecommendationHandler) Handle(ctx context.Context, query GetRecommendationQuery) (*RecommendationResult, error) {
	if query.Period <= 0 {
		query.Period = 30
	}
	if query.Scenario == "" {
		query.Scenario = domain.ScenarioOptimist
	}

	product, err := h.products.FindByArticle(query.Article)
	if err != nil {
		return nil, err
	}

	since := h.now().AddDate(0, 0, -query.Period)
	history, err := h.history.FindByProductSince(product.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	if len(history) == 0 {
		return &RecommendationResult{
			PriceAction: "hold",
			Percentage:  0,
			Timeframe:   "n/a",
			Confidence:  0.3,
			Reasoning:   "insufficient data",
			Scenario:    query.Scenario,
		}, nil
	}

	prices, dates := seriesToRequest(history)
	resp, err := h.forecaster.GenerateForecast(ctx, domain.ForecastRequest{
		PriceHistory: prices,
		Dates:        dates,
		Scenario:     query.Scenario,
		ForecastDays: query.Period,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation failed: %w", err)
	}

	return &RecommendationResult{
		PriceAction: resp.Recommendation.PriceAction,
		Percentage:  resp.Recommendation.Percentage,
		Timeframe:   resp.Recommendation.Timeframe,
		Confidence:  resp.Recommendation.Confidence,
		Reasoning:   resp.Recommendation.Reasoning,
		Scenario:    resp.Recommendation.Scenario,
	}, nil
}
