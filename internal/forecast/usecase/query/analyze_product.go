package query

import (
	"context"
	"fmt"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

// AnalyzeProductQuery represents the explicit analysis request
type AnalyzeProductQuery struct {
	Article  string
	Period   int
	Scenario string
}

// AnalyzeProductResult adds the product snapshot and data stats to a
// recommendation
type AnalyzeProductResult struct {
	Product        ProductSnapshot      `json:"product"`
	Recommendation RecommendationResult `json:"recommendation"`
	DataPoints     int                  `json:"data_points"`
	AnalysisPeriod int                  `json:"analysis_period"`
}

// AnalyzeProductHandler handles the analyze query. Unlike the plain
// recommendation flow it rejects a product without history instead of
// defaulting: both behaviors exist upstream and are kept distinct.
type AnalyzeProductHandler struct {
	products   catalogdomain.ProductRepository
	history    pricingdomain.PriceHistoryRepository
	forecaster domain.Forecaster
	now        func() time.Time
}

// NewAnalyzeProductHandler creates a new analyze handler
func NewAnalyzeProductHandler(
	products catalogdomain.ProductRepository,
	history pricingdomain.PriceHistoryRepository,
	forecaster domain.Forecaster,
	now func() time.Time,
) *AnalyzeProductHandler {
	if now == nil {
		now = time.Now
	}
	return &AnalyzeProductHandler{products: products, history: history, forecaster: forecaster, now: now}
}

// Handle executes the analyze query
func (h *AnalyzeProductHandler) Handle(ctx context.Context, query AnalyzeProductQuery) (*AnalyzeProductResult, error) {
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
		return nil, domain.ErrNoAnalysisData
	}

	prices, dates := seriesToRequest(history)
	resp, err := h.forecaster.GenerateForecast(ctx, domain.ForecastRequest{
		PriceHistory: prices,
		Dates:        dates,
		Scenario:     query.Scenario,
		ForecastDays: query.Period,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	return &AnalyzeProductResult{
		Product: snapshotOf(product, history),
		Recommendation: RecommendationResult{
			PriceAction: resp.Recommendation.PriceAction,
			Percentage:  resp.Recommendation.Percentage,
			Timeframe:   resp.Recommendation.Timeframe,
			Confidence:  resp.Recommendation.Confidence,
			Reasoning:   resp.Recommendation.Reasoning,
			Scenario:    resp.Recommendation.Scenario,
		},
		DataPoints:     len(history),
		AnalysisPeriod: query.Period,
	}, nil
}
