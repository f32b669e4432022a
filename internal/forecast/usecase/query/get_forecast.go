package query

import (
	"context"
	"fmt"
	"time"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

// GetForecastQuery represents the query to forecast prices for an article
type GetForecastQuery struct {
	Article  string
	Days     int    // defaults to 7
	Scenario string // defaults to "optimist"
}

// ForecastPoint is a single predicted price with its date
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ForecastDetails is the prediction series shaped for presentation
type ForecastDetails struct {
	Predictions []ForecastPoint `json:"predictions"`
	Dates       []string        `json:"dates"`
	Trend       string          `json:"trend"`
	PeriodDays  int             `json:"period_days"`
}

// GetForecastResult combines the forecast with the product snapshot and
// flattened values/dates arrays for direct chart consumption.
type GetForecastResult struct {
	Forecast       ForecastDetails       `json:"forecast"`
	Product        ProductSnapshot       `json:"product"`
	Values         []float64             `json:"values"`
	Dates          []string              `json:"dates"`
	Metrics        domain.Metrics        `json:"metrics"`
	Confidence     domain.Confidence     `json:"confidence"`
	Recommendation domain.Recommendation `json:"recommendation"`
}

// GetForecastHandler handles the forecast query
type GetForecastHandler struct {
	products   catalogdomain.ProductRepository
	history    pricingdomain.PriceHistoryRepository
	forecaster domain.Forecaster
	now        func() time.Time
}

// NewGetForecastHandler creates a new forecast handler
func NewGetForecastHandler(
	products catalogdomain.ProductRepository,
	history pricingdomain.PriceHistoryRepository,
	forecaster domain.Forecaster,
	now func() time.Time,
) *GetForecastHandler {
	if now == nil {
		now = time.Now
	}
	return &GetForecastHandler{products: products, history: history, forecaster: forecaster, now: now}
}

// Handle executes the forecast query
func (h *GetForecastHandler) Handle(ctx context.Context, query GetForecastQuery) (*GetForecastResult, error) {
	if query.Days <= 0 {
		query.Days = 7
	}
	if query.Scenario == "" {
		query.Scenario = domain.ScenarioOptimist
	}

	product, err := h.products.FindByArticle(query.Article)
	if err != nil {
		return nil, err
	}

	since := h.now().AddDate(0, 0, -domain.ForecastLookbackDays)
	history, err := h.history.FindByProductSince(product.ID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}

	if len(history) < domain.MinDataPoints {
		return nil, &domain.InsufficientDataError{
			Found:    len(history),
			Required: domain.MinDataPoints,
		}
	}

	prices, dates := seriesToRequest(history)
	resp, err := h.forecaster.GenerateForecast(ctx, domain.ForecastRequest{
		PriceHistory: prices,
		Dates:        dates,
		Scenario:     query.Scenario,
		ForecastDays: query.Days,
	})
	if err != nil {
		return nil, fmt.Errorf("forecast failed: %w", err)
	}

	points := make([]ForecastPoint, 0, len(resp.Forecast.Predictions))
	for i, price := range resp.Forecast.Predictions {
		var date time.Time
		if i < len(resp.Forecast.Dates) {
			date, _ = time.Parse(domain.DateFormat, resp.Forecast.Dates[i])
		}
		points = append(points, ForecastPoint{Date: date, Price: price})
	}

	return &GetForecastResult{
		Forecast: ForecastDetails{
			Predictions: points,
			Dates:       resp.Forecast.Dates,
			Trend:       resp.Forecast.Trend,
			PeriodDays:  resp.Forecast.PeriodDays,
		},
		Product:        snapshotOf(product, history),
		Values:         resp.Forecast.Predictions,
		Dates:          resp.Forecast.Dates,
		Metrics:        resp.Metrics,
		Confidence:     resp.Confidence,
		Recommendation: resp.Recommendation,
	}, nil
}
