package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func seededRepos(points int) (*fakeProductRepo, *fakeHistoryRepo) {
	products := &fakeProductRepo{products: map[string]*catalogdomain.Product{
		"482159736": {ID: 1, Article: "482159736", Name: "iPhone 15 128GB", CategoryID: 1},
	}}

	entries := make([]pricingdomain.PriceHistory, 0, points)
	for i := 0; i < points; i++ {
		entries = append(entries, pricingdomain.PriceHistory{
			ID:        uint(i + 1),
			ProductID: 1,
			Price:     50000 + float64(i)*100,
			CreatedAt: testNow.AddDate(0, 0, -points+i+1),
		})
	}
	history := &fakeHistoryRepo{entries: map[uint][]pricingdomain.PriceHistory{1: entries}}

	return products, history
}

func stubResponse() *domain.ForecastResponse {
	return &domain.ForecastResponse{
		Forecast: domain.ForecastSeries{
			Predictions: []float64{51000, 51200},
			Dates:       []string{"2024-03-16", "2024-03-17"},
			Trend:       "up",
			PeriodDays:  2,
		},
		Metrics:    domain.Metrics{InferenceTime: 0.1, ModelName: "lstm"},
		Confidence: domain.Confidence{Value: 0.9, Level: "high"},
		Recommendation: domain.Recommendation{
			PriceAction: "increase",
			Percentage:  2.5,
			Timeframe:   "1 week",
			Confidence:  0.9,
			Reasoning:   "upward trend",
			Scenario:    domain.ScenarioOptimist,
		},
	}
}

func TestGetForecast_UnknownArticle(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetForecastHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), GetForecastQuery{Article: "no-such-article"})

	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	assert.Zero(t, history.queries, "missing product must short-circuit before any history query")
	assert.Zero(t, forecaster.calls)
}

func TestGetForecast_InsufficientData(t *testing.T) {
	products, history := seededRepos(5)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetForecastHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), GetForecastQuery{Article: "482159736"})

	var insufficient *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 5, insufficient.Found)
	assert.Equal(t, 7, insufficient.Required)
	assert.Zero(t, forecaster.calls, "no remote call on insufficient data")
}

func TestGetForecast_ComposesResponse(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetForecastHandler(products, history, forecaster, fixedClock)

	result, err := h.Handle(context.Background(), GetForecastQuery{
		Article:  "482159736",
		Days:     2,
		Scenario: domain.ScenarioPessimist,
	})

	require.NoError(t, err)
	require.Equal(t, 1, forecaster.calls)

	// The forecaster received the full retrieved series
	assert.Len(t, forecaster.lastReq.PriceHistory, 10)
	assert.Len(t, forecaster.lastReq.Dates, 10)
	assert.Equal(t, domain.ScenarioPessimist, forecaster.lastReq.Scenario)
	assert.Equal(t, 2, forecaster.lastReq.ForecastDays)

	// Predictions zipped with parsed dates
	require.Len(t, result.Forecast.Predictions, 2)
	assert.Equal(t, 51000.0, result.Forecast.Predictions[0].Price)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), result.Forecast.Predictions[0].Date)
	assert.Equal(t, "up", result.Forecast.Trend)

	// Product snapshot uses the latest history entry
	assert.Equal(t, uint(1), result.Product.ID)
	assert.Equal(t, 50900.0, result.Product.CurrentPrice)
	assert.Equal(t, testNow, result.Product.LastPriceUpdate)

	// Flattened chart arrays mirror the forecast series
	assert.Equal(t, []float64{51000, 51200}, result.Values)
	assert.Equal(t, []string{"2024-03-16", "2024-03-17"}, result.Dates)

	assert.Equal(t, "lstm", result.Metrics.ModelName)
	assert.InDelta(t, 0.9, result.Confidence.Value, 1e-9)
	assert.Equal(t, "increase", result.Recommendation.PriceAction)
}

func TestGetForecast_Defaults(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetForecastHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), GetForecastQuery{Article: "482159736"})

	require.NoError(t, err)
	assert.Equal(t, 7, forecaster.lastReq.ForecastDays)
	assert.Equal(t, domain.ScenarioOptimist, forecaster.lastReq.Scenario)
}
