package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
)

func TestGetRecommendation_UnknownArticle(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetRecommendationHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), GetRecommendationQuery{Article: "missing"})

	require.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	assert.Zero(t, history.queries)
	assert.Zero(t, forecaster.calls)
}

func TestGetRecommendation_EmptyHistorySafeDefault(t *testing.T) {
	products, history := seededRepos(0)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetRecommendationHandler(products, history, forecaster, fixedClock)

	result, err := h.Handle(context.Background(), GetRecommendationQuery{
		Article:  "482159736",
		Scenario: domain.ScenarioPessimist,
	})

	require.NoError(t, err)
	assert.Equal(t, &RecommendationResult{
		PriceAction: "hold",
		Percentage:  0,
		Timeframe:   "n/a",
		Confidence:  0.3,
		Reasoning:   "insufficient data",
		Scenario:    domain.ScenarioPessimist,
	}, result)
	assert.Zero(t, forecaster.calls, "no remote call when history is empty")
}

func TestGetRecommendation_RepackagesForecast(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetRecommendationHandler(products, history, forecaster, fixedClock)

	result, err := h.Handle(context.Background(), GetRecommendationQuery{
		Article: "482159736",
		Period:  14,
	})

	require.NoError(t, err)
	require.Equal(t, 1, forecaster.calls)

	// The retrieved series goes out, not a placeholder
	assert.NotEmpty(t, forecaster.lastReq.PriceHistory)
	assert.Equal(t, len(forecaster.lastReq.PriceHistory), len(forecaster.lastReq.Dates))
	assert.Equal(t, 14, forecaster.lastReq.ForecastDays)

	assert.Equal(t, "increase", result.PriceAction)
	assert.InDelta(t, 2.5, result.Percentage, 1e-9)
	assert.Equal(t, "upward trend", result.Reasoning)
	assert.Equal(t, domain.ScenarioOptimist, result.Scenario)
}

func TestGetRecommendation_DefaultPeriod(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewGetRecommendationHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), GetRecommendationQuery{Article: "482159736"})

	require.NoError(t, err)
	assert.Equal(t, 30, forecaster.lastReq.ForecastDays)
}

func TestAnalyzeProduct_EmptyHistoryRejected(t *testing.T) {
	products, history := seededRepos(0)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewAnalyzeProductHandler(products, history, forecaster, fixedClock)

	_, err := h.Handle(context.Background(), AnalyzeProductQuery{Article: "482159736"})

	// Stricter than the by-article flow: no safe default here
	require.ErrorIs(t, err, domain.ErrNoAnalysisData)
	assert.Zero(t, forecaster.calls)
}

func TestAnalyzeProduct_ComposesSnapshot(t *testing.T) {
	products, history := seededRepos(10)
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewAnalyzeProductHandler(products, history, forecaster, fixedClock)

	result, err := h.Handle(context.Background(), AnalyzeProductQuery{
		Article: "482159736",
		Period:  20,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), result.Product.ID)
	assert.Equal(t, 50900.0, result.Product.CurrentPrice)
	assert.Equal(t, 10, result.DataPoints)
	assert.Equal(t, 20, result.AnalysisPeriod)
	assert.Equal(t, "increase", result.Recommendation.PriceAction)
}

func TestDetailedForecast_Validation(t *testing.T) {
	forecaster := &stubForecaster{response: stubResponse()}
	h := NewDetailedForecastHandler(forecaster)

	t.Run("TooFewPoints", func(t *testing.T) {
		_, err := h.Handle(context.Background(), domain.ForecastRequest{
			PriceHistory: []float64{1, 2, 3},
			Dates:        []string{"2024-01-01", "2024-01-02", "2024-01-03"},
		})
		assert.Error(t, err)
		assert.Zero(t, forecaster.calls)
	})

	t.Run("MismatchedDates", func(t *testing.T) {
		_, err := h.Handle(context.Background(), domain.ForecastRequest{
			PriceHistory: []float64{1, 2, 3, 4, 5, 6, 7},
			Dates:        []string{"2024-01-01"},
		})
		assert.Error(t, err)
		assert.Zero(t, forecaster.calls)
	})

	t.Run("ValidRequest", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), domain.ForecastRequest{
			PriceHistory: []float64{1, 2, 3, 4, 5, 6, 7},
			Dates: []string{
				"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04",
				"2024-01-05", "2024-01-06", "2024-01-07",
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "up", resp.Forecast.Trend)
		assert.Equal(t, 7, forecaster.lastReq.ForecastDays)
		assert.Equal(t, domain.ScenarioOptimist, forecaster.lastReq.Scenario)
	})
}
