package client

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/price-forecasting/internal/forecast/domain"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func testRequest(days int) domain.ForecastRequest {
	return domain.ForecastRequest{
		PriceHistory: []float64{50000, 51000, 52000, 51500, 52500},
		Dates:        []string{"2024-03-10", "2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14"},
		Scenario:     domain.ScenarioOptimist,
		ForecastDays: days,
	}
}

func TestGenerateForecast_RemoteSuccess(t *testing.T) {
	var gotReq domain.ForecastRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/forecast", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(domain.ForecastResponse{
			Forecast: domain.ForecastSeries{
				Predictions: []float64{53000, 53500},
				Dates:       []string{"2024-03-15", "2024-03-16"},
				Trend:       "up",
				PeriodDays:  2,
			},
			Confidence: domain.Confidence{Value: 0.85, Level: "high"},
			Recommendation: domain.Recommendation{
				PriceAction: "increase",
				Percentage:  3.5,
				Scenario:    domain.ScenarioOptimist,
			},
			CurrentPrice: 52500,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), nil, fixedNow)
	resp, err := c.GenerateForecast(context.Background(), testRequest(2))

	require.NoError(t, err)
	assert.Equal(t, testRequest(2), gotReq)
	assert.Equal(t, "up", resp.Forecast.Trend)
	assert.Equal(t, []float64{53000, 53500}, resp.Forecast.Predictions)
	assert.Equal(t, "increase", resp.Recommendation.PriceAction)
	assert.InDelta(t, 0.85, resp.Confidence.Value, 1e-9)
}

func TestGenerateForecast_FallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), rand.New(rand.NewSource(1)), fixedNow)
	resp, err := c.GenerateForecast(context.Background(), testRequest(7))

	require.NoError(t, err, "remote failure must never surface to the caller")
	assertFallbackShape(t, resp, 7)
}

func TestGenerateForecast_FallbackOnUnreachableService(t *testing.T) {
	// Closed server: connection refused
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, nil, rand.New(rand.NewSource(2)), fixedNow)
	resp, err := c.GenerateForecast(context.Background(), testRequest(3))

	require.NoError(t, err)
	assertFallbackShape(t, resp, 3)
}

func TestGenerateForecast_FallbackOnMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client(), rand.New(rand.NewSource(3)), fixedNow)
	resp, err := c.GenerateForecast(context.Background(), testRequest(5))

	require.NoError(t, err)
	assertFallbackShape(t, resp, 5)
}

func assertFallbackShape(t *testing.T, resp *domain.ForecastResponse, days int) {
	t.Helper()

	require.Len(t, resp.Forecast.Predictions, days)
	require.Len(t, resp.Forecast.Dates, days)
	assert.Equal(t, "stable", resp.Forecast.Trend)
	assert.Equal(t, days, resp.Forecast.PeriodDays)

	// Every prediction is within +/-5% of the anchor price
	for _, p := range resp.Forecast.Predictions {
		assert.GreaterOrEqual(t, p, 52500*0.95)
		assert.LessOrEqual(t, p, 52500*1.05)
	}

	// Dates strictly increase day by day after the anchor date
	anchor, err := time.Parse(domain.DateFormat, "2024-03-14")
	require.NoError(t, err)
	for i, d := range resp.Forecast.Dates {
		parsed, err := time.Parse(domain.DateFormat, d)
		require.NoError(t, err)
		assert.Equal(t, anchor.AddDate(0, 0, i+1), parsed)
	}

	assert.InDelta(t, 0.7, resp.Confidence.Value, 1e-9)
	assert.Equal(t, "hold", resp.Recommendation.PriceAction)
	assert.Zero(t, resp.Recommendation.Percentage)
	assert.Equal(t, domain.ScenarioOptimist, resp.Recommendation.Scenario)
	assert.InDelta(t, 52500, resp.CurrentPrice, 1e-9)
}

func TestSynthesize_EmptySeriesUsesClock(t *testing.T) {
	c := NewClient("http://unused", nil, rand.New(rand.NewSource(4)), fixedNow)

	resp := c.Synthesize(domain.ForecastRequest{Scenario: domain.ScenarioPessimist, ForecastDays: 2})

	require.Len(t, resp.Forecast.Dates, 2)
	assert.Equal(t, "2024-03-16", resp.Forecast.Dates[0])
	assert.Equal(t, "2024-03-17", resp.Forecast.Dates[1])
	assert.Equal(t, []float64{0, 0}, resp.Forecast.Predictions)
	assert.Equal(t, domain.ScenarioPessimist, resp.Recommendation.Scenario)
}
