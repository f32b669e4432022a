package domain

import (
	"context"
	"errors"
	"fmt"
)

// DateFormat is the wire format for dates exchanged with the ML service
const DateFormat = "2006-01-02"

// MinDataPoints is the minimum number of historical prices required
// before a forecast is attempted.
const MinDataPoints = 7

// ForecastLookbackDays is the history window used for forecasts
const ForecastLookbackDays = 90

// Scenarios supported by the forecaster
const (
	ScenarioOptimist  = "optimist"
	ScenarioPessimist = "pessimist"
)

// ErrNoAnalysisData is returned by the analyze flow when a product has
// no price history in the requested period.
var ErrNoAnalysisData = errors.New("no price data for analysis")

// InsufficientDataError reports how many history points were found
// against the required minimum.
type InsufficientDataError struct {
	Found    int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient price history: %d points found, %d required", e.Found, e.Required)
}

// ForecastRequest is the request sent to the ML service. Prices and
// dates are parallel slices ordered chronologically.
type ForecastRequest struct {
	PriceHistory []float64 `json:"price_history"`
	Dates        []string  `json:"dates"`
	Scenario     string    `json:"scenario"`
	ForecastDays int       `json:"forecast_days"`
}

// ForecastSeries holds the predicted price series
type ForecastSeries struct {
	Predictions []float64 `json:"predictions"`
	Dates       []string  `json:"dates"`
	Trend       string    `json:"trend"`
	PeriodDays  int       `json:"period_days"`
}

// Metrics describes the model run that produced a forecast
type Metrics struct {
	InferenceTime float64 `json:"inference_time"`
	ModelName     string  `json:"model_name"`
}

// ConfidenceComponents breaks the confidence score down by source
type ConfidenceComponents struct {
	DataQuality     float64 `json:"data_quality"`
	ModelQuality    float64 `json:"model_quality"`
	ExternalFactors float64 `json:"external_factors"`
}

// Confidence is the overall confidence score in [0,1] with a breakdown
type Confidence struct {
	Value      float64              `json:"value"`
	Level      string               `json:"level"`
	Components ConfidenceComponents `json:"components"`
}

// Recommendation is the suggested price action derived from a forecast
type Recommendation struct {
	PriceAction string  `json:"price_action"`
	Percentage  float64 `json:"percentage"`
	Timeframe   string  `json:"timeframe"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
	Scenario    string  `json:"scenario"`
}

// ForecastResponse is the full ML service response
type ForecastResponse struct {
	Forecast       ForecastSeries `json:"forecast"`
	Metrics        Metrics        `json:"metrics"`
	Confidence     Confidence     `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`
	CurrentPrice   float64        `json:"current_price"`
}

// Forecaster produces a forecast for a price series. Implementations
// must always return a well-formed response for a valid request; an
// unreachable model is recovered internally, not surfaced.
type Forecaster interface {
	GenerateForecast(ctx context.Context, req ForecastRequest) (*ForecastResponse, error)
}
