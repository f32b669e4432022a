package query

import (
	"context"
	"fmt"

	"github.com/tair/price-forecasting/internal/forecast/domain"
)

// DetailedForecastHandler handles direct forecast requests carrying an
// explicit price series
type DetailedForecastHandler struct {
	forecaster domain.Forecaster
}

// NewDetailedForecastHandler creates a new detailed forecast handler
func NewDetailedForecastHandler(forecaster domain.Forecaster) *DetailedForecastHandler {
	return &DetailedForecastHandler{forecaster: forecaster}
}

// Handle validates the series and delegates to the forecaster
func (h *DetailedForecastHandler) Handle(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	if len(req.PriceHistory) < domain.MinDataPoints {
		return nil, fmt.Errorf("at least %d data points are required", domain.MinDataPoints)
	}
	if len(req.Dates) != len(req.PriceHistory) {
		return nil, fmt.Errorf("dates count must match price count")
	}
	if req.ForecastDays <= 0 {
		req.ForecastDays = 7
	}
	if req.Scenario == "" {
		req.Scenario = domain.ScenarioOptimist
	}

	return h.forecaster.GenerateForecast(ctx, req)
}
