package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/tair/price-forecasting/internal/forecast/domain"
	"github.com/tair/price-forecasting/pkg/logger"
)

// Client calls the remote ML forecasting service. The remote model is
// treated as an unreliable dependency: any failure is absorbed and a
// locally synthesized forecast is returned instead, so callers always
// receive a well-formed response. No retries are attempted.
type Client struct {
	httpClient *http.Client
	baseURL    string
	now        func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewClient creates a new ML service client. httpClient, rng and now
// may be nil; sensible defaults are used.
func NewClient(baseURL string, httpClient *http.Client, rng *rand.Rand, now func() time.Time) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		now:        now,
		rng:        rng,
	}
}

// GenerateForecast posts the price series to the ML service and parses
// its response. On any failure (transport error, non-success status,
// malformed payload) it falls back to Synthesize and returns a nil error.
func (c *Client) GenerateForecast(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	resp, err := c.callRemote(ctx, req)
	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("scenario", req.Scenario).
			Int("forecast_days", req.ForecastDays).
			Msg("ML service unavailable, using fallback forecast")
		return c.Synthesize(req), nil
	}
	return resp, nil
}

func (c *Client) callRemote(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/forecast", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("ML service returned status %d", httpResp.StatusCode)
	}

	var resp domain.ForecastResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &resp, nil
}

// Synthesize builds a plausible-looking forecast locally. The last
// known price is the anchor; each forecast day independently perturbs
// the anchor by a uniform value in [-5%, +5%] (no compounding), with
// dates following the anchor date day by day.
func (c *Client) Synthesize(req domain.ForecastRequest) *domain.ForecastResponse {
	var anchorPrice float64
	if len(req.PriceHistory) > 0 {
		anchorPrice = req.PriceHistory[len(req.PriceHistory)-1]
	}

	anchorDate := c.now()
	if len(req.Dates) > 0 {
		if parsed, err := time.Parse(domain.DateFormat, req.Dates[len(req.Dates)-1]); err == nil {
			anchorDate = parsed
		}
	}

	predictions := make([]float64, 0, req.ForecastDays)
	dates := make([]string, 0, req.ForecastDays)

	c.mu.Lock()
	for i := 0; i < req.ForecastDays; i++ {
		change := c.rng.Float64()*0.1 - 0.05
		predictions = append(predictions, math.Round(anchorPrice*(1+change)*100)/100)
		dates = append(dates, anchorDate.AddDate(0, 0, i+1).Format(domain.DateFormat))
	}
	c.mu.Unlock()

	return &domain.ForecastResponse{
		Forecast: domain.ForecastSeries{
			Predictions: predictions,
			Dates:       dates,
			Trend:       "stable",
			PeriodDays:  req.ForecastDays,
		},
		Metrics: domain.Metrics{
			InferenceTime: 0.05,
			ModelName:     "fallback",
		},
		Confidence: domain.Confidence{
			Value: 0.7,
			Level: "moderate",
			Components: domain.ConfidenceComponents{
				DataQuality:     0.8,
				ModelQuality:    0.6,
				ExternalFactors: 0.7,
			},
		},
		Recommendation: domain.Recommendation{
			PriceAction: "hold",
			Percentage:  0,
			Timeframe:   "1 week",
			Confidence:  0.7,
			Reasoning:   "analysis shows a stable price situation",
			Scenario:    req.Scenario,
		},
		CurrentPrice: anchorPrice,
	}
}
