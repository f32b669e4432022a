package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	catalogdomain "github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/forecast/domain"
	"github.com/tair/price-forecasting/internal/forecast/usecase/query"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
	"github.com/tair/price-forecasting/pkg/logger"
)

// ForecastHandler handles HTTP requests for forecasts and recommendations
type ForecastHandler struct {
	forecastHandler       *query.GetForecastHandler
	detailedHandler       *query.DetailedForecastHandler
	recommendationHandler *query.GetRecommendationHandler
	analyzeHandler        *query.AnalyzeProductHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(
	products catalogdomain.ProductRepository,
	history pricingdomain.PriceHistoryRepository,
	forecaster domain.Forecaster,
) *ForecastHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forecast_requests_total",
			Help: "Total number of requests to forecast endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forecast_request_duration_seconds",
			Help:    "Duration of forecast endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ForecastHandler{
		forecastHandler:       query.NewGetForecastHandler(products, history, forecaster, nil),
		detailedHandler:       query.NewDetailedForecastHandler(forecaster),
		recommendationHandler: query.NewGetRecommendationHandler(products, history, forecaster, nil),
		analyzeHandler:        query.NewAnalyzeProductHandler(products, history, forecaster, nil),
		requestCounter:        requestCounter,
		requestLatency:        requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ForecastHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers forecast routes
func (h *ForecastHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/forecast/detailed", h.metricsMiddleware("/api/forecast/detailed", h.DetailedForecast)).Methods("POST")
	router.HandleFunc("/api/forecast/{article}", h.metricsMiddleware("/api/forecast/{article}", h.GetForecast)).Methods("GET")
	router.HandleFunc("/api/recommendations/analyze", h.metricsMiddleware("/api/recommendations/analyze", h.AnalyzeProduct)).Methods("POST")
	router.HandleFunc("/api/recommendations/{article}", h.metricsMiddleware("/api/recommendations/{article}", h.GetRecommendation)).Methods("GET")
}

type insufficientDataResponse struct {
	Error      string `json:"error"`
	DataPoints int    `json:"data_points"`
	Required   int    `json:"required"`
}

// GetForecast handles GET /api/forecast/{article}?days=&scenario=
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	article := mux.Vars(r)["article"]
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	scenario := r.URL.Query().Get("scenario")

	result, err := h.forecastHandler.Handle(r.Context(), query.GetForecastQuery{
		Article:  article,
		Days:     days,
		Scenario: scenario,
	})
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	var insufficient *domain.InsufficientDataError
	if errors.As(err, &insufficient) {
		respondJSON(w, http.StatusBadRequest, insufficientDataResponse{
			Error:      "Insufficient historical data for a forecast",
			DataPoints: insufficient.Found,
			Required:   insufficient.Required,
		})
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("article", article).Msg("Forecast failed")
		respondError(w, http.StatusInternalServerError, "Forecast failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DetailedForecast handles POST /api/forecast/detailed
func (h *ForecastHandler) DetailedForecast(w http.ResponseWriter, r *http.Request) {
	var req domain.ForecastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.detailedHandler.Handle(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetRecommendation handles GET /api/recommendations/{article}?period=&scenario=
func (h *ForecastHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	article := mux.Vars(r)["article"]
	period, _ := strconv.Atoi(r.URL.Query().Get("period"))
	scenario := r.URL.Query().Get("scenario")

	result, err := h.recommendationHandler.Handle(r.Context(), query.GetRecommendationQuery{
		Article:  article,
		Period:   period,
		Scenario: scenario,
	})
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("article", article).Msg("Recommendation failed")
		respondError(w, http.StatusInternalServerError, "Recommendation failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type analyzeRequest struct {
	Article  string `json:"article"`
	Period   int    `json:"period"`
	Scenario string `json:"scenario"`
}

// AnalyzeProduct handles POST /api/recommendations/analyze
func (h *ForecastHandler) AnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.analyzeHandler.Handle(r.Context(), query.AnalyzeProductQuery{
		Article:  req.Article,
		Period:   req.Period,
		Scenario: req.Scenario,
	})
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if errors.Is(err, domain.ErrNoAnalysisData) {
		respondError(w, http.StatusBadRequest, "Not enough data for analysis")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Str("article", req.Article).Msg("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
