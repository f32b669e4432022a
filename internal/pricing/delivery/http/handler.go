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
	"github.com/tair/price-forecasting/internal/pricing/domain"
	"github.com/tair/price-forecasting/internal/pricing/usecase/query"
	"github.com/tair/price-forecasting/pkg/logger"
)

// PricingHandler handles HTTP requests for price data
type PricingHandler struct {
	demoPriceHandler     *query.DemoPriceHandler
	productPricesHandler *query.ProductPricesHandler
	historyHandler       *query.HistoryByProductHandler
	latestPricesHandler  *query.LatestPricesHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(
	products catalogdomain.ProductRepository,
	history domain.PriceHistoryRepository,
) *PricingHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_requests_total",
			Help: "Total number of requests to pricing endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricing_request_duration_seconds",
			Help:    "Duration of pricing endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &PricingHandler{
		demoPriceHandler:     query.NewDemoPriceHandler(products, history),
		productPricesHandler: query.NewProductPricesHandler(products, history),
		historyHandler:       query.NewHistoryByProductHandler(history),
		latestPricesHandler:  query.NewLatestPricesHandler(history),
		requestCounter:       requestCounter,
		requestLatency:       requestLatency,
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
func (h *PricingHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/price/demo/{article}", h.metricsMiddleware("/api/price/demo/{article}", h.DemoPrice)).Methods("GET")
	router.HandleFunc("/api/price/product/{productId}", h.metricsMiddleware("/api/price/product/{productId}", h.ProductPrices)).Methods("GET")
	router.HandleFunc("/api/price-history/product/{productId}", h.metricsMiddleware("/api/price-history/product/{productId}", h.HistoryByProduct)).Methods("GET")
	router.HandleFunc("/api/price-history/latest", h.metricsMiddleware("/api/price-history/latest", h.LatestPrices)).Methods("GET")
}

// DemoPrice handles GET /api/price/demo/{article}
func (h *PricingHandler) DemoPrice(w http.ResponseWriter, r *http.Request) {
	article := mux.Vars(r)["article"]

	result, err := h.demoPriceHandler.Handle(query.DemoPriceQuery{Article: article})
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load demo price")
		respondError(w, http.StatusInternalServerError, "Failed to load price")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ProductPrices handles GET /api/price/product/{productId}
func (h *PricingHandler) ProductPrices(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(mux.Vars(r)["productId"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	result, err := h.productPricesHandler.Handle(query.ProductPricesQuery{ProductID: uint(productID)})
	if errors.Is(err, catalogdomain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load product prices")
		respondError(w, http.StatusInternalServerError, "Failed to load prices")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HistoryByProduct handles GET /api/price-history/product/{productId}
func (h *PricingHandler) HistoryByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseUint(mux.Vars(r)["productId"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	history, err := h.historyHandler.Handle(query.HistoryByProductQuery{ProductID: uint(productID)})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load price history")
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// LatestPrices handles GET /api/price-history/latest
func (h *PricingHandler) LatestPrices(w http.ResponseWriter, r *http.Request) {
	latest, err := h.latestPricesHandler.Handle(query.LatestPricesQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to load latest prices")
		respondError(w, http.StatusInternalServerError, "Failed to load latest prices")
		return
	}

	respondJSON(w, http.StatusOK, latest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
