package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/price-forecasting/internal/catalog/domain"
	"github.com/tair/price-forecasting/internal/catalog/usecase/query"
	pricingdomain "github.com/tair/price-forecasting/internal/pricing/domain"
	"github.com/tair/price-forecasting/pkg/logger"
)

// CatalogHandler handles HTTP requests for products and categories
type CatalogHandler struct {
	getProductHandler     *query.GetProductHandler
	listProductsHandler   *query.ListProductsHandler
	getCategoryHandler    *query.GetCategoryHandler
	listCategoriesHandler *query.ListCategoriesHandler
	categoryTreeHandler   *query.CategoryTreeHandler
	dataCheckHandler      *query.DataCheckHandler

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	history pricingdomain.PriceHistoryRepository,
) *CatalogHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of requests to catalog endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog endpoint requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &CatalogHandler{
		getProductHandler:     query.NewGetProductHandler(products),
		listProductsHandler:   query.NewListProductsHandler(products),
		getCategoryHandler:    query.NewGetCategoryHandler(categories),
		listCategoriesHandler: query.NewListCategoriesHandler(categories),
		categoryTreeHandler:   query.NewCategoryTreeHandler(categories),
		dataCheckHandler:      query.NewDataCheckHandler(products, history),
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
func (h *CatalogHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", h.metricsMiddleware("/api/categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/categories/tree", h.metricsMiddleware("/api/categories/tree", h.CategoryTree)).Methods("GET")
	router.HandleFunc("/api/categories/{id}", h.metricsMiddleware("/api/categories/{id}", h.GetCategory)).Methods("GET")

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/datacheck", h.metricsMiddleware("/api/products/datacheck", h.DataCheck)).Methods("POST")
	router.HandleFunc("/api/products/by-category/{categoryId}", h.metricsMiddleware("/api/products/by-category/{categoryId}", h.ListByCategory)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET")
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.listCategoriesHandler.Handle(query.ListCategoriesQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list categories")
		respondError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /api/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	category, err := h.getCategoryHandler.Handle(query.GetCategoryQuery{ID: uint(id)})
	if err != nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// CategoryTree handles GET /api/categories/tree
func (h *CatalogHandler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	forest, err := h.categoryTreeHandler.Handle(query.CategoryTreeQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build category tree")
		respondError(w, http.StatusInternalServerError, "Failed to build category tree")
		return
	}

	respondJSON(w, http.StatusOK, forest)
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProductsHandler.Handle(query.ListProductsQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// ListByCategory handles GET /api/products/by-category/{categoryId}
func (h *CatalogHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseUint(mux.Vars(r)["categoryId"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}

	products, err := h.listProductsHandler.Handle(query.ListProductsQuery{CategoryID: uint(categoryID)})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products by category")
		respondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.getProductHandler.Handle(query.GetProductQuery{ID: uint(id)})
	if err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

type dataCheckRequest struct {
	Article string `json:"article"`
}

// DataCheck handles POST /api/products/datacheck
func (h *CatalogHandler) DataCheck(w http.ResponseWriter, r *http.Request) {
	var req dataCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Article == "" {
		respondError(w, http.StatusBadRequest, "Article is required")
		return
	}

	result, err := h.dataCheckHandler.Handle(query.DataCheckQuery{Article: req.Article})
	if errors.Is(err, domain.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Data check failed")
		respondError(w, http.StatusInternalServerError, "Data check failed")
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
