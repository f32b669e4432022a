package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	catalogDelivery "github.com/tair/price-forecasting/internal/catalog/delivery/http"
	catalogRepository "github.com/tair/price-forecasting/internal/catalog/repository"
	forecastClient "github.com/tair/price-forecasting/internal/forecast/client"
	forecastDelivery "github.com/tair/price-forecasting/internal/forecast/delivery/http"
	pricingDelivery "github.com/tair/price-forecasting/internal/pricing/delivery/http"
	pricingRepository "github.com/tair/price-forecasting/internal/pricing/repository"
	"github.com/tair/price-forecasting/internal/seed"
	userDelivery "github.com/tair/price-forecasting/internal/user/delivery/http"
	userRepository "github.com/tair/price-forecasting/internal/user/repository"
	"github.com/tair/price-forecasting/pkg/cache"
	"github.com/tair/price-forecasting/pkg/database"
	"github.com/tair/price-forecasting/pkg/logger"
	"github.com/tair/price-forecasting/pkg/middleware"
	"github.com/tair/price-forecasting/pkg/tracing"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "price-forecasting")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting price forecasting service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName, getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"))
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "forecastdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Initialize repositories and run migrations
	userRepo := userRepository.NewGormUserRepository(db)
	productRepo := catalogRepository.NewGormProductRepository(db)
	categoryRepo := catalogRepository.NewGormCategoryRepository(db)
	historyRepo := pricingRepository.NewGormPriceHistoryRepository(db)

	for _, migrate := range []func() error{
		userRepo.AutoMigrate,
		categoryRepo.AutoMigrate,
		productRepo.AutoMigrate,
		historyRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Seed demo data into empty tables. A failed seed leaves the service up.
	seeder := seed.NewSeeder(productRepo, categoryRepo, historyRepo, nil, nil)
	if err := seeder.Run(context.Background()); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to seed demo data")
	}

	// Connect to Redis for the response cache. Unreachable Redis disables
	// caching rather than failing startup.
	redisClient := newRedisClient(getEnv("REDIS_ADDR", "localhost:6379"))

	// Initialize the ML service client with its built-in fallback
	forecaster := forecastClient.NewClient(getEnv("ML_SERVICE_URL", "http://localhost:8000"), nil, nil, nil)

	// Initialize HTTP handlers
	userHandler := userDelivery.NewUserHandler(userRepo)
	catalogHandler := catalogDelivery.NewCatalogHandler(productRepo, categoryRepo, historyRepo)
	pricingHandler := pricingDelivery.NewPricingHandler(productRepo, historyRepo)
	forecastHandler := forecastDelivery.NewForecastHandler(productRepo, historyRepo, forecaster)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)

	userHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)
	pricingHandler.RegisterRoutes(router)

	// Forecast and recommendation GETs are served through the Redis cache
	cached := router.NewRoute().Subrouter()
	cached.Use(cache.Middleware(redisClient, cache.DefaultConfig()))
	forecastHandler.RegisterRoutes(cached)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(otelhttp.NewHandler(router, "http.server")),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to shut down HTTP server")
	}
}

// newRedisClient returns a verified Redis client, or nil when Redis is
// unavailable so the cache middleware becomes a no-op.
func newRedisClient(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", addr).Msg("Redis unavailable, response cache disabled")
		return nil
	}

	logger.Logger.Info().Str("addr", addr).Msg("Connected to Redis")
	return client
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
