package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/price-forecasting/pkg/logger"
)

// Config holds response cache configuration
type Config struct {
	TTL time.Duration
}

// DefaultConfig returns the default cache configuration.
// Recommendation and forecast responses stay valid for hours, so the
// TTL is deliberately long.
func DefaultConfig() Config {
	return Config{TTL: 6 * time.Hour}
}

// responseRecorder buffers the response so it can be stored after the
// handler has written it.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	rr.body.Write(b)
	return rr.ResponseWriter.Write(b)
}

// Middleware caches successful GET responses in Redis. A nil client
// disables caching entirely.
func Middleware(redisClient *redis.Client, config Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if redisClient == nil || r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := cacheKey(r)

			cached, err := redisClient.Get(ctx, key).Bytes()
			if err == nil && len(cached) > 0 {
				logger.Debug(ctx).
					Str("path", r.URL.Path).
					Str("cache_key", key).
					Msg("Cache hit")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Cache", "HIT")
				w.Write(cached)
				return
			}

			rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rr, r)

			if rr.statusCode != http.StatusOK {
				return
			}

			if err := redisClient.Set(ctx, key, rr.body.Bytes(), config.TTL).Err(); err != nil {
				logger.Warn(ctx).
					Err(err).
					Str("cache_key", key).
					Msg("Failed to cache response")
				return
			}

			logger.Debug(ctx).
				Str("path", r.URL.Path).
				Str("cache_key", key).
				Dur("ttl", config.TTL).
				Int("size", rr.body.Len()).
				Msg("Response cached")
		})
	}
}

// cacheKey derives a unique key from method, path and query string
func cacheKey(r *http.Request) string {
	components := fmt.Sprintf("%s:%s:%s", r.Method, r.URL.Path, r.URL.RawQuery)
	hash := sha256.Sum256([]byte(components))
	return fmt.Sprintf("cache:%s", hex.EncodeToString(hash[:]))
}
