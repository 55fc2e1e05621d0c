// cmd/api/main.go
// Main entry point for the discovery API
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/imadgeboyega/sangam-discovery/internal/auth"
	"github.com/imadgeboyega/sangam-discovery/internal/common/database"
	"github.com/imadgeboyega/sangam-discovery/internal/common/logging"
	"github.com/imadgeboyega/sangam-discovery/internal/config"
	"github.com/imadgeboyega/sangam-discovery/internal/dating"
	"github.com/imadgeboyega/sangam-discovery/internal/profile"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	envErr := godotenv.Load()

	// 2. Load and validate configuration
	cfg := config.Load()
	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if envErr != nil {
		logger.Debug().Err(envErr).Msg("no .env file found, using environment variables")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("configuration validation failed")
	}

	matching, err := dating.LoadMatchingConfig(cfg.MatchingConfigPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("matching configuration invalid")
	}

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDB(&database.PostgresConfig{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxLifetime:  cfg.DBConnLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to PostgreSQL")
	}
	defer db.Close()
	logger.Info().Msg("connected to PostgreSQL")

	// 4. Connect to Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL, 0)
		if err != nil {
			logger.Warn().Err(err).Msg("continuing without Redis")
		} else {
			defer redisClient.Close()
			logger.Info().Msg("connected to Redis")
		}
	}

	var nameCache profile.NameCache
	if redisClient != nil {
		nameCache = profile.NewRedisNameCache(redisClient, cfg.LocationCacheTTL)
	} else {
		nameCache = profile.NewMemoryNameCache()
	}
	locations := profile.NewLocationResolver(nameCache, profile.NewPostgresNameSource(db), logger)

	// 5. Repositories behind circuit breakers
	breakerCfg := database.DefaultBreakerConfig()
	breakerCfg.Timeout = cfg.BreakerTimeout
	breakerCfg.MinRequests = uint32(cfg.BreakerMinRequests)
	breakerCfg.FailureRatio = cfg.BreakerFailureRatio

	profiles := profile.NewPostgresRepository(db, locations,
		database.NewBreaker("profile-store", breakerCfg, logger, profile.ErrProfileNotFound))
	ledger := dating.NewPostgresDecisionLedger(db,
		database.NewBreaker("decision-ledger", breakerCfg, logger))

	// 6. Photo storage
	var photos profile.PhotoResolver
	if cfg.UseS3 {
		s3Photos, err := profile.NewS3PhotoResolver(cfg.S3Bucket, cfg.AWSRegion, cfg.PhotoURLExpiry)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize S3 photo resolver")
		}
		photos = s3Photos
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("using S3 for photo URLs")
	} else {
		photos = profile.NewLocalPhotoResolver(cfg.BaseURL)
		logger.Info().Str("dir", cfg.LocalUploadDir).Msg("using local storage for photo URLs")
	}

	// 7. Discovery service
	service := dating.NewService(profiles, ledger, photos, matching, dating.ServiceOptions{
		DefaultPageSize:       cfg.DefaultPageSize,
		DefaultPoolLimit:      cfg.DefaultPoolLimit,
		EnrichmentConcurrency: cfg.EnrichmentConcurrency,
		Logger:                logger,
	})
	handler := dating.NewHandler(service, dating.Limits{
		MaxPageSize:  cfg.MaxPageSize,
		MaxPoolLimit: cfg.MaxPoolLimit,
	}, logger)
	authMiddleware := auth.NewMiddleware(auth.SecretValidator{Secret: cfg.JWTSecret})

	// 8. Setup routes
	router := newRouter(cfg, logger)
	dating.RegisterRoutes(router, handler, chain(
		rateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow),
		authMiddleware.Authenticate,
	))

	// 9. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	logger.Info().Msg("server exited gracefully")
}

// newRouter builds the mux router with the shared middleware chain and the
// unauthenticated operational endpoints.
func newRouter(cfg *config.Config, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		// Cancels the request context; handlers map the deadline to 504.
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	router.Use(accessLog(logger))
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))

	// Static files for uploads
	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalUploadDir))))
	}

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// chain composes middleware so that the first one runs outermost.
func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
