package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"seo-optimizer/internal/config"
	"seo-optimizer/internal/generator"
	custommiddleware "seo-optimizer/internal/middleware"
	"seo-optimizer/internal/repository"
	"seo-optimizer/internal/service"
	"seo-optimizer/internal/shopify"
	"seo-optimizer/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires the catalog client, generator and handlers. db may be nil,
// in which case the apply history is disabled.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *sql.DB) (*Server, error) {
	isDevelopment := cfg.Server.Env != "production"

	if cfg.Shopify.APISecret == "" && !isDevelopment {
		return nil, errors.New("SHOPIFY_API_SECRET is required in production")
	}

	gen, err := generator.New(ctx, cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to create metadata generator: %w", err)
	}

	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	// Ahead of auth so 401 and 403 responses are logged; the shop is filled in later
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, isDevelopment))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	catalog := shopify.NewProductRepository(shopify.NewClient(cfg.Shopify, logger))

	opts := service.OptimizationOptions{
		Shop:             cfg.Shopify.ShopDomain,
		GeneratorTimeout: cfg.Generator.Timeout,
	}
	if db != nil {
		opts.History = repository.NewOptimizationRepository(db)
	}

	// Initialize services
	productService := service.NewProductService(catalog)
	optimizationService := service.NewOptimizationService(catalog, gen, opts, logger)

	// Initialize handlers
	productHandler := transport.NewProductHandler(productService, logger)
	optimizeHandler := transport.NewOptimizeHandler(optimizationService, logger)

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	// Register routes
	router.Group(func(r chi.Router) {
		if cfg.Shopify.APISecret != "" {
			r.Use(custommiddleware.SessionTokenMiddleware(cfg.Shopify.APIKey, cfg.Shopify.APISecret, logger))
			r.Use(custommiddleware.RequireShop(cfg.Shopify.ShopDomain, logger))
		} else {
			logger.Warn("Session token verification disabled; set SHOPIFY_API_SECRET to enable it")
		}

		if redisClient != nil {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.Requests,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         "seo-optimizer:ratelimit",
			}, logger))
		}

		productHandler.RegisterRoutes(r)
		optimizeHandler.RegisterRoutes(r)
	})

	logger.Info("Server configured",
		zap.String("generator", gen.Name()),
		zap.Bool("history", db != nil),
		zap.Bool("rate_limit", redisClient != nil),
	)

	server := &Server{
		Server: &http.Server{
			Addr:        fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:     router,
			IdleTimeout: time.Minute,
			ReadTimeout: 10 * time.Second,
			// Leaves room for the generator timeout plus the catalog round trip
			WriteTimeout: cfg.Generator.Timeout + 30*time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var errs []error

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
			errs = append(errs, err)
		}
	}

	s.logger.Sync()
	return errors.Join(errs...)
}
