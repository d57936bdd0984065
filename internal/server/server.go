package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pos-inventory/internal/config"
	"pos-inventory/internal/database"
	"pos-inventory/internal/events"
	"pos-inventory/internal/metrics"
	custommiddleware "pos-inventory/internal/middleware"
	"pos-inventory/internal/repository"
	"pos-inventory/internal/service"
	"pos-inventory/internal/storage"
	"pos-inventory/internal/transport"
	"pos-inventory/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	db        database.Service
	redis     *redis.Client
	publisher events.Publisher
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) (*Server, error) {
	media, err := storage.NewDiskStore(cfg.Storage.Root, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Create router
	router := chi.NewRouter()
	router.NotFound(custommiddleware.NotFoundHandler)
	router.MethodNotAllowed(custommiddleware.MethodNotAllowedHandler)

	// Add basic middleware
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins, cfg.IsDevelopment()))

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(cfg.Metrics.ServiceName, registry)
	router.Use(httpMetrics.Middleware)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := db.Health()
		if health["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable,
				custommiddleware.Envelope{Success: false, Message: "database unavailable", Data: health})
			return
		}
		custommiddleware.RespondSuccess(w, http.StatusOK, "ok", health)
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	publicURL := strings.TrimRight(cfg.Storage.PublicURL, "/")
	router.Handle(publicURL+"/*", http.StripPrefix(publicURL, media.Handler()))

	// Initialize repositories
	sqlDB := db.DB()
	categoryRepo := repository.NewCategoryRepository(sqlDB)
	productRepo := repository.NewProductRepository(sqlDB)
	orderRepo := repository.NewOrderRepository(sqlDB)
	userRepo := repository.NewUserRepository(sqlDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(sqlDB)

	// Initialize services
	validator := validation.New()
	imageRule := validation.DefaultImageRule()
	if cfg.Storage.MaxKB > 0 {
		imageRule.MaxKB = cfg.Storage.MaxKB
	}

	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT)
	categoryService := service.NewCategoryService(categoryRepo, validator, logger)
	productService := service.NewProductService(productRepo, categoryRepo, media, validator, imageRule, logger)
	orderService := service.NewOrderService(orderRepo, userRepo, publisher, validator, logger)

	// Create auth and rate limit middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	rateLimit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit.Requests > 0 {
		rateLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, logger)
	}

	// Register routes
	router.Group(func(r chi.Router) {
		r.Use(rateLimit)
		transport.NewAuthHandler(userService, validator, logger).RegisterRoutes(r, authMiddleware)
	})
	router.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		// after auth so callers are limited per user
		r.Use(rateLimit)
		transport.NewCategoryHandler(categoryService, logger).RegisterRoutes(r)
		transport.NewProductHandler(productService, logger).RegisterRoutes(r)
		transport.NewOrderHandler(orderService, logger).RegisterRoutes(r)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:    cfg,
		logger:    logger,
		db:        db,
		redis:     redisClient,
		publisher: publisher,
	}

	return server, nil
}

// newPublisher returns a Kafka publisher when brokers are configured
func newPublisher(cfg config.KafkaConfig, logger *zap.Logger) (events.Publisher, error) {
	if !cfg.Enabled() {
		logger.Info("Kafka brokers not configured, order events are not published")
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewKafkaPublisher(cfg.Brokers, cfg.OrderTopic, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create order event publisher: %w", err)
	}
	return publisher, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.publisher.Close(); err != nil {
		s.logger.Error("Failed to close event publisher", zap.Error(err))
	}

	if err := s.redis.Close(); err != nil {
		s.logger.Error("Failed to close redis client", zap.Error(err))
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
