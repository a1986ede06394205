package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/host-booking/service-booking/internal/application"
	"github.com/host-booking/service-booking/internal/cache"
	"github.com/host-booking/service-booking/internal/config"
	"github.com/host-booking/service-booking/internal/database"
	bookingDomain "github.com/host-booking/service-booking/internal/domain/booking"
	"github.com/host-booking/service-booking/internal/events"
	"github.com/host-booking/service-booking/internal/handler"
	"github.com/host-booking/service-booking/internal/health"
	"github.com/host-booking/service-booking/internal/logger"
	"github.com/host-booking/service-booking/internal/middleware"
	"github.com/host-booking/service-booking/internal/repository"
	"github.com/host-booking/service-booking/internal/validation"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store),
	)

	dependencies := map[string]health.Pinger{}

	// Initialize storage
	var (
		bookingRepo bookingDomain.Repository
		transactor  bookingDomain.Transactor
	)
	switch cfg.Store {
	case config.StoreMemory:
		store := repository.NewMemoryStore()
		bookingRepo, transactor = store, store
		log.Warn("using in-memory store; bookings are lost on restart")
	default:
		db, err := database.Connect(cfg.DBConfig, log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		// Run database migrations
		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&repository.BookingModel{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(database.DatabaseURL(cfg.DBConfig), cfg.MigrationsPath, log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("failed to get sql.DB", zap.Error(err))
		}
		defer func() { _ = sqlDB.Close() }()
		dependencies["postgres"] = sqlDB

		bookingRepo = repository.NewGormBookingRepository(db)
		transactor = repository.NewGormTransactor(db)
	}

	// Initialize Kafka producer
	var publisher application.EventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		producer := events.NewProducer(cfg.KafkaConfig.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	} else {
		log.Info("no kafka brokers configured; booking events are not published")
	}

	// Initialize read cache
	var bookingCache application.BookingCache = cache.NoopBookingCache{}
	if cfg.RedisConfig.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer func() { _ = rdb.Close() }()
		dependencies["redis"] = health.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		bookingCache = cache.NewRedisBookingCache(rdb, cfg.RedisConfig.TTL, log)
	}

	// Initialize application service
	bookingService := application.NewBookingService(
		bookingRepo,
		transactor,
		publisher,
		bookingCache,
		log,
	)

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService, validation.NewBookingValidator(log))

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(serviceName, dependencies, log)
	healthHandler.RegisterRoutes(router)

	// Register routes
	api := router.Group("")
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		defer limiter.Stop()
		api.Use(middleware.RateLimitMiddleware(limiter))
	}
	bookingHandler.RegisterRoutes(api)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
