package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/register4u/inventory-service/internal/application/usecase"
	"github.com/register4u/inventory-service/internal/database"
	"github.com/register4u/inventory-service/internal/domain/inventory"
	"github.com/register4u/inventory-service/internal/entities"
	"github.com/register4u/inventory-service/internal/infrastructure/adapter"
	"github.com/register4u/inventory-service/internal/infrastructure/config"
	"github.com/register4u/inventory-service/internal/infrastructure/handler"
	"github.com/register4u/inventory-service/internal/logger"
	"gorm.io/gorm"
)

type Application struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	logger *slog.Logger
	server *http.Server

	inventoryRepo *adapter.PostgresInventoryRepository
	cache         *adapter.RedisCacheAdapter
	publisher     *adapter.RabbitMQPublisher
	notifier      *adapter.WebhookNotifier

	computeRoomLoadUseCase     *usecase.ComputeRoomLoadUseCase
	reconcileRoomStatusUseCase *usecase.ReconcileRoomStatusUseCase
	getInventoryStatusUseCase  *usecase.GetInventoryStatusUseCase

	inventoryHandler *handler.InventoryHandler
}

func main() {
	applicationLogger := logger.SetupLogger("info")

	cfg, err := config.LoadConfig()
	if err != nil {
		applicationLogger.Error(fmt.Sprintf("Failed to load configuration: %s", err.Error()))
		os.Exit(1)
	}

	app, err := NewApplication(cfg, applicationLogger)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Start(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func NewApplication(cfg *config.Config, applicationLogger *slog.Logger) (*Application, error) {
	db, err := database.GormOpen(cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	err = database.RunMigrations(db, &entities.HotelData{}, &entities.RoomCategoryData{}, &entities.RoomData{}, &entities.AllotmentData{})
	if err != nil {
		return nil, err
	}

	inventoryRepo := adapter.NewPostgresInventoryRepository(db, applicationLogger)

	var redisClient *redis.Client
	var cache *adapter.RedisCacheAdapter
	if cfg.Redis.Enabled {
		redisClient = initRedis(cfg.Redis, applicationLogger)
		cache = adapter.NewRedisCacheAdapterWithClient(redisClient, applicationLogger)
	}

	var publisher *adapter.RabbitMQPublisher
	if cfg.RabbitMQ.Enabled {
		conn, err := adapter.DialRabbitMQ(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.Username, cfg.RabbitMQ.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		publisher, err = adapter.NewRabbitMQPublisher(conn, cfg.RabbitMQ.CorrectionsQueue, cfg.RabbitMQ.MaxRetryAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
		}
	}

	var notifier *adapter.WebhookNotifier
	if cfg.Webhook.URL != "" {
		notifier = adapter.NewWebhookNotifier(adapter.WebhookConfig{
			URL:           cfg.Webhook.URL,
			APIKey:        cfg.Webhook.APIKey,
			Timeout:       cfg.Webhook.Timeout,
			RateLimit:     cfg.Webhook.RateLimit,
			BurstLimit:    cfg.Webhook.BurstLimit,
			MaxRetries:    cfg.Webhook.MaxRetries,
			RetryInterval: cfg.Webhook.RetryInterval,
			MaxFailures:   cfg.Webhook.MaxFailures,
			ResetTimeout:  cfg.Webhook.ResetTimeout,
		}, applicationLogger)
	}

	computeRoomLoadUseCase := usecase.NewComputeRoomLoadUseCase(inventoryRepo, applicationLogger)

	// Interfaces stay nil unless configured; the reconciler tolerates both.
	var publisherPort inventory.EventPublisher
	if publisher != nil {
		publisherPort = publisher
	}
	var notifierPort inventory.Notifier
	if notifier != nil {
		notifierPort = notifier
	}

	reconcileRoomStatusUseCase := usecase.NewReconcileRoomStatusUseCase(
		inventoryRepo,
		computeRoomLoadUseCase,
		publisherPort,
		notifierPort,
		applicationLogger,
	)

	var cachePort inventory.CacheRepository
	if cache != nil {
		cachePort = cache
	}

	getInventoryStatusUseCase := usecase.NewGetInventoryStatusUseCase(
		inventoryRepo,
		cachePort,
		applicationLogger,
	)

	inventoryHandler := handler.NewInventoryHandler(
		getInventoryStatusUseCase,
		reconcileRoomStatusUseCase,
		applicationLogger,
	)

	server := initServer(cfg.Server, inventoryHandler, applicationLogger)

	return &Application{
		config:                     cfg,
		db:                         db,
		redis:                      redisClient,
		logger:                     applicationLogger,
		server:                     server,
		inventoryRepo:              inventoryRepo,
		cache:                      cache,
		publisher:                  publisher,
		notifier:                   notifier,
		computeRoomLoadUseCase:     computeRoomLoadUseCase,
		reconcileRoomStatusUseCase: reconcileRoomStatusUseCase,
		getInventoryStatusUseCase:  getInventoryStatusUseCase,
		inventoryHandler:           inventoryHandler,
	}, nil
}

func (app *Application) Start() error {
	ctx := context.Background()

	app.logger.Info("Starting inventory service",
		"version", "1.0.0",
		"address", app.config.Server.Address())

	if err := app.performHealthChecks(ctx); err != nil {
		app.logger.Error("Health checks failed", "error", err)
		return err
	}

	go func() {
		figure.NewFigure("INVENTORY", "", true).Print()
		fmt.Println("")
		fmt.Println("Inventory service started at " + app.config.Server.Address())
		fmt.Println("")
		if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("HTTP server failed", "error", err)
		}
	}()

	app.waitForShutdown()

	return nil
}

func (app *Application) performHealthChecks(ctx context.Context) error {
	app.logger.Info("Performing health checks")

	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
	}

	if app.cache != nil {
		if err := app.cache.Ping(ctx); err != nil {
			app.logger.Warn("Redis health check failed", "error", err)
		}
	}

	return nil
}

func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	app.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := app.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			app.logger.Error("Error closing database", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing Redis", "error", err)
		}
	}

	if app.publisher != nil {
		app.publisher.Close()
	}

	app.logger.Info("Server stopped gracefully")
}

func initRedis(cfg config.RedisConfig, logger *slog.Logger) *redis.Client {
	logger.Info("Connecting to Redis", "address", cfg.Address())

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Address(),
		Password:        cfg.Password,
		DB:              cfg.Database,
		PoolSize:        cfg.PoolSize,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
	})

	logger.Info("Redis client created")
	return client
}

func initServer(cfg config.ServerConfig, inventoryHandler *handler.InventoryHandler, logger *slog.Logger) *http.Server {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/inventory/status", inventoryHandler.GetInventoryStatus).Methods("GET")
	api.HandleFunc("/rooms/{roomNumber}/occupancy", inventoryHandler.GetRoomOccupancy).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/reconcile", inventoryHandler.TriggerReconcile).Methods("POST")

	router.HandleFunc("/health", inventoryHandler.HealthCheck).Methods("GET")

	router.Use(rateLimitMiddleware(100, time.Minute))
	router.Use(loggingMiddleware(logger))
	if cfg.EnableCORS {
		router.Use(corsMiddleware)
	}

	return &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: 200}

			next.ServeHTTP(wrapped, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status_code", wrapped.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type rateLimiter struct {
	clients map[string]*clientLimit
	mu      sync.RWMutex
}

type clientLimit struct {
	tokens    int
	lastReset time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		clients: make(map[string]*clientLimit),
	}
}

func (rl *rateLimiter) allow(clientID string, maxRequests int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientID]

	if !exists || now.Sub(client.lastReset) > window {
		rl.clients[clientID] = &clientLimit{
			tokens:    maxRequests - 1,
			lastReset: now,
		}
		return true
	}

	if client.tokens > 0 {
		client.tokens--
		return true
	}

	return false
}

func rateLimitMiddleware(maxRequests int, window time.Duration) mux.MiddlewareFunc {
	limiter := newRateLimiter()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				clientIP = forwarded
			}

			if !limiter.allow(clientIP, maxRequests, window) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
