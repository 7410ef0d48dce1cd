package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
	"github.com/Ihuarraquax/santavibe-sub004/internal/application/workers"
	"github.com/Ihuarraquax/santavibe-sub004/internal/config"
	eventsredis "github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/events/redis"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/metrics/prometheus"
	lognotify "github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/notify/log"
	redisstorage "github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/storage/redis"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/api/http"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/api/websocket"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting SantaVibe",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize Redis client
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	// Test Redis connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// Initialize adapters
	eventBus, err := eventsredis.NewStreamsEventBus(
		redisClient,
		fmt.Sprintf("santavibe-%d", os.Getpid()),
		logger,
	)
	if err != nil {
		logger.Fatal("failed to create event bus", zap.Error(err))
	}

	groupStorage := redisstorage.NewGroupStorage(
		redisClient,
		cfg.Draw.GroupTTL,
		logger,
	)

	notifier := lognotify.NewNotifier(logger)
	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	manager := exchange.NewManager(
		groupStorage,
		eventBus,
		metricsCollector,
		logger,
		cfg.Draw.MaxAttempts,
	)

	workerPool := workers.NewPool(
		cfg.Workers.PoolSize,
		eventBus,
		groupStorage,
		notifier,
		metricsCollector,
		logger,
		cfg.Workers.HealthCheckInterval,
	)

	// Start worker pool
	if err := workerPool.Start(); err != nil {
		logger.Fatal("failed to start worker pool", zap.Error(err))
	}

	// Initialize API server
	httpServer := http.NewServer(&http.Config{
		Port:    cfg.HTTPPort,
		Manager: manager,
		Logger:  logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(eventBus, logger)
	httpServer.SetupWebSocket(wsHandler)

	// Start server
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("SantaVibe started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("worker_pool_size", cfg.Workers.PoolSize))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := workerPool.Shutdown(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown error", zap.Error(err))
	}

	if err := eventBus.Close(); err != nil {
		logger.Error("event bus close error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}

	logger.Info("SantaVibe shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
