package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"outfit-server/closet-worker/internal/config"
	"outfit-server/closet-worker/internal/worker"
	"outfit-server/shared/database"
	"outfit-server/shared/logger"
)

const (
	maxConnectAttempts = 20
	connectDelay       = 3 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Инициализация логгера
	appLogger, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Starting Closet Worker...", zap.String("env", cfg.AppEnv), zap.String("queue", cfg.RabbitMQ.QueueName))

	// Контекст отменяется при получении сигнала завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := connectPostgres(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pool.Close()

	// --- Зависимости ---
	closetRepo := database.NewPgClosetRepository(pool, appLogger)
	handler := worker.NewHandler(appLogger, closetRepo, cfg.Quota.ForTier, worker.NewPusher(cfg.PushGatewayURL, appLogger))
	consumer := worker.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.ConsumerName, handler, appLogger)

	// Консьюмер сам переподключается к RabbitMQ до отмены контекста
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()
	appLogger.Info("Closet Worker started successfully")

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down Closet Worker...")
	cancel()
	wg.Wait() // ждем, пока текущее сообщение будет подтверждено
	appLogger.Info("Closet Worker shut down gracefully")
}

// connectPostgres ждет доступности базы. Миграции применяет stylist-service.
func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = cfg.MaxConns

	for attempt := 1; ; attempt++ {
		// Каждая попытка ограничена по времени, чтобы не зависнуть на недоступном хосте
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		pool, err := pgxpool.NewWithConfig(pingCtx, poolConfig)
		if err == nil {
			if err = pool.Ping(pingCtx); err != nil {
				pool.Close()
			}
		}
		pingCancel()
		if err == nil {
			logger.Info("Connected to PostgreSQL", zap.Int("attempt", attempt))
			return pool, nil
		}

		logger.Warn("PostgreSQL connection failed, retrying...", zap.Int("attempt", attempt), zap.Error(err))
		if attempt >= maxConnectAttempts {
			return nil, err
		}
		select {
		case <-time.After(connectDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
