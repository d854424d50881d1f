package main

import (
	"context"
	"fmt"
	"time"

	"outfit-server/stylist-service/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	connectMaxRetries = 30
	connectRetryDelay = 3 * time.Second
)

// setupPostgres создает пул соединений с повторными попытками.
func setupPostgres(cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse postgres config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	var lastErr error
	// Контейнер БД в compose может подниматься дольше сервиса
	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			err = pool.Ping(ctx)
			if err != nil {
				pool.Close()
			}
		}
		cancel()

		if err == nil {
			logger.Info("Connected to PostgreSQL", zap.Int("attempt", attempt))
			return pool, nil
		}
		lastErr = err
		logger.Warn("PostgreSQL connection failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", connectMaxRetries),
			zap.Error(err),
		)
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", connectMaxRetries, lastErr)
}

// setupRedis создает клиент Redis и дожидается успешного PING.
func setupRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var lastErr error
	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = client.Ping(ctx).Err()
		cancel()
		if lastErr == nil {
			logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr), zap.Int("attempt", attempt))
			return client, nil
		}
		logger.Warn("Redis ping failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", connectMaxRetries),
			zap.Error(lastErr),
		)
		time.Sleep(connectRetryDelay)
	}
	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", connectMaxRetries, lastErr)
}

// connectRabbitMQ подключается к RabbitMQ с повторными попытками и логирует разрыв соединения.
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp091.Connection, error) {
	var lastErr error
	for attempt := 1; attempt <= connectMaxRetries; attempt++ {
		conn, err := amqp091.Dial(url)
		if err == nil {
			logger.Info("Connected to RabbitMQ", zap.Int("attempt", attempt))
			// Переподключения нет, разрыв только логируется
			go func() {
				if closeErr := <-conn.NotifyClose(make(chan *amqp091.Error, 1)); closeErr != nil {
					logger.Error("RabbitMQ connection closed unexpectedly", zap.Error(closeErr))
				}
			}()
			return conn, nil
		}
		lastErr = err
		logger.Warn("RabbitMQ connection failed, retrying...",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", connectMaxRetries),
			zap.Error(err),
		)
		time.Sleep(connectRetryDelay)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectMaxRetries, lastErr)
}
