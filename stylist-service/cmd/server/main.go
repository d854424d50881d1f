// Package main Stylist Service
//
//	@title			Outfit Stylist API
//	@version		1.0
//	@description	Пошаговое создание образа с подтверждением платной генерации, кредиты и гардероб
//
//	@host		localhost:8090
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and JWT token.
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

	"outfit-server/shared/authutils"
	"outfit-server/shared/database"
	sharedLogger "outfit-server/shared/logger"
	"outfit-server/shared/messaging"
	"outfit-server/stylist-service/internal/clients"
	"outfit-server/stylist-service/internal/config"
	"outfit-server/stylist-service/internal/handler"
	"outfit-server/stylist-service/internal/service"
	"outfit-server/stylist-service/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := sharedLogger.New(sharedLogger.Config{
		Level:       cfg.LogLevel,
		Encoding:    cfg.LogEncoding,
		ServiceName: "stylist-service",
		Environment: cfg.Env,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	logger.Info("Starting stylist-service",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("dsn", cfg.MaskedDSN()),
		zap.String("aiProvider", cfg.AIProvider),
		zap.String("imageProvider", cfg.ImageProvider),
		zap.Int("generationCostCredits", cfg.GenerationCostCredits),
	)

	// --- External Connections ---
	pgPool, err := setupPostgres(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	if err := database.RunMigrations(pgPool, logger); err != nil {
		logger.Fatal("Failed to apply database migrations", zap.Error(err))
	}

	redisClient, err := setupRedis(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	mqConn, err := connectRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer mqConn.Close()

	closetPublisher, err := messaging.NewQueuePublisher(mqConn, cfg.ClosetSaveQueue, logger)
	if err != nil {
		logger.Fatal("Failed to create closet save publisher", zap.Error(err))
	}
	defer closetPublisher.Close()

	// --- Dependency Injection ---
	ledger := database.NewPgCreditLedgerRepository(pgPool, logger)
	closetRepo := database.NewPgClosetRepository(pgPool, logger)
	// Блокировка сессии сериализует ходы, включая гонку двух подтверждений
	sessionRepo := database.NewRedisSessionRepository(redisClient, cfg.SessionTTL, cfg.SessionLockTTL, logger)

	generator, err := clients.NewItemGeneratorFromConfig(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create item generator", zap.Error(err))
	}

	engine := workflow.NewEngine(workflow.Config{
		CostCredits:       cfg.GenerationCostCredits,
		GenerationTimeout: cfg.GenerationTimeout,
		DefaultLocale:     cfg.DefaultLocale,
	}, generator, ledger, service.NewQueuedClosetSaver(closetPublisher, logger), logger)

	guidedLookService := service.NewGuidedLookService(engine, sessionRepo, logger)
	creditService := service.NewCreditService(ledger, logger)
	closetService := service.NewClosetService(closetRepo, logger)

	verifier, err := authutils.NewJWTVerifier(cfg.JWTSecret, logger)
	if err != nil {
		logger.Fatal("Failed to create JWT verifier", zap.Error(err))
	}
	stylistHandler := handler.NewStylistHandler(guidedLookService, creditService, closetService, verifier.VerifyToken, logger)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := setupRouter(cfg, logger, stylistHandler.RegisterRoutes)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Конкурирующий ход ждет блокировку сессии, затем может сам вызвать генератор
		WriteTimeout: cfg.SessionLockTTL + cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exiting")
}
