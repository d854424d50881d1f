package main

import (
	"net/http"
	"strings"
	"time"

	sharedMiddleware "outfit-server/shared/middleware"
	"outfit-server/stylist-service/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	_ "outfit-server/stylist-service/docs"
)

// setupRouter собирает gin.Engine: общие middleware, служебные маршруты и маршруты API.
func setupRouter(cfg *config.Config, logger *zap.Logger, registerRoutes func(gin.IRouter)) *gin.Engine {
	router := gin.New()
	router.Use(sharedMiddleware.GinZapLogger(logger))
	router.Use(gin.Recovery())

	// Prometheus middleware подключается до регистрации маршрутов:
	// gin собирает цепочку обработчиков маршрута в момент его регистрации
	p := ginprometheus.NewPrometheus("gin")
	p.Use(router)

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept-Language", sharedMiddleware.RequestIDHeader}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// Картинки SANA сохраняются локально и раздаются этим же сервисом
	if strings.EqualFold(cfg.ImageProvider, config.ProviderSana) {
		router.Static("/images", cfg.ImageSavePath)
	}

	if cfg.SwaggerEnabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(router)
	return router
}
