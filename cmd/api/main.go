package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/cardlink/internal/cards"
	"github.com/richxcame/cardlink/internal/redemption"
	"github.com/richxcame/cardlink/pkg/common"
	"github.com/richxcame/cardlink/pkg/config"
	"github.com/richxcame/cardlink/pkg/database"
	"github.com/richxcame/cardlink/pkg/logger"
	"github.com/richxcame/cardlink/pkg/middleware"
	"github.com/richxcame/cardlink/pkg/ratelimit"
	"github.com/richxcame/cardlink/pkg/redis"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("api")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	logger.Info("Connected to PostgreSQL")

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Migrations applied")

	// Redis is only needed when the scan rate limit is on
	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis")

		limiter = ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
	}

	// Services
	cardService := cards.NewService(cards.NewRepository(pool), cfg.Public.BaseURL)
	cardHandler := cards.NewHandler(cardService)

	scanService := redemption.NewService(redemption.NewRepository(pool))
	scanHandler := redemption.NewHandler(scanService)

	// Router
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", middleware.CorrelationIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, version, map[string]func() error{
		"database": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Ping(ctx)
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public scan endpoint
	scan := router.Group("/card")
	if limiter != nil {
		scan.Use(limiter.Middleware())
	}
	scan.GET("/:card_id", scanHandler.Scan)

	// Admin surface
	router.POST("/cards", cardHandler.CreateCard)
	router.GET("/cards", cardHandler.ListCards)
	router.DELETE("/cards/:id", cardHandler.DeleteCard)
	router.POST("/cards/:id/codes", cardHandler.GenerateCodes)
	router.GET("/stats", cardHandler.Stats)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	logger.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
