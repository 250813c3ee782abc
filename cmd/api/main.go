package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "stockledger/api/swagger" // swagger docs
	"stockledger/internal/config"
	"stockledger/internal/database"
	"stockledger/internal/events"
	"stockledger/internal/handler"
	"stockledger/internal/lock"
	"stockledger/internal/middleware"
	"stockledger/internal/repository"
	"stockledger/internal/service"
	"stockledger/internal/websocket"
	"stockledger/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Stock Ledger API
// @version         1.0
// @description     Inventory ledger for small resellers: stock intake, sales, restocks, expenses and financial reports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}
	cfg := config.Load()

	appLogger, err := logger.New(logger.Config{
		Development:       cfg.Server.AppEnv == "development",
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	db, err := database.NewConnection(cfg.Postgres, appLogger)
	if err != nil {
		appLogger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()
	reportDB := sqlx.NewDb(sqlDB, "pgx")
	appLogger.Info("connected to PostgreSQL", zap.String("host", cfg.Postgres.Host), zap.String("db", cfg.Postgres.DBName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Per-item lock: redis when configured so several API instances share it.
	var locker lock.Locker = lock.NewKeyedMutex()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLogger.Fatal("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, lock.RedisOptions{TTL: cfg.Redis.LockTTL, Attempts: cfg.Redis.LockRetries}, appLogger)
		appLogger.Info("using redis item locks", zap.String("addr", cfg.Redis.Addr))
	}

	wsHub := websocket.NewHub(appLogger)
	go wsHub.Run(ctx)
	publishers := events.Multi{wsHub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLogger)
		defer kafkaPublisher.Close()
		publishers = append(publishers, kafkaPublisher)
		appLogger.Info("publishing ledger events to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// Repository -> Service -> Handler
	repos := service.Repositories{
		Inventory:  repository.NewInventoryRepository(db),
		Batches:    repository.NewBatchRepository(db),
		Sales:      repository.NewSaleRepository(db),
		Restocks:   repository.NewRestockRepository(db),
		Expenses:   repository.NewExpenseRepository(db),
		Movements:  repository.NewMovementRepository(db),
		Categories: repository.NewCategoryRepository(db),
	}
	txManager := repository.NewTransactionManager(db, repository.RetryPolicy{
		MaxAttempts: cfg.Ledger.RetryAttempts,
		BaseDelay:   cfg.Ledger.RetryBase,
		MaxDelay:    cfg.Ledger.RetryMax,
	})
	loc := cfg.Ledger.Location()

	inventoryService := service.NewInventoryService(repos, txManager, locker, publishers, appLogger)
	queryService := service.NewQueryService(repos)
	categoryService := service.NewCategoryService(repos, txManager, publishers)
	expenseService := service.NewExpenseService(repos, publishers)
	statisticsService := service.NewStatisticsService(repos, repository.NewReportRepository(reportDB), txManager, loc)
	activityService := service.NewActivityService(repos, cfg.Ledger.Currency, cfg.Ledger.ActivityLimit, loc)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(appLogger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	secret := []byte(cfg.JWT.SecretKey)
	if len(secret) == 0 {
		appLogger.Warn("JWT_SECRET is empty, requests are not authenticated")
	}
	router.GET("/ws", wsHub.Handler(secret))

	api := router.Group("/api", middleware.RequireAuth(secret))
	handler.NewInventoryHandler(inventoryService, queryService).RegisterRoutes(api)
	handler.NewSaleHandler(inventoryService, queryService, loc).RegisterRoutes(api)
	handler.NewCategoryHandler(categoryService).RegisterRoutes(api)
	handler.NewExpenseHandler(expenseService, queryService, loc).RegisterRoutes(api)
	handler.NewStatisticsHandler(statisticsService, loc).RegisterRoutes(api)
	handler.NewActivityHandler(activityService).RegisterRoutes(api)
	handler.NewExportHandler(queryService, loc).RegisterRoutes(api)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
