package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	importapp "github.com/shopbridge/backend/internal/application/importing"
	toolsapp "github.com/shopbridge/backend/internal/application/tools"
	"github.com/shopbridge/backend/internal/infrastructure/cache"
	"github.com/shopbridge/backend/internal/infrastructure/config"
	"github.com/shopbridge/backend/internal/infrastructure/logger"
	"github.com/shopbridge/backend/internal/infrastructure/persistence"
	"github.com/shopbridge/backend/internal/infrastructure/shopify"
	"github.com/shopbridge/backend/internal/interfaces/http/handler"
	"github.com/shopbridge/backend/internal/interfaces/http/middleware"
	"github.com/shopbridge/backend/internal/interfaces/http/router"

	csvimport "github.com/shopbridge/backend/internal/infrastructure/import"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ShopBridge backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Run history storage
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	runRepo := persistence.NewGormImportRunRepository(db.DB)
	log.Info("Run history store ready", zap.String("driver", cfg.Database.Driver))

	// Shopify Admin API client
	shopifyClient, err := shopify.NewClient(&shopify.Config{
		ShopDomain:     cfg.Shopify.ShopDomain,
		AccessToken:    cfg.Shopify.AccessToken,
		APIVersion:     cfg.Shopify.APIVersion,
		TimeoutSeconds: cfg.Shopify.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to configure Shopify client", zap.Error(err))
	}

	// Cross-run dedupe store
	dedupeFactory := cache.NewDedupeStoreFactory(cfg.Dedupe.Backend, cache.RedisOptions{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cache.WithLogger(log))
	dedupeStore, err := dedupeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create dedupe store", zap.Error(err))
	}
	defer func() {
		if err := dedupeStore.Close(); err != nil {
			log.Error("Error closing dedupe store", zap.Error(err))
		}
	}()

	// Import pipeline
	importService := importapp.NewImportService(
		importapp.ImportServiceConfig{
			ShopDomain:    cfg.Shopify.ShopDomain,
			Currency:      cfg.Import.Currency,
			SentinelEmail: cfg.Import.SentinelEmail,
			DedupeEnabled: cfg.Dedupe.Enabled,
			DedupeTTL:     cfg.Dedupe.TTL,
		},
		csvimport.NewResolver(cfg.Import.SourceFetchTimeout),
		shopifyClient,
		importapp.NewCustomerResolver(shopifyClient, log),
		importapp.NewScheduler(importapp.SchedulerConfig{
			Concurrency:   cfg.Import.Concurrency,
			MaxAttempts:   cfg.Import.MaxAttempts,
			BaseBackoff:   cfg.Import.BaseBackoff,
			MaxBackoff:    cfg.Import.MaxBackoff,
			RatePerSecond: cfg.Import.RatePerSecond,
			RateBurst:     cfg.Import.RateBurst,
		}),
		dedupeStore,
		runRepo,
		log,
	)

	// Operational tools
	toolsService := toolsapp.NewOrderToolsService(shopifyClient, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewImportHandler(importService)).
		Register(handler.NewToolsHandler(toolsService)).
		Register(handler.NewShopHandler(shopifyClient)).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
