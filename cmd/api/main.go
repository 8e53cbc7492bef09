package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arbidash/backend/internal/config"
	"arbidash/backend/internal/handler"
	"arbidash/backend/internal/ledger"
	"arbidash/backend/internal/manager"
	"arbidash/backend/internal/middleware"
	"arbidash/backend/internal/scheduler"
	"arbidash/backend/internal/service"
	"arbidash/backend/internal/store"
	"arbidash/backend/internal/strategy"
	"arbidash/backend/pkg/logger"
	"arbidash/backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignore error in production)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log := logger.GetLogger()

	log.Info("Starting ArbiDash Backend...")
	log.Infof("Environment: %s", cfg.Server.Env)

	// Initialize the bot store. Redis keeps configs across restarts;
	// the in-memory store is the default for local development.
	var (
		botStore    store.Store
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled {
		log.Info("Connecting to Redis...")
		redisClient, err = redis.New(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", err)
		}
		defer redisClient.Close()
		log.Info("✓ Redis connected")

		botStore = store.NewRedisStore(redisClient)
	} else {
		log.Info("Redis disabled, using in-memory store")
		botStore = store.NewMemoryStore()
	}

	// Initialize the simulated execution engine
	prices := strategy.NewSimulatedPriceSource(cfg.Simulator.PriceSeed)
	gas := strategy.GasModel{
		Units:     cfg.Simulator.GasUnits,
		PriceGwei: cfg.Simulator.GasGwei,
		NativeUSD: cfg.Simulator.NativeToken,
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewArbitrageExecutor(prices, gas))

	// Initialize the trade ledger and WebSocket hub
	tradeLedger := ledger.New()

	hub := service.NewWSHub()
	go hub.Run()

	// Initialize the scheduler and the bot manager facade
	sched := scheduler.New(botStore, registry, tradeLedger, hub)
	botManager := manager.New(botStore, tradeLedger, sched)

	// Initialize handlers
	botHandler := handler.NewBotHandler(botManager)

	// Set Gin mode
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Apply middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if redisClient != nil {
		router.Use(middleware.RateLimit(redisClient, cfg.RateLimit.RequestsPerMinute))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "Redis connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	// WebSocket endpoint for live bot and trade updates
	router.GET("/ws", hub.ServeWS)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		bots := v1.Group("/bots")
		{
			bots.POST("", botHandler.CreateBot)
			bots.GET("", botHandler.ListBots)
			bots.GET("/:id", botHandler.GetBot)
			bots.PUT("/:id", botHandler.UpdateBot)
			bots.POST("/:id/activate", botHandler.ActivateBot)
			bots.POST("/:id/pause", botHandler.PauseBot)
			bots.POST("/:id/stop", botHandler.StopBot)
			bots.GET("/:id/trades", botHandler.ListTrades)
			bots.GET("/:id/stats", botHandler.GetStats)
		}

		v1.GET("/stats/overall", botHandler.GetOverallStats)

		configGroup := v1.Group("/config")
		{
			configGroup.GET("/export", botHandler.ExportConfig)
			configGroup.POST("/import", botHandler.ImportConfig)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Server starting on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", err)
		}
	}()

	log.Info("✓ Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Stop all bot runner goroutines before closing the HTTP listener
	sched.Shutdown()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", err)
	}

	log.Info("Server exited")
}
