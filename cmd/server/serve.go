package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/bma/api/internal/config"
	"github.com/stwalsh4118/bma/api/internal/database"
	"github.com/stwalsh4118/bma/api/internal/handlers"
	"github.com/stwalsh4118/bma/api/internal/locking"
	"github.com/stwalsh4118/bma/api/internal/middleware"
	"github.com/stwalsh4118/bma/api/internal/repository"
	"github.com/stwalsh4118/bma/api/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			serve(cfg)
			return nil
		},
	}
}

func serve(cfg *config.Config) {
	log := cfg.NewLogger()
	log.Info("Starting BMA API", map[string]interface{}{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Booking lock: Redis when configured, in-process no-op otherwise
	locker := locking.NewNoopLocker()
	var lockHealth handlers.Pinger
	if cfg.Redis.Enabled() {
		client, err := locking.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis", err, map[string]interface{}{
				"addr": cfg.Redis.Addr,
			})
		}
		defer client.Close()

		locker = locking.NewRedisLocker(client, cfg.Redis.LockTTL, log)
		lockHealth = locking.NewHealth(client)
		log.Info("Booking lock enabled", map[string]interface{}{
			"addr": cfg.Redis.Addr,
			"ttl":  cfg.Redis.LockTTL.String(),
		})
	}

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.RegisterValidators()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, lockHealth, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Initialize repository and service layers
	store := repository.NewStore(db.Conn())
	buildingService := services.NewBuildingService(store, log)
	apartmentService := services.NewApartmentService(store, log)
	bookingService := services.NewBookingService(store, locker, log)
	leaseService := services.NewLeaseService(store, log)
	tenantService := services.NewTenantService(store, log)
	parkingService := services.NewParkingService(store, log)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Authenticate([]byte(cfg.Auth.JWTSecret)))
	handlers.RegisterRoutes(v1, handlers.API{
		Buildings:  handlers.NewBuildingHandler(buildingService),
		Apartments: handlers.NewApartmentHandler(apartmentService),
		Leases:     handlers.NewLeaseHandler(bookingService, leaseService),
		Tenants:    handlers.NewTenantHandler(tenantService),
		Parking:    handlers.NewParkingHandler(parkingService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
