package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yishak-cs/cartrec/internal/database"
	"github.com/yishak-cs/cartrec/internal/handlers"
	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/services"
	"github.com/yishak-cs/cartrec/internal/store"
	"github.com/yishak-cs/cartrec/pkg/helper"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	config, err := helper.LoadConfigFromEnv()
	logging.Init(config.Log)
	if envErr != nil {
		logging.Warn().Err(envErr).Msg("No .env file loaded")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	repo, health, err := openStore(config)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", config.StoreBackend).Msg("Failed to open store")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Close(ctx); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	if config.SeedFile != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if config.SeedReset {
			if err := repo.Clear(ctx); err != nil {
				logging.Fatal().Err(err).Msg("Failed to clear store before seeding")
			}
		}
		counts, err := database.NewSeedImporter(repo).ImportFile(ctx, config.SeedFile)
		cancel()
		if err != nil {
			logging.Fatal().Err(err).Str("file", config.SeedFile).Msg("Seed import failed")
		}
		logging.Info().Interface("imported", counts).Msg("Seed data loaded")
	}

	// Initialize services
	shop, err := services.NewShopService(repo)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create shop service")
	}
	recommendationService := services.NewRecommendationService(repo)

	// Initialize API handlers
	apiHandler := handlers.NewAPIHandler(shop, recommendationService, health)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.RequestLogger())

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logging.RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Setup API routes
	apiHandler.SetupRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	// Create server with graceful shutdown
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logging.Info().Str("port", config.Port).Str("backend", config.StoreBackend).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info().Msg("Shutting down server...")

	// Gracefully shutdown with a timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	logging.Info().Msg("Server exited properly")
}

// openStore builds the configured repository and its health check
func openStore(config helper.AppConfig) (store.Repository, handlers.HealthChecker, error) {
	if config.StoreBackend != helper.StoreNeo4j {
		return store.NewMemory(), nil, nil
	}

	client, err := database.NewNeo4jClient(config.Neo4j)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, client); err != nil {
		_ = client.Close(ctx)
		return nil, nil, err
	}
	return database.NewRepository(client), client.Health, nil
}
