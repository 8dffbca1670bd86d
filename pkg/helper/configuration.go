package helper

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	database "github.com/yishak-cs/cartrec/internal/database"
	"github.com/yishak-cs/cartrec/internal/logging"
)

// Store backends
const (
	StoreMemory = "memory"
	StoreNeo4j  = "neo4j"
)

// AppConfig holds everything the binaries read from the environment
type AppConfig struct {
	Port         string
	StoreBackend string
	Neo4j        database.Config
	Log          logging.Config
	SeedFile     string
	// SeedReset clears the store before importing SeedFile
	SeedReset bool
}

// LoadConfigFromEnv loads application configuration from environment variables.
// The store defaults to neo4j when NEO4J_URI is set and memory otherwise.
func LoadConfigFromEnv() (AppConfig, error) {
	neo4jConfig := LoadNeo4jConfigFromEnv()

	backend := StoreMemory
	if neo4jConfig.URI != "" {
		backend = StoreNeo4j
	}
	backend = strings.ToLower(getEnvOrDefault("STORE_BACKEND", backend))

	cfg := AppConfig{
		Port:         getEnvOrDefault("APP_PORT", "8080"),
		StoreBackend: backend,
		Neo4j:        neo4jConfig,
		Log: logging.Config{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		SeedFile: os.Getenv("SEED_FILE"),
	}

	if raw := os.Getenv("SEED_RESET"); raw != "" {
		reset, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("invalid SEED_RESET %q: %w", raw, err)
		}
		cfg.SeedReset = reset
	}

	switch cfg.StoreBackend {
	case StoreMemory:
	case StoreNeo4j:
		if cfg.Neo4j.URI == "" {
			return cfg, fmt.Errorf("STORE_BACKEND=neo4j requires NEO4J_URI")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// LoadNeo4jConfigFromEnv loads Neo4j configuration from environment variables
func LoadNeo4jConfigFromEnv() database.Config {
	return database.Config{
		URI:      getEnvOrDefault("NEO4J_URI", ""),
		Username: getEnvOrDefault("NEO4J_USERNAME", "neo4j"),
		Password: getEnvOrDefault("NEO4J_PASSWORD", ""),
		Database: getEnvOrDefault("NEO4J_DATABASE", "neo4j"),
	}
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
