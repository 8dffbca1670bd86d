package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_PORT", "STORE_BACKEND", "SEED_FILE", "SEED_RESET", "LOG_LEVEL", "LOG_FORMAT",
		"NEO4J_URI", "NEO4J_USERNAME", "NEO4J_PASSWORD", "NEO4J_DATABASE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, "neo4j", cfg.Neo4j.Username)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.SeedFile)
}

func TestLoadConfigFromEnv_Neo4j(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("SEED_FILE", "testdata/seed.json")
	t.Setenv("SEED_RESET", "true")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, StoreNeo4j, cfg.StoreBackend)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Neo4j.Password)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "testdata/seed.json", cfg.SeedFile)
	assert.True(t, cfg.SeedReset)
}

func TestLoadConfigFromEnv_BackendOverride(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr bool
	}{
		{name: "memory despite uri", env: map[string]string{"NEO4J_URI": "neo4j://db", "STORE_BACKEND": "memory"}, want: StoreMemory},
		{name: "case insensitive", env: map[string]string{"STORE_BACKEND": "MEMORY"}, want: StoreMemory},
		{name: "neo4j without uri", env: map[string]string{"STORE_BACKEND": "neo4j"}, wantErr: true},
		{name: "unknown", env: map[string]string{"STORE_BACKEND": "redis"}, wantErr: true},
		{name: "bad seed reset", env: map[string]string{"SEED_RESET": "maybe"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfigFromEnv()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.StoreBackend)
		})
	}
}
