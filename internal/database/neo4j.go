package database

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yishak-cs/cartrec/internal/logging"
)

// Neo4jClient wraps the Neo4j driver with application-specific methods
type Neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

// Config holds the Neo4j connection configuration
type Config struct {
	URI      string
	Username string
	Password string
	Database string // typically "neo4j" for AuraDB
}

// NewNeo4jClient creates a new Neo4j client connection
func NewNeo4jClient(config Config) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(config.URI, neo4j.BasicAuth(config.Username, config.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver: %w", err)
	}

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify Neo4j connectivity: %w", err)
	}

	logging.Info().Str("uri", config.URI).Str("database", config.Database).Msg("Connected to Neo4j")
	return &Neo4jClient{
		driver:   driver,
		database: config.Database,
	}, nil
}

// Close closes the Neo4j driver connection
func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// ExecuteWrite executes a write query (CREATE, MERGE, DELETE, etc.)
func (c *Neo4jClient) ExecuteWrite(ctx context.Context, query string, params map[string]any) error {
	_, err := c.ExecuteWriteWithResult(ctx, query, params)
	return err
}

// ExecuteWriteWithResult executes a write query and returns results
func (c *Neo4jClient) ExecuteWriteWithResult(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithWritersRouting())
	if err != nil {
		return nil, fmt.Errorf("failed to execute write query: %w", err)
	}
	return recordsToMaps(result.Records), nil
}

// ExecuteRead executes a read query and processes results
func (c *Neo4jClient) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(
		ctx,
		c.driver,
		query,
		params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("failed to execute read query: %w", err)
	}
	return recordsToMaps(result.Records), nil
}

func recordsToMaps(records []*neo4j.Record) []map[string]any {
	results := make([]map[string]any, 0, len(records))
	for _, record := range records {
		recordMap := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			recordMap[key] = record.Values[i]
		}
		results = append(results, recordMap)
	}
	return results
}

// Health checks the database connection health
func (c *Neo4jClient) Health(ctx context.Context) error {
	if _, err := c.ExecuteRead(ctx, "RETURN 1", nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// ExecuteWriteTransactionSimple runs work inside one managed write transaction
func (c *Neo4jClient) ExecuteWriteTransactionSimple(ctx context.Context, work func(neo4j.ManagedTransaction) error) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, work(tx)
	})
	if err != nil {
		return fmt.Errorf("failed to execute write transaction: %w", err)
	}
	return nil
}
