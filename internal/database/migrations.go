package database

import (
	"context"
	"fmt"

	"github.com/yishak-cs/cartrec/internal/logging"
)

// schemaStatements mirror the unique keys and lookup indexes of the catalog
var schemaStatements = []struct {
	name  string
	query string
}{
	{"product_id", "CREATE CONSTRAINT product_id IF NOT EXISTS FOR (p:Product) REQUIRE p.id IS UNIQUE"},
	{"cart_id", "CREATE CONSTRAINT cart_id IF NOT EXISTS FOR (c:Cart) REQUIRE c.id IS UNIQUE"},
	{"license_key", "CREATE CONSTRAINT license_key IF NOT EXISTS FOR (l:SoftwareLicense) REQUIRE l.license_key IS UNIQUE"},
	{"book_author", "CREATE INDEX book_author IF NOT EXISTS FOR (b:Book) ON (b.author)"},
	{"book_title", "CREATE INDEX book_title IF NOT EXISTS FOR (b:Book) ON (b.title)"},
	{"album_artist", "CREATE INDEX album_artist IF NOT EXISTS FOR (a:MusicAlbum) ON (a.artist)"},
	{"album_title", "CREATE INDEX album_title IF NOT EXISTS FOR (a:MusicAlbum) ON (a.title)"},
	{"license_name", "CREATE INDEX license_name IF NOT EXISTS FOR (l:SoftwareLicense) ON (l.name)"},
	{"cart_active", "CREATE INDEX cart_active IF NOT EXISTS FOR (c:Cart) ON (c.is_active)"},
}

// Migrate creates the constraints and indexes, it is safe to run repeatedly
func Migrate(ctx context.Context, client *Neo4jClient) error {
	log := logging.WithComponent("migrations")
	for _, stmt := range schemaStatements {
		if err := client.ExecuteWrite(ctx, stmt.query, nil); err != nil {
			return fmt.Errorf("failed to apply %s: %w", stmt.name, err)
		}
		log.Debug().Str("statement", stmt.name).Msg("Applied schema statement")
	}
	log.Info().Int("statements", len(schemaStatements)).Msg("Schema up to date")
	return nil
}

// ClearDatabase removes all existing data, used before reseeding
func ClearDatabase(ctx context.Context, client *Neo4jClient) error {
	logging.Warn().Msg("Clearing existing database...")
	return client.ExecuteWrite(ctx, "MATCH (n) DETACH DELETE n", nil)
}
