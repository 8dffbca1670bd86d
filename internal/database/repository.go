package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/store"
)

var labels = map[models.ProductType]string{
	models.ProductTypeBook:            "Book",
	models.ProductTypeMusicAlbum:      "MusicAlbum",
	models.ProductTypeSoftwareLicense: "SoftwareLicense",
}

// Repository persists the catalog and carts as a graph:
//
//	(:Cart)-[:CONTAINS {item_id, quantity, added_at, updated_at}]->(:Product:Book|MusicAlbum|SoftwareLicense)
type Repository struct {
	client *Neo4jClient
}

var _ store.Repository = (*Repository)(nil)

// NewRepository creates a new graph-backed repository
func NewRepository(client *Neo4jClient) *Repository {
	return &Repository{client: client}
}

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close(ctx)
}

func (r *Repository) Clear(ctx context.Context) error {
	return ClearDatabase(ctx, r.client)
}

// CreateProduct creates a product node labelled with its type
func (r *Repository) CreateProduct(ctx context.Context, p models.Product) error {
	query := fmt.Sprintf(`CREATE (p:Product:%s) SET p = $props`, labels[p.Type()])
	err := r.client.ExecuteWrite(ctx, query, map[string]any{"props": productToProps(p)})
	return mapConstraintError(err)
}

// UpdateProduct replaces a product's properties
func (r *Repository) UpdateProduct(ctx context.Context, p models.Product) error {
	query := fmt.Sprintf(`
		MATCH (p:%s {id: $id})
		SET p = $props
		RETURN count(p) AS updated
	`, labels[p.Type()])

	results, err := r.client.ExecuteWriteWithResult(ctx, query, map[string]any{
		"id":    string(p.ProductID()),
		"props": productToProps(p),
	})
	if err != nil {
		return mapConstraintError(err)
	}
	if len(results) == 0 || results[0]["updated"].(int64) == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

// GetProduct fetches one product of the given type
func (r *Repository) GetProduct(ctx context.Context, t models.ProductType, id models.ProductID) (models.Product, error) {
	query := fmt.Sprintf(`MATCH (p:%s {id: $id}) RETURN p`, labels[t])

	results, err := r.client.ExecuteRead(ctx, query, map[string]any{"id": string(id)})
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if len(results) == 0 {
		return nil, store.ErrProductNotFound
	}
	return productFromNode(results[0]["p"].(neo4j.Node))
}

// ListProducts returns every product of a type, newest first
func (r *Repository) ListProducts(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	query := fmt.Sprintf(`MATCH (p:%s) RETURN p ORDER BY p.created_at DESC, p.id`, labels[t])

	results, err := r.client.ExecuteRead(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for _, result := range results {
		p, err := productFromNode(result["p"].(neo4j.Node))
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// DeleteProduct removes a product and every cart line pointing at it
func (r *Repository) DeleteProduct(ctx context.Context, t models.ProductType, id models.ProductID) error {
	query := fmt.Sprintf(`
		MATCH (p:%s {id: $id})
		WITH p, count(p) AS found
		DETACH DELETE p
		RETURN found
	`, labels[t])

	results, err := r.client.ExecuteWriteWithResult(ctx, query, map[string]any{"id": string(id)})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if len(results) == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

// SaveCart upserts the cart node and rewrites its CONTAINS relationships in
// one transaction so readers never observe a half-written cart.
func (r *Repository) SaveCart(ctx context.Context, c *models.Cart) error {
	items := make([]map[string]any, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, map[string]any{
			"item_id":    item.ID,
			"product_id": string(item.ProductID),
			"quantity":   int64(item.Quantity),
			"added_at":   item.AddedAt,
			"updated_at": item.UpdatedAt,
		})
	}

	return r.client.ExecuteWriteTransactionSimple(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, `
			MERGE (c:Cart {id: $id})
			SET c.is_active = $is_active, c.created_at = $created_at, c.updated_at = $updated_at
			WITH c
			OPTIONAL MATCH (c)-[old:CONTAINS]->()
			DELETE old
		`, map[string]any{
			"id":         c.ID,
			"is_active":  c.IsActive,
			"created_at": c.CreatedAt,
			"updated_at": c.UpdatedAt,
		})
		if err != nil {
			return err
		}

		_, err = tx.Run(ctx, `
			MATCH (c:Cart {id: $id})
			UNWIND $items AS item
			MATCH (p:Product {id: item.product_id})
			CREATE (c)-[:CONTAINS {
				item_id: item.item_id,
				quantity: item.quantity,
				added_at: item.added_at,
				updated_at: item.updated_at
			}]->(p)
		`, map[string]any{"id": c.ID, "items": items})
		return err
	})
}

const cartProjection = `
	OPTIONAL MATCH (c)-[r:CONTAINS]->(p:Product)
	WITH c, r, p ORDER BY r.added_at ASC, r.item_id ASC
	WITH c, collect(CASE WHEN r IS NULL THEN null ELSE {rel: properties(r), product: p} END) AS items
	RETURN c AS cart, items
`

// GetCart loads a cart with its items in addition order
func (r *Repository) GetCart(ctx context.Context, id string) (*models.Cart, error) {
	results, err := r.client.ExecuteRead(ctx, `MATCH (c:Cart {id: $id})`+cartProjection, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if len(results) == 0 {
		return nil, store.ErrCartNotFound
	}
	return cartFromRecord(results[0])
}

func (r *Repository) ListCarts(ctx context.Context) ([]*models.Cart, error) {
	return r.queryCarts(ctx, `MATCH (c:Cart)`)
}

// ActiveCarts reads every active cart in a single query, which gives the
// analyzer a consistent snapshot.
func (r *Repository) ActiveCarts(ctx context.Context) ([]*models.Cart, error) {
	return r.queryCarts(ctx, `MATCH (c:Cart) WHERE c.is_active = true`)
}

func (r *Repository) queryCarts(ctx context.Context, match string) ([]*models.Cart, error) {
	results, err := r.client.ExecuteRead(ctx, match+cartProjection+` ORDER BY cart.created_at DESC, cart.id`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}

	carts := make([]*models.Cart, 0, len(results))
	for _, result := range results {
		c, err := cartFromRecord(result)
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, nil
}

func (r *Repository) DeleteCart(ctx context.Context, id string) error {
	results, err := r.client.ExecuteWriteWithResult(ctx, `
		MATCH (c:Cart {id: $id})
		WITH c, count(c) AS found
		DETACH DELETE c
		RETURN found
	`, map[string]any{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if len(results) == 0 {
		return store.ErrCartNotFound
	}
	return nil
}

func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) && neoErr.Code == "Neo.ClientError.Schema.ConstraintValidationFailed" {
		if strings.Contains(neoErr.Msg, "`license_key`") {
			return store.ErrDuplicateKey
		}
		return store.ErrDuplicateID
	}
	return fmt.Errorf("failed to write product: %w", err)
}

func productToProps(p models.Product) map[string]any {
	base := models.Base(p)
	props := map[string]any{
		"id":         string(base.ID),
		"type":       string(p.Type()),
		"price":      base.Price,
		"created_at": base.CreatedAt,
		"updated_at": base.UpdatedAt,
	}
	switch v := p.(type) {
	case *models.Book:
		props["title"] = v.Title
		props["author"] = v.Author
		props["number_of_pages"] = int64(v.NumberOfPages)
		props["weight"] = v.WeightKg
	case *models.MusicAlbum:
		props["artist"] = v.Artist
		props["title"] = v.Title
		props["number_of_tracks"] = int64(v.NumberOfTracks)
		props["weight"] = v.WeightKg
	case *models.SoftwareLicense:
		props["name"] = v.Name
		if v.LicenseKey != "" {
			props["license_key"] = v.LicenseKey
		}
		if v.ValidUntil != nil {
			props["valid_until"] = *v.ValidUntil
		}
	}
	return props
}

func productFromNode(node neo4j.Node) (models.Product, error) {
	return productFromProps(node.Props)
}

func productFromProps(props map[string]any) (models.Product, error) {
	t, _ := props["type"].(string)
	p, err := models.NewProduct(models.ProductType(t))
	if err != nil {
		return nil, err
	}

	base := models.Base(p)
	base.ID = models.ProductID(str(props, "id"))
	base.Price = float(props, "price")
	base.CreatedAt = timestamp(props, "created_at")
	base.UpdatedAt = timestamp(props, "updated_at")

	switch v := p.(type) {
	case *models.Book:
		v.Title = str(props, "title")
		v.Author = str(props, "author")
		v.NumberOfPages = int(integer(props, "number_of_pages"))
		v.WeightKg = float(props, "weight")
	case *models.MusicAlbum:
		v.Artist = str(props, "artist")
		v.Title = str(props, "title")
		v.NumberOfTracks = int(integer(props, "number_of_tracks"))
		v.WeightKg = float(props, "weight")
	case *models.SoftwareLicense:
		v.Name = str(props, "name")
		v.LicenseKey = str(props, "license_key")
		if ts, ok := props["valid_until"].(time.Time); ok {
			v.ValidUntil = &ts
		}
	}
	return p, nil
}

func cartFromRecord(record map[string]any) (*models.Cart, error) {
	node, ok := record["cart"].(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected cart record %T", record["cart"])
	}
	raw, _ := record["items"].([]any)
	return cartFromProps(node.Props, raw)
}

func cartFromProps(props map[string]any, rawItems []any) (*models.Cart, error) {
	active, _ := props["is_active"].(bool)
	c := &models.Cart{
		ID:        str(props, "id"),
		IsActive:  active,
		Items:     make([]models.CartItem, 0, len(rawItems)),
		CreatedAt: timestamp(props, "created_at"),
		UpdatedAt: timestamp(props, "updated_at"),
	}

	for _, raw := range rawItems {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rel, _ := entry["rel"].(map[string]any)

		var productProps map[string]any
		switch p := entry["product"].(type) {
		case neo4j.Node:
			productProps = p.Props
		case map[string]any:
			productProps = p
		}
		product, err := productFromProps(productProps)
		if err != nil {
			return nil, fmt.Errorf("cart %s: %w", c.ID, err)
		}

		c.Items = append(c.Items, models.CartItem{
			ID:          str(rel, "item_id"),
			ProductID:   product.ProductID(),
			ProductType: product.Type(),
			Product:     product,
			Quantity:    int(integer(rel, "quantity")),
			AddedAt:     timestamp(rel, "added_at"),
			UpdatedAt:   timestamp(rel, "updated_at"),
		})
	}
	return c, nil
}

func str(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func float(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func integer(props map[string]any, key string) int64 {
	switch v := props[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func timestamp(props map[string]any, key string) time.Time {
	if t, ok := props[key].(time.Time); ok {
		return t.UTC()
	}
	return time.Time{}
}
