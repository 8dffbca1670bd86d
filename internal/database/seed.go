package database

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/store"
)

// SeedFile is the on-disk fixture format:
//
//	{
//	  "products": [{"type": "book", "id": "...", "price": 10, "title": "...", ...}],
//	  "carts": [{"id": "...", "is_active": true, "items": [{"product_id": "...", "quantity": 1}]}]
//	}
//
// Cart items are added in the order they are listed.
type SeedFile struct {
	Products []json.RawMessage `json:"products"`
	Carts    []SeedCart        `json:"carts"`
}

type SeedCart struct {
	ID       string     `json:"id"`
	IsActive *bool      `json:"is_active"`
	Items    []SeedItem `json:"items"`
}

type SeedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// SeedImporter loads fixtures into any repository
type SeedImporter struct {
	repo store.Repository
	now  func() time.Time
}

// NewSeedImporter creates a new seed importer
func NewSeedImporter(repo store.Repository) *SeedImporter {
	return &SeedImporter{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// ImportFile imports a seed file from disk
func (i *SeedImporter) ImportFile(ctx context.Context, path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return i.Import(ctx, f)
}

// Import reads products first, then carts, and returns how many of each it created
func (i *SeedImporter) Import(ctx context.Context, r io.Reader) (map[string]int, error) {
	var seed SeedFile
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	log := logging.WithComponent("seed")

	catalog := make(map[models.ProductID]models.Product, len(seed.Products))
	for n, raw := range seed.Products {
		p, err := decodeProduct(raw)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", n, err)
		}
		base := models.Base(p)
		if base.ID == "" {
			base.ID = models.NewProductID()
		}
		if base.CreatedAt.IsZero() {
			base.CreatedAt = i.now()
			base.UpdatedAt = base.CreatedAt
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %d: %w", n, err)
		}
		if err := i.repo.CreateProduct(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to import product %s: %w", base.ID, err)
		}
		catalog[base.ID] = p
	}
	log.Info().Int("products", len(catalog)).Msg("Imported products")

	// consecutive items get strictly increasing timestamps so addition order survives storage
	clock := i.now()
	tick := func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}

	for n, sc := range seed.Carts {
		c := models.NewCart()
		if sc.ID != "" {
			c.ID = sc.ID
		}
		if sc.IsActive != nil {
			c.IsActive = *sc.IsActive
		}
		c.CreatedAt = tick()
		c.SetClock(tick)

		for _, item := range sc.Items {
			p, ok := catalog[models.ProductID(item.ProductID)]
			if !ok {
				return nil, fmt.Errorf("cart %d: %w: %s", n, store.ErrProductNotFound, item.ProductID)
			}
			qty := item.Quantity
			if qty == 0 {
				qty = 1
			}
			if _, err := c.AddItem(p, qty); err != nil {
				return nil, fmt.Errorf("cart %d: %w", n, err)
			}
		}
		c.SetClock(nil)

		if err := i.repo.SaveCart(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to import cart %s: %w", c.ID, err)
		}
	}
	log.Info().Int("carts", len(seed.Carts)).Msg("Imported carts")

	return map[string]int{
		"products": len(catalog),
		"carts":    len(seed.Carts),
	}, nil
}

func decodeProduct(raw json.RawMessage) (models.Product, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}
	t, err := models.ParseProductType(head.Type)
	if err != nil {
		return nil, err
	}
	p, _ := models.NewProduct(t)
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
