package store

import (
	"context"
	"sort"
	"sync"

	"github.com/yishak-cs/cartrec/internal/models"
)

// Memory keeps everything in process. It is the default backend when no
// Neo4j URI is configured.
type Memory struct {
	mu       sync.RWMutex
	products map[models.ProductType]map[models.ProductID]models.Product
	carts    map[string]*models.Cart
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[models.ProductType]map[models.ProductID]models.Product),
		carts:    make(map[string]*models.Cart),
	}
}

func (m *Memory) Close(context.Context) error { return nil }

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = make(map[models.ProductType]map[models.ProductID]models.Product)
	m.carts = make(map[string]*models.Cart)
	return nil
}

func (m *Memory) CreateProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// ids are unique across product types, like the graph constraint
	for _, byID := range m.products {
		if _, ok := byID[p.ProductID()]; ok {
			return ErrDuplicateID
		}
	}
	if err := m.checkLicenseKey(p); err != nil {
		return err
	}
	byID, ok := m.products[p.Type()]
	if !ok {
		byID = make(map[models.ProductID]models.Product)
		m.products[p.Type()] = byID
	}
	byID[p.ProductID()] = p
	return nil
}

func (m *Memory) UpdateProduct(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.Type()][p.ProductID()]; !ok {
		return ErrProductNotFound
	}
	if err := m.checkLicenseKey(p); err != nil {
		return err
	}
	m.products[p.Type()][p.ProductID()] = p
	return nil
}

func (m *Memory) checkLicenseKey(p models.Product) error {
	l, ok := p.(*models.SoftwareLicense)
	if !ok || l.LicenseKey == "" {
		return nil
	}
	for id, other := range m.products[models.ProductTypeSoftwareLicense] {
		if id != l.ID && other.(*models.SoftwareLicense).LicenseKey == l.LicenseKey {
			return ErrDuplicateKey
		}
	}
	return nil
}

func (m *Memory) GetProduct(_ context.Context, t models.ProductType, id models.ProductID) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[t][id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// ListProducts returns products newest first
func (m *Memory) ListProducts(_ context.Context, t models.ProductType) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.products[t]))
	for _, p := range m.products[t] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := models.Base(out[i]), models.Base(out[j])
		if !bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.CreatedAt.After(bj.CreatedAt)
		}
		return bi.ID < bj.ID
	})
	return out, nil
}

func (m *Memory) DeleteProduct(_ context.Context, t models.ProductType, id models.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[t][id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products[t], id)
	for _, c := range m.carts {
		c.RemoveItem(id)
	}
	return nil
}

func (m *Memory) SaveCart(_ context.Context, c *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.ID] = c.Clone()
	return nil
}

func (m *Memory) GetCart(_ context.Context, id string) (*models.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return m.resolve(c), nil
}

func (m *Memory) ListCarts(context.Context) ([]*models.Cart, error) {
	return m.collect(false), nil
}

func (m *Memory) ActiveCarts(context.Context) ([]*models.Cart, error) {
	return m.collect(true), nil
}

// collect returns clones sorted newest first, ties by id
func (m *Memory) collect(activeOnly bool) []*models.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Cart, 0, len(m.carts))
	for _, c := range m.carts {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, m.resolve(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// resolve clones c and points every item at the current catalog entry, so
// product updates show up in carts the way a graph read would. Callers hold mu.
func (m *Memory) resolve(c *models.Cart) *models.Cart {
	out := c.Clone()
	for i := range out.Items {
		item := &out.Items[i]
		if p, ok := m.products[item.ProductType][item.ProductID]; ok {
			item.Product = p
		}
	}
	return out
}

func (m *Memory) DeleteCart(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.carts[id]; !ok {
		return ErrCartNotFound
	}
	delete(m.carts, id)
	return nil
}
