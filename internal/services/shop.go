package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/store"
)

const productCacheSize = 1024

type productKey struct {
	t  models.ProductType
	id models.ProductID
}

// ShopService handles catalog and cart operations
type ShopService struct {
	repo  store.Repository
	cache *lru.Cache[productKey, models.Product]
	now   func() time.Time

	// cartMu serializes read-modify-write cycles on carts
	cartMu sync.Mutex
}

// NewShopService creates a new shop service
func NewShopService(repo store.Repository) (*ShopService, error) {
	cache, err := lru.New[productKey, models.Product](productCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create product cache: %w", err)
	}
	return &ShopService{
		repo:  repo,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateProduct validates and stores a new product, assigning id and timestamps
func (s *ShopService) CreateProduct(ctx context.Context, p models.Product) error {
	base := models.Base(p)
	base.ID = models.NewProductID()
	base.CreatedAt = s.now()
	base.UpdatedAt = base.CreatedAt

	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.cache.Add(productKey{p.Type(), base.ID}, p)
	logging.Ctx(ctx).Info().Str("product_id", base.ID.String()).Str("type", string(p.Type())).Msg("Product created")
	return nil
}

// UpdateProduct replaces a product, keeping its id and creation time
func (s *ShopService) UpdateProduct(ctx context.Context, id models.ProductID, p models.Product) error {
	current, err := s.GetProduct(ctx, p.Type(), id)
	if err != nil {
		return err
	}
	base := models.Base(p)
	base.ID = id
	base.CreatedAt = models.Base(current).CreatedAt
	base.UpdatedAt = s.now()

	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.cache.Add(productKey{p.Type(), id}, p)
	return nil
}

// GetProduct resolves a product through the cache
func (s *ShopService) GetProduct(ctx context.Context, t models.ProductType, id models.ProductID) (models.Product, error) {
	key := productKey{t, id}
	if p, ok := s.cache.Get(key); ok {
		return p, nil
	}
	p, err := s.repo.GetProduct(ctx, t, id)
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, p)
	return p, nil
}

func (s *ShopService) ListProducts(ctx context.Context, t models.ProductType) ([]models.Product, error) {
	return s.repo.ListProducts(ctx, t)
}

func (s *ShopService) DeleteProduct(ctx context.Context, t models.ProductType, id models.ProductID) error {
	if err := s.repo.DeleteProduct(ctx, t, id); err != nil {
		return err
	}
	s.cache.Remove(productKey{t, id})
	return nil
}

// CreateCart stores a new empty active cart
func (s *ShopService) CreateCart(ctx context.Context) (*models.Cart, error) {
	c := models.NewCart()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	if err := s.repo.SaveCart(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ShopService) GetCart(ctx context.Context, id string) (*models.Cart, error) {
	return s.repo.GetCart(ctx, id)
}

func (s *ShopService) ListCarts(ctx context.Context) ([]*models.Cart, error) {
	return s.repo.ListCarts(ctx)
}

func (s *ShopService) DeleteCart(ctx context.Context, id string) error {
	return s.repo.DeleteCart(ctx, id)
}

// AddItem adds quantity units of a product to a cart
func (s *ShopService) AddItem(ctx context.Context, cartID string, t models.ProductType, productID models.ProductID, quantity int) (*models.Cart, error) {
	p, err := s.GetProduct(ctx, t, productID)
	if err != nil {
		return nil, err
	}
	return s.mutateCart(ctx, cartID, func(c *models.Cart) error {
		_, err := c.AddItem(p, quantity)
		return err
	})
}

// RemoveItem removes a product from a cart, ErrItemNotInCart when it is absent
func (s *ShopService) RemoveItem(ctx context.Context, cartID string, t models.ProductType, productID models.ProductID) (*models.Cart, error) {
	if _, err := s.GetProduct(ctx, t, productID); err != nil {
		return nil, err
	}
	return s.mutateCart(ctx, cartID, func(c *models.Cart) error {
		if !c.RemoveItem(productID) {
			return models.ErrItemNotInCart
		}
		return nil
	})
}

// UpdateItem sets the quantity of a product already in the cart; zero removes it
func (s *ShopService) UpdateItem(ctx context.Context, cartID string, t models.ProductType, productID models.ProductID, quantity int) (*models.Cart, error) {
	if _, err := s.GetProduct(ctx, t, productID); err != nil {
		return nil, err
	}
	return s.mutateCart(ctx, cartID, func(c *models.Cart) error {
		return c.UpdateItemQuantity(productID, quantity)
	})
}

// ClearCart removes every item from a cart
func (s *ShopService) ClearCart(ctx context.Context, cartID string) (*models.Cart, error) {
	return s.mutateCart(ctx, cartID, func(c *models.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *ShopService) mutateCart(ctx context.Context, cartID string, fn func(*models.Cart) error) (*models.Cart, error) {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	c, err := s.repo.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.SetClock(s.now)
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCart(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return c, nil
}
