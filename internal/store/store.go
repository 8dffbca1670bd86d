// Package store defines the persistence contracts for products and carts and
// provides an in-memory implementation.
package store

import (
	"context"
	"errors"

	"github.com/yishak-cs/cartrec/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrDuplicateKey    = errors.New("license key already in use")
	ErrDuplicateID     = errors.New("product id already exists")
)

// ProductRepository stores the catalog
type ProductRepository interface {
	CreateProduct(ctx context.Context, p models.Product) error
	UpdateProduct(ctx context.Context, p models.Product) error
	GetProduct(ctx context.Context, t models.ProductType, id models.ProductID) (models.Product, error)
	ListProducts(ctx context.Context, t models.ProductType) ([]models.Product, error)
	DeleteProduct(ctx context.Context, t models.ProductType, id models.ProductID) error
}

// CartRepository stores carts. Returned carts are copies owned by the caller.
type CartRepository interface {
	SaveCart(ctx context.Context, c *models.Cart) error
	GetCart(ctx context.Context, id string) (*models.Cart, error)
	ListCarts(ctx context.Context) ([]*models.Cart, error)
	// ActiveCarts returns a consistent snapshot of every active cart with
	// items in addition order.
	ActiveCarts(ctx context.Context) ([]*models.Cart, error)
	DeleteCart(ctx context.Context, id string) error
}

// Repository is the full persistence surface used by the services
type Repository interface {
	ProductRepository
	CartRepository
	// Clear drops every product and cart
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}
