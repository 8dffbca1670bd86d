package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrItemNotInCart   = errors.New("item not in cart")
)

// CartItem is one product line in a cart
type CartItem struct {
	ID          string      `json:"id"`
	ProductID   ProductID   `json:"product_id"`
	ProductType ProductType `json:"product_type"`
	Product     Product     `json:"product_details,omitempty"`
	Quantity    int         `json:"quantity"`
	AddedAt     time.Time   `json:"added_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Subtotal returns price times quantity, 0 when the product is unresolved
func (i CartItem) Subtotal() float64 {
	if i.Product == nil {
		return 0
	}
	return i.Product.UnitPrice() * float64(i.Quantity)
}

// Cart keeps its items in the order they were first added
type Cart struct {
	ID        string     `json:"id"`
	IsActive  bool       `json:"is_active"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	now func() time.Time
}

// NewCart creates an empty active cart
func NewCart() *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        uuid.NewString(),
		IsActive:  true,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().UTC()
}

// SetClock overrides the time source, used by tests and importers
func (c *Cart) SetClock(now func() time.Time) { c.now = now }

func (c *Cart) indexOf(id ProductID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == id {
			return i
		}
	}
	return -1
}

// AddItem appends the product or, when it is already present, increases its
// quantity while keeping its original position.
func (c *Cart) AddItem(p Product, quantity int) (*CartItem, error) {
	if p == nil || p.ProductID() == "" {
		return nil, fmt.Errorf("%w: missing product id", ErrInvalidProduct)
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	now := c.clock()
	c.UpdatedAt = now

	if i := c.indexOf(p.ProductID()); i >= 0 {
		c.Items[i].Quantity += quantity
		c.Items[i].UpdatedAt = now
		c.Items[i].Product = p
		return &c.Items[i], nil
	}

	c.Items = append(c.Items, CartItem{
		ID:          uuid.NewString(),
		ProductID:   p.ProductID(),
		ProductType: p.Type(),
		Product:     p,
		Quantity:    quantity,
		AddedAt:     now,
		UpdatedAt:   now,
	})
	return &c.Items[len(c.Items)-1], nil
}

// RemoveItem drops the product from the cart and reports whether it was there
func (c *Cart) RemoveItem(id ProductID) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = c.clock()
	return true
}

// UpdateItemQuantity sets an item's quantity. A quantity of zero or less removes it.
func (c *Cart) UpdateItemQuantity(id ProductID, quantity int) error {
	if quantity <= 0 {
		if !c.RemoveItem(id) {
			return ErrItemNotInCart
		}
		return nil
	}
	i := c.indexOf(id)
	if i < 0 {
		return ErrItemNotInCart
	}
	now := c.clock()
	c.Items[i].Quantity = quantity
	c.Items[i].UpdatedAt = now
	c.UpdatedAt = now
	return nil
}

// Clear removes every item
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.UpdatedAt = c.clock()
}

func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

func (c *Cart) TotalWeight() float64 {
	var total float64
	for _, item := range c.Items {
		if item.Product != nil {
			total += item.Product.Weight() * float64(item.Quantity)
		}
	}
	return total
}

// ItemsCount is the sum of all quantities
func (c *Cart) ItemsCount() int {
	var n int
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// OrderedProductIDs returns a copy of the product ids in addition order
func (c *Cart) OrderedProductIDs() []ProductID {
	if c == nil {
		return nil
	}
	ids := make([]ProductID, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}

// Clone returns a deep enough copy for handing to readers outside a lock
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}
