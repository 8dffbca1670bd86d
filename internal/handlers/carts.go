package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yishak-cs/cartrec/internal/models"
)

// ListCarts returns every cart with its totals
func (h *APIHandler) ListCarts(c *gin.Context) {
	carts, err := h.shop.ListCarts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list carts")
		return
	}
	out := make([]models.CartSummary, len(carts))
	for i, cart := range carts {
		out[i] = models.Summarize(cart)
	}
	c.JSON(http.StatusOK, out)
}

// CreateCart opens a new empty cart
func (h *APIHandler) CreateCart(c *gin.Context) {
	cart, err := h.shop.CreateCart(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to create cart")
		return
	}
	c.JSON(http.StatusCreated, models.Summarize(cart))
}

// GetCart returns a single cart
func (h *APIHandler) GetCart(c *gin.Context) {
	cart, err := h.shop.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get cart")
		return
	}
	c.JSON(http.StatusOK, models.Summarize(cart))
}

// DeleteCart removes a cart and its items
func (h *APIHandler) DeleteCart(c *gin.Context) {
	if err := h.shop.DeleteCart(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete cart")
		return
	}
	c.Status(http.StatusNoContent)
}

func bindItem(c *gin.Context) (models.AddToCartRequest, bool) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

// AddItem adds a product to the cart, one unit unless a quantity is given
func (h *APIHandler) AddItem(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	cart, err := h.shop.AddItem(c.Request.Context(), c.Param("id"),
		models.ProductType(req.ProductType), models.ProductID(req.ProductID), quantity)
	if err != nil {
		respondError(c, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, models.Summarize(cart))
}

// RemoveItem drops a product from the cart whatever its quantity
func (h *APIHandler) RemoveItem(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	cart, err := h.shop.RemoveItem(c.Request.Context(), c.Param("id"),
		models.ProductType(req.ProductType), models.ProductID(req.ProductID))
	if err != nil {
		respondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, models.Summarize(cart))
}

// UpdateItem sets an item's quantity; zero removes it
func (h *APIHandler) UpdateItem(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if req.Quantity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}
	cart, err := h.shop.UpdateItem(c.Request.Context(), c.Param("id"),
		models.ProductType(req.ProductType), models.ProductID(req.ProductID), *req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update item")
		return
	}
	c.JSON(http.StatusOK, models.Summarize(cart))
}

// ClearCart empties a cart but keeps it
func (h *APIHandler) ClearCart(c *gin.Context) {
	cart, err := h.shop.ClearCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, models.Summarize(cart))
}
