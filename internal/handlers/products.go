package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yishak-cs/cartrec/internal/models"
)

func (h *APIHandler) productRoutes(g *gin.RouterGroup, t models.ProductType) {
	g.GET("", h.listProducts(t))
	g.POST("", h.createProduct(t))
	g.GET("/:id", h.getProduct(t))
	g.PUT("/:id", h.updateProduct(t))
	g.DELETE("/:id", h.deleteProduct(t))
}

func bindProduct(c *gin.Context, t models.ProductType) (models.Product, bool) {
	p, err := models.NewProduct(t)
	if err != nil {
		respondError(c, err, "Failed to decode product")
		return nil, false
	}
	if err := c.ShouldBindJSON(p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	return p, true
}

func (h *APIHandler) listProducts(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := h.shop.ListProducts(c.Request.Context(), t)
		if err != nil {
			respondError(c, err, "Failed to list products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func (h *APIHandler) createProduct(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := bindProduct(c, t)
		if !ok {
			return
		}
		if err := h.shop.CreateProduct(c.Request.Context(), p); err != nil {
			respondError(c, err, "Failed to create product")
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func (h *APIHandler) getProduct(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.shop.GetProduct(c.Request.Context(), t, models.ProductID(c.Param("id")))
		if err != nil {
			respondError(c, err, "Failed to get product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (h *APIHandler) updateProduct(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := bindProduct(c, t)
		if !ok {
			return
		}
		if err := h.shop.UpdateProduct(c.Request.Context(), models.ProductID(c.Param("id")), p); err != nil {
			respondError(c, err, "Failed to update product")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (h *APIHandler) deleteProduct(t models.ProductType) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.shop.DeleteProduct(c.Request.Context(), t, models.ProductID(c.Param("id"))); err != nil {
			respondError(c, err, "Failed to delete product")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
