package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/recommend"
	"github.com/yishak-cs/cartrec/internal/services"
	"github.com/yishak-cs/cartrec/internal/store"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker func(ctx context.Context) error

// APIHandler handles all API requests
type APIHandler struct {
	shop                  *services.ShopService
	recommendationService *services.RecommendationService
	health                HealthChecker
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(shop *services.ShopService, recommendationService *services.RecommendationService, health HealthChecker) *APIHandler {
	return &APIHandler{
		shop:                  shop,
		recommendationService: recommendationService,
		health:                health,
	}
}

// SetupRoutes configures all API routes
func (h *APIHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		h.productRoutes(api.Group("/books"), models.ProductTypeBook)
		h.productRoutes(api.Group("/music-albums"), models.ProductTypeMusicAlbum)
		h.productRoutes(api.Group("/software-licenses"), models.ProductTypeSoftwareLicense)

		carts := api.Group("/carts")
		carts.GET("", h.ListCarts)
		carts.POST("", h.CreateCart)

		// analytics over all active carts
		carts.GET("/analyze_sequences", h.AnalyzeSequences)
		carts.GET("/predecessors", h.GetPredecessors)
		carts.GET("/recommendations", h.GetRecommendations)
		carts.GET("/frequently_bought_together", h.GetFrequentlyBoughtTogether)

		carts.GET("/:id", h.GetCart)
		carts.DELETE("/:id", h.DeleteCart)
		carts.POST("/:id/add_item", h.AddItem)
		carts.POST("/:id/remove_item", h.RemoveItem)
		carts.POST("/:id/update_item", h.UpdateItem)
		carts.POST("/:id/clear", h.ClearCart)
		carts.GET("/:id/similar", h.GetSimilarCarts)
		carts.GET("/:id/similarity/:other", h.GetCartSimilarity)
	}
}

// Health handles liveness checks
func (h *APIHandler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health(c.Request.Context()); err != nil {
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, store.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
	case errors.Is(err, models.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
	case errors.Is(err, store.ErrDuplicateKey), errors.Is(err, store.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidProduct),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrUnknownProductType),
		errors.Is(err, recommend.ErrInvalidLimit),
		errors.Is(err, recommend.ErrInvalidProductID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// queryInt reads an integer query parameter, falling back to def when absent
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return v, true
}
