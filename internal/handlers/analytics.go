package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/recommend"
)

// AnalyzeSequences handles "which product is added next" across active carts
func (h *APIHandler) AnalyzeSequences(c *gin.Context) {
	results, err := h.recommendationService.AnalyzeSequences(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to analyze sequences")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetPredecessors handles "which product is added before" across active carts
func (h *APIHandler) GetPredecessors(c *gin.Context) {
	results, err := h.recommendationService.Predecessors(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to analyze predecessors")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetRecommendations handles product recommendation requests
func (h *APIHandler) GetRecommendations(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id parameter is required"})
		return
	}
	limit, ok := queryInt(c, "limit", recommend.DefaultRecommendationLimit)
	if !ok {
		return
	}

	results, err := h.recommendationService.Recommendations(c.Request.Context(), models.ProductID(productID), limit)
	if err != nil {
		respondError(c, err, "Failed to get recommendations")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetFrequentlyBoughtTogether handles co-occurrence requests
func (h *APIHandler) GetFrequentlyBoughtTogether(c *gin.Context) {
	minFrequency, ok := queryInt(c, "min_frequency", recommend.DefaultMinFrequency)
	if !ok {
		return
	}

	results, err := h.recommendationService.FrequentlyBoughtTogether(c.Request.Context(), minFrequency)
	if err != nil {
		respondError(c, err, "Failed to get frequently bought together products")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetCartSimilarity compares two carts by the products they share
func (h *APIHandler) GetCartSimilarity(c *gin.Context) {
	a, b := c.Param("id"), c.Param("other")
	score, err := h.recommendationService.CartSimilarity(c.Request.Context(), a, b)
	if err != nil {
		respondError(c, err, "Failed to compare carts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart_id": a, "other_cart_id": b, "score": score})
}

// GetSimilarCarts ranks other active carts against the given one
func (h *APIHandler) GetSimilarCarts(c *gin.Context) {
	limit, ok := queryInt(c, "limit", recommend.DefaultRecommendationLimit)
	if !ok {
		return
	}

	results, err := h.recommendationService.SimilarCarts(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to find similar carts")
		return
	}
	c.JSON(http.StatusOK, results)
}
