package models

// SequenceAnalysis is one row of the "what is added next" report
type SequenceAnalysis struct {
	ProductID             ProductID `json:"product_id"`
	MostCommonNextProduct ProductID `json:"most_common_next_product"`
	OccurrenceCount       int       `json:"occurrence_count"`
}

// PredecessorAnalysis is one row of the "what was added before" report
type PredecessorAnalysis struct {
	ProductID             ProductID  `json:"product_id"`
	MostCommonPredecessor *ProductID `json:"most_common_predecessor"`
	Occurrences           int        `json:"occurrences"`
}

// Recommendation is a product suggested after another one
type Recommendation struct {
	ProductID ProductID `json:"product_id"`
	Frequency int       `json:"frequency"`
}

// BoughtTogether is a pair of products seen in the same carts
type BoughtTogether struct {
	Products  [2]ProductID `json:"products"`
	Frequency int          `json:"frequency"`
}

// SimilarCart scores another cart against a reference cart
type SimilarCart struct {
	CartID string  `json:"cart_id"`
	Score  float64 `json:"score"`
}

// AddToCartRequest is the body of the add/remove/update item endpoints
type AddToCartRequest struct {
	ProductType string `json:"product_type" binding:"required,oneof=book music_album software_license"`
	ProductID   string `json:"product_id" binding:"required,uuid"`
	Quantity    *int   `json:"quantity" binding:"omitempty,min=0"`
}

// CartSummary is the API view of a cart with computed totals
type CartSummary struct {
	*Cart
	TotalPrice  float64 `json:"total_price"`
	TotalWeight float64 `json:"total_weight"`
	ItemsCount  int     `json:"items_count"`
}

// Summarize computes the totals for the API view
func Summarize(c *Cart) CartSummary {
	return CartSummary{
		Cart:        c,
		TotalPrice:  c.TotalPrice(),
		TotalWeight: c.TotalWeight(),
		ItemsCount:  c.ItemsCount(),
	}
}
