// Package recommend derives "frequently added together" statistics from the
// order in which products are added to carts.
//
// Every function here is a pure computation over a snapshot of cart
// sequences. Nothing is cached between calls and the carts are never
// modified.
//
// # Tie-breaking
//
// Whenever two candidates have the same count, the one observed first wins.
// Carts are scanned in the order given and each cart from left to right.
// Co-occurrence pairs with equal counts are ordered by their canonical
// (ProductA, ProductB) ordering instead.
//
// # Self-pairs
//
// An adjacent pair (X, X) is counted like any other pair, so X can be its
// own most common predecessor or follower.
package recommend

import (
	"errors"
	"fmt"

	"github.com/yishak-cs/cartrec/internal/models"
)

const (
	// DefaultRecommendationLimit is used by callers that do not pass a limit.
	DefaultRecommendationLimit = 5
	// DefaultMinFrequency is the default co-occurrence threshold.
	DefaultMinFrequency = 2
)

// Sequence is anything that can report the products it holds in the order
// they were added. *models.Cart satisfies it.
type Sequence interface {
	OrderedProductIDs() []models.ProductID
}

// IDs adapts a plain slice of product ids to a Sequence.
type IDs []models.ProductID

// OrderedProductIDs returns a copy of the ids
func (s IDs) OrderedProductIDs() []models.ProductID {
	out := make([]models.ProductID, len(s))
	copy(out, s)
	return out
}

// PredecessorStat reports the product most often added right before ProductID.
type PredecessorStat struct {
	ProductID             models.ProductID  `json:"product_id"`
	MostCommonPredecessor *models.ProductID `json:"most_common_predecessor"`
	Occurrences           int               `json:"occurrences"`
}

// FollowerStat reports the product most often added right after ProductID.
type FollowerStat struct {
	ProductID      models.ProductID `json:"product_id"`
	MostCommonNext models.ProductID `json:"most_common_next_product"`
	Occurrences    int              `json:"occurrence_count"`
}

// RecommendationEntry is a product that followed the queried product.
type RecommendationEntry struct {
	FollowedProductID models.ProductID `json:"product_id"`
	Frequency         int              `json:"frequency"`
}

// CoOccurrencePair counts the carts holding both products. ProductA < ProductB.
type CoOccurrencePair struct {
	ProductA models.ProductID `json:"product_a"`
	ProductB models.ProductID `json:"product_b"`
	Count    int              `json:"count"`
}

// ScoredSequence is a cart ranked by similarity, Index refers to the input slice.
type ScoredSequence struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

var (
	ErrInvalidProductID = errors.New("invalid product id")
	ErrInvalidCart      = errors.New("missing cart")
	ErrInvalidLimit     = errors.New("limit must be at least 1")
)

// InputError points at the malformed entry that aborted an analysis.
// Position is -1 when the whole cart is missing.
type InputError struct {
	Cart     int
	Position int
	Err      error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("cart %d position %d: %v", e.Cart, e.Position, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
