package recommend

import (
	"reflect"
	"sort"

	"github.com/yishak-cs/cartrec/internal/models"
)

// counter tallies product ids and remembers the order they were first seen.
type counter struct {
	counts map[models.ProductID]int
	order  []models.ProductID
}

func newCounter() *counter {
	return &counter{counts: make(map[models.ProductID]int)}
}

func (c *counter) add(id models.ProductID) {
	if _, ok := c.counts[id]; !ok {
		c.order = append(c.order, id)
	}
	c.counts[id]++
}

// top returns the highest count; ties go to the id seen first.
func (c *counter) top() (models.ProductID, int) {
	var best models.ProductID
	bestCount := 0
	for _, id := range c.order {
		if n := c.counts[id]; n > bestCount {
			best, bestCount = id, n
		}
	}
	return best, bestCount
}

// mostCommon lists ids by count descending, first-seen order among equals.
func (c *counter) mostCommon(limit int) []RecommendationEntry {
	entries := make([]RecommendationEntry, 0, len(c.order))
	for _, id := range c.order {
		entries = append(entries, RecommendationEntry{FollowedProductID: id, Frequency: c.counts[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Frequency > entries[j].Frequency
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

// snapshot reads every cart once and rejects missing carts and empty ids.
func snapshot(carts []Sequence) ([][]models.ProductID, error) {
	out := make([][]models.ProductID, len(carts))
	for i, cart := range carts {
		if isNil(cart) {
			return nil, &InputError{Cart: i, Position: -1, Err: ErrInvalidCart}
		}
		seq := cart.OrderedProductIDs()
		if err := checkIDs(i, seq); err != nil {
			return nil, err
		}
		out[i] = seq
	}
	return out, nil
}

// isNil also catches typed nil pointers such as (*models.Cart)(nil). A nil
// IDs slice is an empty cart, not a missing one.
func isNil(s Sequence) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func checkIDs(cart int, seq []models.ProductID) error {
	for pos, id := range seq {
		if id == "" {
			return &InputError{Cart: cart, Position: pos, Err: ErrInvalidProductID}
		}
	}
	return nil
}

func distinct(seq []models.ProductID) map[models.ProductID]struct{} {
	set := make(map[models.ProductID]struct{}, len(seq))
	for _, id := range seq {
		set[id] = struct{}{}
	}
	return set
}
