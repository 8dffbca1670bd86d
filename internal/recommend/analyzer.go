package recommend

import (
	"sort"

	"github.com/yishak-cs/cartrec/internal/models"
)

// AnalyzeSequences finds, for every product that was ever added after
// another one, the product most often added immediately before it.
//
// Products that only ever appear first in their carts have no entry.
func AnalyzeSequences(carts []Sequence) (map[models.ProductID]PredecessorStat, error) {
	seqs, err := snapshot(carts)
	if err != nil {
		return nil, err
	}

	predecessors := make(map[models.ProductID]*counter)
	for _, seq := range seqs {
		for i := 1; i < len(seq); i++ {
			prev, curr := seq[i-1], seq[i]
			c, ok := predecessors[curr]
			if !ok {
				c = newCounter()
				predecessors[curr] = c
			}
			c.add(prev)
		}
	}

	result := make(map[models.ProductID]PredecessorStat, len(predecessors))
	for id, c := range predecessors {
		pred, n := c.top()
		result[id] = PredecessorStat{
			ProductID:             id,
			MostCommonPredecessor: &pred,
			Occurrences:           n,
		}
	}
	return result, nil
}

// AnalyzeFollowers is the mirror of AnalyzeSequences: for every product that
// was followed by something, the product most often added right after it.
func AnalyzeFollowers(carts []Sequence) (map[models.ProductID]FollowerStat, error) {
	seqs, err := snapshot(carts)
	if err != nil {
		return nil, err
	}

	followers := make(map[models.ProductID]*counter)
	for _, seq := range seqs {
		for i := 0; i+1 < len(seq); i++ {
			curr, next := seq[i], seq[i+1]
			c, ok := followers[curr]
			if !ok {
				c = newCounter()
				followers[curr] = c
			}
			c.add(next)
		}
	}

	result := make(map[models.ProductID]FollowerStat, len(followers))
	for id, c := range followers {
		next, n := c.top()
		result[id] = FollowerStat{ProductID: id, MostCommonNext: next, Occurrences: n}
	}
	return result, nil
}

// RecommendFollowersOf lists the products added immediately after productID,
// most frequent first, at most limit entries. The result is never nil.
func RecommendFollowersOf(productID models.ProductID, carts []Sequence, limit int) ([]RecommendationEntry, error) {
	if productID == "" {
		return nil, ErrInvalidProductID
	}
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	seqs, err := snapshot(carts)
	if err != nil {
		return nil, err
	}

	c := newCounter()
	for _, seq := range seqs {
		for i := 0; i+1 < len(seq); i++ {
			if seq[i] == productID {
				c.add(seq[i+1])
			}
		}
	}
	return c.mostCommon(limit), nil
}

type pairKey struct {
	a, b models.ProductID
}

// CoOccurrencePairs counts, for every unordered pair of distinct products,
// the number of carts containing both. Order and repeats within a cart are
// ignored. Pairs seen in fewer than minFrequency carts are dropped; values
// below 1 are treated as 1. Results are sorted by count descending, then by
// ProductA and ProductB.
func CoOccurrencePairs(carts []Sequence, minFrequency int) ([]CoOccurrencePair, error) {
	if minFrequency < 1 {
		minFrequency = 1
	}
	seqs, err := snapshot(carts)
	if err != nil {
		return nil, err
	}

	counts := make(map[pairKey]int)
	for _, seq := range seqs {
		ids := sortedDistinct(seq)
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				counts[pairKey{ids[i], ids[j]}]++
			}
		}
	}

	pairs := make([]CoOccurrencePair, 0, len(counts))
	for k, n := range counts {
		if n >= minFrequency {
			pairs = append(pairs, CoOccurrencePair{ProductA: k.a, ProductB: k.b, Count: n})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].ProductA != pairs[j].ProductA {
			return pairs[i].ProductA < pairs[j].ProductA
		}
		return pairs[i].ProductB < pairs[j].ProductB
	})
	return pairs, nil
}

func sortedDistinct(seq []models.ProductID) []models.ProductID {
	set := distinct(seq)
	ids := make([]models.ProductID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Similarity is the Jaccard index of the distinct products of two carts.
// Two empty carts have a similarity of 0.
func Similarity(a, b Sequence) (float64, error) {
	seqs, err := snapshot([]Sequence{a, b})
	if err != nil {
		return 0, err
	}
	return jaccard(distinct(seqs[0]), distinct(seqs[1])), nil
}

func jaccard(a, b map[models.ProductID]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for id := range small {
		if _, ok := large[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// SimilarCarts ranks carts by their similarity to target, highest first.
// Carts sharing nothing with target are left out, equal scores keep input
// order, and at most limit entries are returned.
func SimilarCarts(target Sequence, carts []Sequence, limit int) ([]ScoredSequence, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	seqs, err := snapshot(append([]Sequence{target}, carts...))
	if err != nil {
		return nil, err
	}
	ref := distinct(seqs[0])

	scored := make([]ScoredSequence, 0, len(carts))
	for i, seq := range seqs[1:] {
		if s := jaccard(ref, distinct(seq)); s > 0 {
			scored = append(scored, ScoredSequence{Index: i, Score: s})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}
