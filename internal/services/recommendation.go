package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/yishak-cs/cartrec/internal/logging"
	"github.com/yishak-cs/cartrec/internal/models"
	"github.com/yishak-cs/cartrec/internal/recommend"
	"github.com/yishak-cs/cartrec/internal/store"
)

// RecommendationService runs the sequence analyses over a fresh snapshot of
// the active carts on every call.
type RecommendationService struct {
	carts store.CartRepository
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(carts store.CartRepository) *RecommendationService {
	return &RecommendationService{carts: carts}
}

func (s *RecommendationService) snapshot(ctx context.Context) ([]*models.Cart, []recommend.Sequence, error) {
	carts, err := s.carts.ActiveCarts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load active carts: %w", err)
	}
	seqs := make([]recommend.Sequence, len(carts))
	for i, c := range carts {
		seqs[i] = recommend.IDs(c.OrderedProductIDs())
	}
	logging.Ctx(ctx).Debug().Int("carts", len(carts)).Msg("Loaded cart snapshot")
	return carts, seqs, nil
}

// AnalyzeSequences answers: "Which product is most often added right after each product?"
func (s *RecommendationService) AnalyzeSequences(ctx context.Context) ([]models.SequenceAnalysis, error) {
	_, seqs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := recommend.AnalyzeFollowers(seqs)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze sequences: %w", err)
	}

	results := make([]models.SequenceAnalysis, 0, len(stats))
	for _, st := range stats {
		results = append(results, models.SequenceAnalysis{
			ProductID:             st.ProductID,
			MostCommonNextProduct: st.MostCommonNext,
			OccurrenceCount:       st.Occurrences,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].OccurrenceCount != results[j].OccurrenceCount {
			return results[i].OccurrenceCount > results[j].OccurrenceCount
		}
		return results[i].ProductID < results[j].ProductID
	})
	return results, nil
}

// Predecessors answers: "Which product is most often added right before each product?"
func (s *RecommendationService) Predecessors(ctx context.Context) ([]models.PredecessorAnalysis, error) {
	_, seqs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := recommend.AnalyzeSequences(seqs)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze predecessors: %w", err)
	}

	results := make([]models.PredecessorAnalysis, 0, len(stats))
	for _, st := range stats {
		results = append(results, models.PredecessorAnalysis{
			ProductID:             st.ProductID,
			MostCommonPredecessor: st.MostCommonPredecessor,
			Occurrences:           st.Occurrences,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Occurrences != results[j].Occurrences {
			return results[i].Occurrences > results[j].Occurrences
		}
		return results[i].ProductID < results[j].ProductID
	})
	return results, nil
}

// Recommendations answers: "Once X is in the cart, what gets added next?"
func (s *RecommendationService) Recommendations(ctx context.Context, productID models.ProductID, limit int) ([]models.Recommendation, error) {
	_, seqs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := recommend.RecommendFollowersOf(productID, seqs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendations: %w", err)
	}

	results := make([]models.Recommendation, len(entries))
	for i, e := range entries {
		results[i] = models.Recommendation{ProductID: e.FollowedProductID, Frequency: e.Frequency}
	}
	return results, nil
}

// FrequentlyBoughtTogether answers: "Which pairs of products share carts most often?"
func (s *RecommendationService) FrequentlyBoughtTogether(ctx context.Context, minFrequency int) ([]models.BoughtTogether, error) {
	_, seqs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := recommend.CoOccurrencePairs(seqs, minFrequency)
	if err != nil {
		return nil, fmt.Errorf("failed to find co-occurring products: %w", err)
	}

	results := make([]models.BoughtTogether, len(pairs))
	for i, p := range pairs {
		results[i] = models.BoughtTogether{
			Products:  [2]models.ProductID{p.ProductA, p.ProductB},
			Frequency: p.Count,
		}
	}
	return results, nil
}

// SimilarCarts ranks the other active carts by Jaccard similarity to cartID
func (s *RecommendationService) SimilarCarts(ctx context.Context, cartID string, limit int) ([]models.SimilarCart, error) {
	target, err := s.carts.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	carts, seqs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	others := make([]*models.Cart, 0, len(carts))
	otherSeqs := make([]recommend.Sequence, 0, len(seqs))
	for i, c := range carts {
		if c.ID != cartID {
			others = append(others, c)
			otherSeqs = append(otherSeqs, seqs[i])
		}
	}

	scored, err := recommend.SimilarCarts(recommend.IDs(target.OrderedProductIDs()), otherSeqs, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to score carts: %w", err)
	}

	results := make([]models.SimilarCart, len(scored))
	for i, sc := range scored {
		results[i] = models.SimilarCart{CartID: others[sc.Index].ID, Score: sc.Score}
	}
	return results, nil
}

// CartSimilarity compares two stored carts
func (s *RecommendationService) CartSimilarity(ctx context.Context, a, b string) (float64, error) {
	ca, err := s.carts.GetCart(ctx, a)
	if err != nil {
		return 0, err
	}
	cb, err := s.carts.GetCart(ctx, b)
	if err != nil {
		return 0, err
	}
	return recommend.Similarity(ca, cb)
}
