package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yishak-cs/cartrec/internal/models"
)

const (
	A models.ProductID = "A"
	B models.ProductID = "B"
	C models.ProductID = "C"
	D models.ProductID = "D"
)

func carts(seqs ...IDs) []Sequence {
	out := make([]Sequence, len(seqs))
	for i, s := range seqs {
		out[i] = s
	}
	return out
}

func pid(id models.ProductID) *models.ProductID { return &id }

func TestAnalyzeSequences(t *testing.T) {
	tests := []struct {
		name  string
		carts []Sequence
		want  map[models.ProductID]PredecessorStat
	}{
		{
			name:  "most common predecessor",
			carts: carts(IDs{A, B}, IDs{A, B}, IDs{A, C}, IDs{C, B}),
			want: map[models.ProductID]PredecessorStat{
				B: {ProductID: B, MostCommonPredecessor: pid(A), Occurrences: 2},
				C: {ProductID: C, MostCommonPredecessor: pid(A), Occurrences: 1},
			},
		},
		{
			name:  "singletons have no predecessors",
			carts: carts(IDs{A}, IDs{B}),
			want:  map[models.ProductID]PredecessorStat{},
		},
		{
			name:  "no carts",
			carts: nil,
			want:  map[models.ProductID]PredecessorStat{},
		},
		{
			name:  "empty carts",
			carts: carts(IDs{}, IDs{}),
			want:  map[models.ProductID]PredecessorStat{},
		},
		{
			name:  "self predecessor is counted",
			carts: carts(IDs{A, A, B}),
			want: map[models.ProductID]PredecessorStat{
				A: {ProductID: A, MostCommonPredecessor: pid(A), Occurrences: 1},
				B: {ProductID: B, MostCommonPredecessor: pid(A), Occurrences: 1},
			},
		},
		{
			name:  "tie goes to the predecessor seen first",
			carts: carts(IDs{C, B}, IDs{A, B}, IDs{A, B}, IDs{C, B}),
			want: map[models.ProductID]PredecessorStat{
				B: {ProductID: B, MostCommonPredecessor: pid(C), Occurrences: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AnalyzeSequences(tt.carts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAnalyzeSequences_FirstProductHasNoEntry(t *testing.T) {
	got, err := AnalyzeSequences(carts(IDs{A, B}, IDs{A, C}))
	require.NoError(t, err)
	_, ok := got[A]
	assert.False(t, ok)
}

func TestAnalyzeFollowers(t *testing.T) {
	got, err := AnalyzeFollowers(carts(IDs{A, B}, IDs{A, B}, IDs{A, C, B}))
	require.NoError(t, err)

	assert.Equal(t, map[models.ProductID]FollowerStat{
		A: {ProductID: A, MostCommonNext: B, Occurrences: 2},
		C: {ProductID: C, MostCommonNext: B, Occurrences: 1},
	}, got)
}

func TestRecommendFollowersOf(t *testing.T) {
	data := carts(IDs{A, B}, IDs{A, B})

	got, err := RecommendFollowersOf(A, data, 5)
	require.NoError(t, err)
	assert.Equal(t, []RecommendationEntry{{FollowedProductID: B, Frequency: 2}}, got)

	got, err = RecommendFollowersOf(B, data, 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommendFollowersOf_OrderingAndLimit(t *testing.T) {
	data := carts(
		IDs{A, C},
		IDs{A, D},
		IDs{A, B},
		IDs{A, B},
		IDs{B, A, D},
	)

	got, err := RecommendFollowersOf(A, data, 5)
	require.NoError(t, err)
	assert.Equal(t, []RecommendationEntry{
		{FollowedProductID: D, Frequency: 2},
		{FollowedProductID: B, Frequency: 2},
		{FollowedProductID: C, Frequency: 1},
	}, got)

	got, err = RecommendFollowersOf(A, data, 1)
	require.NoError(t, err)
	assert.Equal(t, []RecommendationEntry{{FollowedProductID: D, Frequency: 2}}, got)
}

func TestRecommendFollowersOf_InvalidArguments(t *testing.T) {
	data := carts(IDs{A, B})

	for _, limit := range []int{0, -3} {
		_, err := RecommendFollowersOf(A, data, limit)
		assert.ErrorIs(t, err, ErrInvalidLimit)
	}

	_, err := RecommendFollowersOf("", data, 5)
	assert.ErrorIs(t, err, ErrInvalidProductID)
}

func TestCoOccurrencePairs(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		got, err := CoOccurrencePairs(carts(IDs{A, B}, IDs{B, A}), 2)
		require.NoError(t, err)
		assert.Equal(t, []CoOccurrencePair{{ProductA: A, ProductB: B, Count: 2}}, got)
	})

	t.Run("duplicates count once per cart", func(t *testing.T) {
		got, err := CoOccurrencePairs(carts(IDs{A, A, B}), 1)
		require.NoError(t, err)
		assert.Equal(t, []CoOccurrencePair{{ProductA: A, ProductB: B, Count: 1}}, got)
	})

	t.Run("fewer than two distinct products", func(t *testing.T) {
		got, err := CoOccurrencePairs(carts(IDs{A}, IDs{B, B}, IDs{}), 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sorted by count then canonical pair", func(t *testing.T) {
		got, err := CoOccurrencePairs(carts(
			IDs{C, D},
			IDs{D, C},
			IDs{B, A},
			IDs{A, B},
			IDs{A, C, B},
		), 1)
		require.NoError(t, err)
		assert.Equal(t, []CoOccurrencePair{
			{ProductA: A, ProductB: B, Count: 3},
			{ProductA: C, ProductB: D, Count: 2},
			{ProductA: A, ProductB: C, Count: 1},
			{ProductA: B, ProductB: C, Count: 1},
		}, got)
	})

	t.Run("non positive threshold keeps every pair", func(t *testing.T) {
		got, err := CoOccurrencePairs(carts(IDs{A, B}), 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestCoOccurrencePairs_MinFrequencyOnlyShrinks(t *testing.T) {
	data := carts(IDs{A, B, C}, IDs{A, B}, IDs{B, C}, IDs{A, B, D}, IDs{C, D})

	prev := -1
	for minFreq := 1; minFreq <= 5; minFreq++ {
		got, err := CoOccurrencePairs(data, minFreq)
		require.NoError(t, err)
		for _, p := range got {
			assert.GreaterOrEqual(t, p.Count, minFreq)
			assert.Less(t, string(p.ProductA), string(p.ProductB))
		}
		if prev >= 0 {
			assert.LessOrEqual(t, len(got), prev)
		}
		prev = len(got)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b IDs
		want float64
	}{
		{name: "both empty", a: IDs{}, b: IDs{}, want: 0},
		{name: "one empty", a: IDs{A}, b: IDs{}, want: 0},
		{name: "identical", a: IDs{A, B}, b: IDs{B, A}, want: 1},
		{name: "duplicates ignored", a: IDs{A, A, B}, b: IDs{A, B, B}, want: 1},
		{name: "partial overlap", a: IDs{A, B, C}, b: IDs{B, C, D}, want: 0.5},
		{name: "disjoint", a: IDs{A}, b: IDs{B}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, err := Similarity(tt.a, tt.b)
			require.NoError(t, err)
			ba, err := Similarity(tt.b, tt.a)
			require.NoError(t, err)

			assert.InDelta(t, tt.want, ab, 1e-9)
			assert.Equal(t, ab, ba)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		})
	}
}

func TestSimilarCarts(t *testing.T) {
	target := IDs{A, B}
	data := carts(IDs{C}, IDs{A, C}, IDs{A, B}, IDs{B, C})

	got, err := SimilarCarts(target, data, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2, got[0].Index)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
	assert.Equal(t, 1, got[1].Index)
	assert.Equal(t, 3, got[2].Index)

	got, err = SimilarCarts(target, data, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = SimilarCarts(target, data, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestInvalidProductIDFailsFast(t *testing.T) {
	bad := carts(IDs{A, B}, IDs{A, "", B})

	var inputErr *InputError

	_, err := AnalyzeSequences(bad)
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, 1, inputErr.Cart)
	assert.Equal(t, 1, inputErr.Position)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = AnalyzeFollowers(bad)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = RecommendFollowersOf(A, bad, 5)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = CoOccurrencePairs(bad, 1)
	assert.ErrorIs(t, err, ErrInvalidProductID)

	_, err = Similarity(IDs{A}, IDs{""})
	assert.ErrorIs(t, err, ErrInvalidProductID)
}

func TestMissingCartFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		missing Sequence
	}{
		{name: "nil interface", missing: nil},
		{name: "nil cart pointer", missing: (*models.Cart)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []Sequence{IDs{A, B}, tt.missing}

			var inputErr *InputError
			stats, err := AnalyzeSequences(data)
			require.ErrorAs(t, err, &inputErr)
			assert.Nil(t, stats)
			assert.Equal(t, 1, inputErr.Cart)
			assert.Equal(t, -1, inputErr.Position)
			assert.ErrorIs(t, err, ErrInvalidCart)

			_, err = AnalyzeFollowers(data)
			assert.ErrorIs(t, err, ErrInvalidCart)
			_, err = RecommendFollowersOf(A, data, 5)
			assert.ErrorIs(t, err, ErrInvalidCart)
			_, err = CoOccurrencePairs(data, 1)
			assert.ErrorIs(t, err, ErrInvalidCart)
			_, err = Similarity(IDs{A}, tt.missing)
			assert.ErrorIs(t, err, ErrInvalidCart)
			_, err = SimilarCarts(tt.missing, carts(IDs{A}), 5)
			assert.ErrorIs(t, err, ErrInvalidCart)
		})
	}

	// a nil id slice is an empty cart
	stats, err := AnalyzeSequences([]Sequence{IDs(nil), IDs{A, B}})
	require.NoError(t, err)
	assert.Len(t, stats, 1)
}

func TestAnalysesAreIdempotent(t *testing.T) {
	data := carts(IDs{A, B, C}, IDs{C, B, A}, IDs{A, C}, IDs{B, B, D})

	seq1, err := AnalyzeSequences(data)
	require.NoError(t, err)
	seq2, err := AnalyzeSequences(data)
	require.NoError(t, err)
	assert.Equal(t, seq1, seq2)

	rec1, err := RecommendFollowersOf(A, data, 5)
	require.NoError(t, err)
	rec2, err := RecommendFollowersOf(A, data, 5)
	require.NoError(t, err)
	assert.Equal(t, rec1, rec2)

	pairs1, err := CoOccurrencePairs(data, 1)
	require.NoError(t, err)
	pairs2, err := CoOccurrencePairs(data, 1)
	require.NoError(t, err)
	assert.Equal(t, pairs1, pairs2)
}

func TestCartSatisfiesSequence(t *testing.T) {
	book := &models.Book{ProductBase: models.ProductBase{ID: A, Price: 10}, Title: "T", Author: "X", NumberOfPages: 10, WeightKg: 0.5}
	album := &models.MusicAlbum{ProductBase: models.ProductBase{ID: B, Price: 5}, Artist: "Y", Title: "Z", NumberOfTracks: 3, WeightKg: 0.1}

	cart := models.NewCart()
	_, err := cart.AddItem(book, 1)
	require.NoError(t, err)
	_, err = cart.AddItem(album, 1)
	require.NoError(t, err)

	got, err := AnalyzeSequences([]Sequence{cart, cart})
	require.NoError(t, err)
	assert.Equal(t, PredecessorStat{ProductID: B, MostCommonPredecessor: pid(A), Occurrences: 2}, got[B])
	assert.Len(t, cart.Items, 2)
}
