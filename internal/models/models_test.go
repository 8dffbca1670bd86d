package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBook() *Book {
	return &Book{
		ProductBase:   ProductBase{ID: "B001", Price: 34.99},
		Title:         "Clean Code",
		Author:        "Robert C. Martin",
		NumberOfPages: 464,
		WeightKg:      0.7,
	}
}

func testAlbum() *MusicAlbum {
	return &MusicAlbum{
		ProductBase:    ProductBase{ID: "M001", Price: 15.99},
		Artist:         "The Beatles",
		Title:          "Abbey Road",
		NumberOfTracks: 17,
		WeightKg:       0.1,
	}
}

func testLicense() *SoftwareLicense {
	return &SoftwareLicense{
		ProductBase: ProductBase{ID: "S001", Price: 199},
		Name:        "PyCharm Professional",
	}
}

func TestProductValidation(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{name: "valid book", product: testBook()},
		{name: "valid album", product: testAlbum()},
		{name: "valid license", product: testLicense()},
		{name: "negative price", product: func() Product { b := testBook(); b.Price = -10; return b }(), wantErr: true},
		{name: "zero pages", product: func() Product { b := testBook(); b.NumberOfPages = 0; return b }(), wantErr: true},
		{name: "negative weight", product: func() Product { b := testBook(); b.WeightKg = -0.5; return b }(), wantErr: true},
		{name: "missing title", product: func() Product { b := testBook(); b.Title = ""; return b }(), wantErr: true},
		{name: "negative tracks", product: func() Product { a := testAlbum(); a.NumberOfTracks = -5; return a }(), wantErr: true},
		{name: "license without name", product: func() Product { l := testLicense(); l.Name = ""; return l }(), wantErr: true},
		{name: "free license", product: func() Product { l := testLicense(); l.Price = 0; return l }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProduct)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProductAccessors(t *testing.T) {
	assert.Equal(t, 0.7, testBook().Weight())
	assert.Equal(t, 0.1, testAlbum().Weight())
	assert.Equal(t, 0.0, testLicense().Weight())

	assert.Equal(t, "Clean Code by Robert C. Martin", testBook().Description())
	assert.Equal(t, "Abbey Road by The Beatles", testAlbum().Description())
	assert.Equal(t, "PyCharm Professional", testLicense().Description())

	assert.Equal(t, ProductTypeSoftwareLicense, testLicense().Type())
	assert.Equal(t, 199.0, testLicense().UnitPrice())
}

func TestParseProductType(t *testing.T) {
	got, err := ParseProductType("music_album")
	require.NoError(t, err)
	assert.Equal(t, ProductTypeMusicAlbum, got)

	_, err = ParseProductType("vinyl")
	assert.ErrorIs(t, err, ErrUnknownProductType)

	p, err := NewProduct(ProductTypeBook)
	require.NoError(t, err)
	assert.IsType(t, &Book{}, p)
	assert.NotNil(t, Base(p))
}

func TestCart_AddItem(t *testing.T) {
	c := NewCart()
	assert.True(t, c.IsActive)
	assert.True(t, c.IsEmpty())

	_, err := c.AddItem(testBook(), 2)
	require.NoError(t, err)
	_, err = c.AddItem(testAlbum(), 3)
	require.NoError(t, err)
	_, err = c.AddItem(testBook(), 1)
	require.NoError(t, err)

	assert.Len(t, c.Items, 2)
	assert.False(t, c.IsEmpty())
	assert.Equal(t, 6, c.ItemsCount())
	assert.Equal(t, []ProductID{"B001", "M001"}, c.OrderedProductIDs())

	_, err = c.AddItem(testLicense(), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.AddItem(&Book{}, 1)
	assert.ErrorIs(t, err, ErrInvalidProduct)
}

func TestCart_Totals(t *testing.T) {
	c := NewCart()
	_, err := c.AddItem(testBook(), 2)
	require.NoError(t, err)
	_, err = c.AddItem(testLicense(), 1)
	require.NoError(t, err)

	assert.InDelta(t, 2*34.99+199, c.TotalPrice(), 1e-9)
	assert.InDelta(t, 1.4, c.TotalWeight(), 1e-9)
}

func TestCart_RemoveAndUpdate(t *testing.T) {
	c := NewCart()
	fixed := time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return fixed })

	_, err := c.AddItem(testBook(), 1)
	require.NoError(t, err)
	_, err = c.AddItem(testAlbum(), 1)
	require.NoError(t, err)

	require.NoError(t, c.UpdateItemQuantity("M001", 4))
	assert.Equal(t, 5, c.ItemsCount())
	assert.Equal(t, fixed, c.UpdatedAt)

	assert.ErrorIs(t, c.UpdateItemQuantity("nope", 2), ErrItemNotInCart)

	require.NoError(t, c.UpdateItemQuantity("M001", 0))
	assert.Equal(t, []ProductID{"B001"}, c.OrderedProductIDs())

	assert.True(t, c.RemoveItem("B001"))
	assert.False(t, c.RemoveItem("B001"))

	_, err = c.AddItem(testBook(), 1)
	require.NoError(t, err)
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.TotalPrice())
}

func TestCart_SequenceIsACopy(t *testing.T) {
	c := NewCart()
	_, err := c.AddItem(testBook(), 1)
	require.NoError(t, err)
	_, err = c.AddItem(testBook(), 1)
	require.NoError(t, err)

	ids := c.OrderedProductIDs()
	ids[0] = "changed"
	assert.Equal(t, []ProductID{"B001"}, c.OrderedProductIDs())

	var missing *Cart
	assert.Nil(t, missing.OrderedProductIDs())

	clone := c.Clone()
	clone.Clear()
	assert.Len(t, c.Items, 1)
}

func TestSummarize(t *testing.T) {
	c := NewCart()
	_, err := c.AddItem(testAlbum(), 2)
	require.NoError(t, err)

	s := Summarize(c)
	assert.InDelta(t, 31.98, s.TotalPrice, 1e-9)
	assert.InDelta(t, 0.2, s.TotalWeight, 1e-9)
	assert.Equal(t, 2, s.ItemsCount)
}
