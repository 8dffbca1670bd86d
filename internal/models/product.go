package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductID is an opaque product identifier. Only equality and ordering matter.
type ProductID string

// String implements fmt.Stringer
func (id ProductID) String() string { return string(id) }

// NewProductID generates a fresh random identifier
func NewProductID() ProductID {
	return ProductID(uuid.NewString())
}

// ProductType names one of the closed set of product kinds
type ProductType string

const (
	ProductTypeBook            ProductType = "book"
	ProductTypeMusicAlbum      ProductType = "music_album"
	ProductTypeSoftwareLicense ProductType = "software_license"
)

// ParseProductType validates a raw product type string
func ParseProductType(s string) (ProductType, error) {
	switch t := ProductType(s); t {
	case ProductTypeBook, ProductTypeMusicAlbum, ProductTypeSoftwareLicense:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProductType, s)
	}
}

var (
	ErrInvalidProduct     = errors.New("invalid product")
	ErrUnknownProductType = errors.New("unknown product type")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Product is implemented by Book, MusicAlbum and SoftwareLicense only
type Product interface {
	ProductID() ProductID
	Type() ProductType
	UnitPrice() float64
	// Weight returns the weight in kilograms, 0 for digital products
	Weight() float64
	Description() string
	Validate() error

	sealed()
}

// ProductBase holds the attributes shared by every product kind
type ProductBase struct {
	ID        ProductID `json:"id"`
	Price     float64   `json:"price" validate:"gte=0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p ProductBase) ProductID() ProductID { return p.ID }
func (p ProductBase) UnitPrice() float64   { return p.Price }
func (ProductBase) sealed()                {}

// Book is a physical book
type Book struct {
	ProductBase
	Title         string  `json:"title" validate:"required,max=255"`
	Author        string  `json:"author" validate:"required,max=255"`
	NumberOfPages int     `json:"number_of_pages" validate:"gte=1"`
	WeightKg      float64 `json:"weight" validate:"gt=0"`
}

func (b *Book) Type() ProductType { return ProductTypeBook }
func (b *Book) Weight() float64   { return b.WeightKg }
func (b *Book) Validate() error   { return validateProduct(b) }

func (b *Book) Description() string {
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}

// MusicAlbum is a physical CD
type MusicAlbum struct {
	ProductBase
	Artist         string  `json:"artist" validate:"required,max=255"`
	Title          string  `json:"title" validate:"required,max=255"`
	NumberOfTracks int     `json:"number_of_tracks" validate:"gte=1"`
	WeightKg       float64 `json:"weight" validate:"gt=0"`
}

func (a *MusicAlbum) Type() ProductType { return ProductTypeMusicAlbum }
func (a *MusicAlbum) Weight() float64   { return a.WeightKg }
func (a *MusicAlbum) Validate() error   { return validateProduct(a) }

func (a *MusicAlbum) Description() string {
	return fmt.Sprintf("%s by %s", a.Title, a.Artist)
}

// SoftwareLicense is a digital product and has no weight
type SoftwareLicense struct {
	ProductBase
	Name       string     `json:"name" validate:"required,max=255"`
	LicenseKey string     `json:"license_key,omitempty" validate:"omitempty,max=255"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
}

func (l *SoftwareLicense) Type() ProductType   { return ProductTypeSoftwareLicense }
func (l *SoftwareLicense) Weight() float64     { return 0 }
func (l *SoftwareLicense) Validate() error     { return validateProduct(l) }
func (l *SoftwareLicense) Description() string { return l.Name }

func validateProduct(p any) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	return nil
}

// NewProduct returns an empty product of the given type, ready for decoding
func NewProduct(t ProductType) (Product, error) {
	switch t {
	case ProductTypeBook:
		return &Book{}, nil
	case ProductTypeMusicAlbum:
		return &MusicAlbum{}, nil
	case ProductTypeSoftwareLicense:
		return &SoftwareLicense{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProductType, t)
	}
}

// Base exposes the shared attributes of any product for mutation
func Base(p Product) *ProductBase {
	switch v := p.(type) {
	case *Book:
		return &v.ProductBase
	case *MusicAlbum:
		return &v.ProductBase
	case *SoftwareLicense:
		return &v.ProductBase
	}
	return nil
}
