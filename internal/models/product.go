package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductType enumerates the supported catalog product types.
type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
)

// Pricing is the price block shared by products and variants.
// RegularPrice and SalePrice are invalid when the catalog leaves them empty.
type Pricing struct {
	Price          decimal.Decimal     `json:"price"`
	RegularPrice   decimal.NullDecimal `json:"regularPrice"`
	SalePrice      decimal.NullDecimal `json:"salePrice"`
	OnSale         bool                `json:"onSale"`
	DateOnSaleFrom *time.Time          `json:"dateOnSaleFrom,omitempty"`
	DateOnSaleTo   *time.Time          `json:"dateOnSaleTo,omitempty"`
}

// PricingBlock returns the price block itself so products and variants
// satisfy the same price source contract.
func (p *Pricing) PricingBlock() *Pricing {
	return p
}

// Attribute is a named product dimension with its options in catalog order.
type Attribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Options   []string `json:"options"`
	Variation bool     `json:"variation"`
}

// VariantAttribute is a single (attribute, option) pair declared by a variant.
type VariantAttribute struct {
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Image is a catalog image reference.
type Image struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	Pricing

	ID            int                `json:"id"`
	SKU           string             `json:"sku"`
	Position      int                `json:"position"`
	StockQuantity *int               `json:"stockQuantity,omitempty"`
	StockStatus   string             `json:"stockStatus"`
	Attributes    []VariantAttribute `json:"attributes"`
	Image         *Image             `json:"image,omitempty"`
}

// Product is a catalog entry with its nested variants.
// StockQuantity is nil when the catalog does not manage stock at product level.
type Product struct {
	Pricing

	ID            int         `json:"id"`
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Type          ProductType `json:"type"`
	SKU           string      `json:"sku"`
	StockQuantity *int        `json:"stockQuantity,omitempty"`
	StockStatus   string      `json:"stockStatus"`
	Attributes    []Attribute `json:"attributes"`
	Variants      []Variant   `json:"variants"`
	Images        []Image     `json:"images,omitempty"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// HasVariants reports whether the product is sold through variants.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// VariantByID returns the variant with the given id, or nil.
func (p *Product) VariantByID(id int) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// Selection maps attribute name to the chosen option. It may be partial.
type Selection map[string]string
