package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product (or product variant) in the cart.
// UnitPrice is frozen at add/edit time.
type CartLine struct {
	Key          string             `json:"key"`
	ProductID    int                `json:"productId"`
	VariantID    int                `json:"variantId,omitempty"`
	Name         string             `json:"name"`
	SKU          string             `json:"sku,omitempty"`
	Quantity     int                `json:"quantity"`
	UnitPrice    decimal.Decimal    `json:"unitPrice"`
	RegularPrice decimal.Decimal    `json:"regularPrice"`
	LineTotal    decimal.Decimal    `json:"lineTotal"`
	Attributes   []VariantAttribute `json:"attributes,omitempty"`
	StockCeiling int                `json:"stockCeiling"`
	Image        *Image             `json:"image,omitempty"`
}

// CartTotals is recomputed after every mutation. The VAT split is display only.
type CartTotals struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	NetTotal  decimal.Decimal `json:"netTotal"`
	VATTotal  decimal.Decimal `json:"vatTotal"`
}

// Cart is the serialized cart snapshot.
type Cart struct {
	Lines     []CartLine `json:"lines"`
	Coupon    *Coupon    `json:"coupon,omitempty"`
	Totals    CartTotals `json:"totals"`
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Line returns the line with the given key, or nil.
func (c *Cart) Line(key string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Key == key {
			return &c.Lines[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
