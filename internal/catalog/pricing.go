package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PriceSource is implemented by products and variants.
type PriceSource interface {
	PricingBlock() *models.Pricing
}

// Quote is the price to display for a product or variant at a point in time.
type Quote struct {
	DisplayPrice    decimal.Decimal `json:"displayPrice"`
	RegularPrice    decimal.Decimal `json:"regularPrice"`
	IsOnSale        bool            `json:"isOnSale"`
	DiscountPercent int             `json:"discountPercent"`
}

// Price computes the display price of target at now.
//
// A sale is active only when the on-sale flag is set, the sale price is
// strictly below the regular price and now falls inside the optional sale
// window (a missing bound is unbounded). Without regular/sale fields the
// plain price is used and no discount is reported.
func Price(target PriceSource, now time.Time) Quote {
	p := target.PricingBlock()

	if !p.RegularPrice.Valid {
		return Quote{DisplayPrice: p.Price, RegularPrice: p.Price}
	}

	regular := p.RegularPrice.Decimal
	q := Quote{DisplayPrice: regular, RegularPrice: regular}
	if !saleActive(p, now) {
		return q
	}

	sale := p.SalePrice.Decimal
	q.DisplayPrice = sale
	q.IsOnSale = true
	if regular.IsPositive() {
		q.DiscountPercent = int(regular.Sub(sale).Div(regular).Mul(hundred).Round(0).IntPart())
	}
	return q
}

func saleActive(p *models.Pricing, now time.Time) bool {
	if !p.OnSale || !p.SalePrice.Valid || !p.RegularPrice.Valid {
		return false
	}
	if !p.SalePrice.Decimal.LessThan(p.RegularPrice.Decimal) {
		return false
	}
	return InWindow(now, p.DateOnSaleFrom, p.DateOnSaleTo)
}

// InWindow reports whether now lies within [from, to]. Nil bounds are open.
func InWindow(now time.Time, from, to *time.Time) bool {
	if from != nil && now.Before(*from) {
		return false
	}
	if to != nil && now.After(*to) {
		return false
	}
	return true
}
