package woocommerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// gmtLayout is the format of *_gmt date fields.
const gmtLayout = "2006-01-02T15:04:05"

// ToProduct converts an upstream product and its variations to the catalog
// model. Variations keep the order they were listed in.
func ToProduct(p *Product, variations []Variation) (*models.Product, error) {
	pricing, err := toPricing(p.Price, p.RegularPrice, p.SalePrice, p.OnSale, p.DateOnSaleFromGMT, p.DateOnSaleToGMT)
	if err != nil {
		return nil, fmt.Errorf("product %d: %w", p.ID, err)
	}

	out := &models.Product{
		Pricing:       pricing,
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Type:          models.ProductType(p.Type),
		SKU:           p.SKU,
		StockQuantity: p.StockQuantity,
		StockStatus:   p.StockStatus,
	}
	if !p.ManageStock {
		out.StockQuantity = nil
	}
	if t, ok := parseGMT(&p.DateModifiedGMT); ok {
		out.UpdatedAt = t
	}
	for _, a := range p.Attributes {
		out.Attributes = append(out.Attributes, models.Attribute{
			ID:        a.ID,
			Name:      a.Name,
			Options:   a.Options,
			Variation: a.Variation,
		})
	}
	for _, img := range p.Images {
		out.Images = append(out.Images, models.Image{ID: img.ID, Src: img.Src, Alt: img.Alt})
	}

	for i := range variations {
		v, err := ToVariant(&variations[i], i)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		out.Variants = append(out.Variants, *v)
	}
	return out, nil
}

// ToVariant converts an upstream variation at catalog position pos.
func ToVariant(v *Variation, pos int) (*models.Variant, error) {
	pricing, err := toPricing(v.Price, v.RegularPrice, v.SalePrice, v.OnSale, v.DateOnSaleFromGMT, v.DateOnSaleToGMT)
	if err != nil {
		return nil, fmt.Errorf("variation %d: %w", v.ID, err)
	}
	out := &models.Variant{
		Pricing:       pricing,
		ID:            v.ID,
		SKU:           v.SKU,
		Position:      pos,
		StockQuantity: v.StockQuantity,
		StockStatus:   v.StockStatus,
	}
	// "parent" means the product level stock applies
	if managed, ok := v.ManageStock.(bool); ok && !managed {
		out.StockQuantity = nil
	} else if s, ok := v.ManageStock.(string); ok && s == "parent" {
		out.StockQuantity = nil
	}
	for _, a := range v.Attributes {
		out.Attributes = append(out.Attributes, models.VariantAttribute{Name: a.Name, Option: a.Option})
	}
	if v.Image != nil && v.Image.Src != "" {
		out.Image = &models.Image{ID: v.Image.ID, Src: v.Image.Src, Alt: v.Image.Alt}
	}
	return out, nil
}

// ToCoupon converts an upstream coupon. Product level discounts are applied
// like cart level fixed discounts.
func ToCoupon(c *Coupon) (models.Coupon, error) {
	value, err := parseMoney(c.Amount)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("coupon %s: %w", c.Code, err)
	}
	kind := models.DiscountFixed
	if c.DiscountType == "percent" {
		kind = models.DiscountPercent
	}
	return models.Coupon{Code: strings.ToLower(c.Code), Value: value.Decimal, Kind: kind}, nil
}

// CouponExpired reports whether the coupon expiry date lies before now.
func CouponExpired(c *Coupon, now time.Time) bool {
	expires, ok := parseGMT(c.DateExpiresGMT)
	return ok && now.After(expires)
}

// CouponExhausted reports whether the coupon reached its usage limit.
func CouponExhausted(c *Coupon) bool {
	return c.UsageLimit != nil && *c.UsageLimit > 0 && c.UsageCount >= *c.UsageLimit
}

// ToShippingMethod converts an enabled zone method. Methods whose category
// cannot be told from the method id are left uncategorized.
func ToShippingMethod(zoneID int, m *ShippingZoneMethod) (models.ShippingMethod, bool) {
	if !m.Enabled {
		return models.ShippingMethod{}, false
	}
	out := models.ShippingMethod{
		ID:       fmt.Sprintf("%d:%d", zoneID, m.InstanceID),
		MethodID: m.MethodID,
		ZoneID:   zoneID,
		Title:    m.Title,
		Category: methodCategory(m.MethodID),
	}
	if setting, ok := m.Settings["cost"]; ok {
		if raw, ok := setting.Value.(string); ok {
			if cost, err := parseMoney(raw); err == nil && cost.Valid {
				out.Cost = cost.Decimal
			}
		}
	}
	if out.Title == "" {
		out.Title = m.MethodTitle
	}
	return out, true
}

// ToPaymentMethod converts a payment gateway.
func ToPaymentMethod(g *PaymentGateway) models.PaymentMethod {
	title := g.Title
	if title == "" {
		title = g.MethodTitle
	}
	return models.PaymentMethod{ID: g.ID, Title: title, Enabled: g.Enabled}
}

// FromOrderAddress converts an order address block to the customer profile
// shape.
func FromOrderAddress(a models.OrderAddress) *Address {
	return &Address{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  a.Address1,
		Address2:  a.Address2,
		City:      a.City,
		Postcode:  a.Postcode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func methodCategory(methodID string) models.ShippingCategory {
	id := strings.ToLower(methodID)
	switch {
	case id == "free_shipping":
		return models.ShippingFree
	case hasIDSegment(id, "cod"):
		return models.ShippingCOD
	case id == "local_pickup", strings.Contains(id, "pickup_point"), strings.Contains(id, "parcel_machine"), strings.Contains(id, "paczkomat"):
		return models.ShippingPickupPoint
	default:
		return ""
	}
}

// hasIDSegment reports whether seg appears as a whole part of a method id
// split on '_', '-' and ':'.
func hasIDSegment(id, seg string) bool {
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ':'
	})
	for _, p := range parts {
		if p == seg {
			return true
		}
	}
	return false
}

func toPricing(price, regular, sale string, onSale bool, from, to *string) (models.Pricing, error) {
	var out models.Pricing
	p, err := parseMoney(price)
	if err != nil {
		return out, fmt.Errorf("price: %w", err)
	}
	out.Price = p.Decimal
	if out.RegularPrice, err = parseMoney(regular); err != nil {
		return out, fmt.Errorf("regular_price: %w", err)
	}
	if out.SalePrice, err = parseMoney(sale); err != nil {
		return out, fmt.Errorf("sale_price: %w", err)
	}
	out.OnSale = onSale
	if t, ok := parseGMT(from); ok {
		out.DateOnSaleFrom = &t
	}
	if t, ok := parseGMT(to); ok {
		out.DateOnSaleTo = &t
	}
	return out, nil
}

// parseMoney parses an optional decimal string; empty means absent.
func parseMoney(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func parseGMT(s *string) (time.Time, bool) {
	if s == nil || *s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(gmtLayout, *s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
