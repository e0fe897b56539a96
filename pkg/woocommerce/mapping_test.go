package woocommerce

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func TestToProduct(t *testing.T) {
	p := &Product{
		ID:            5,
		Name:          "Uchwyt",
		Slug:          "uchwyt",
		Type:          "variable",
		Price:         "49.00",
		ManageStock:   false,
		StockQuantity: intPtr(99),
		Attributes: []Attribute{
			{ID: 1, Name: "Finish", Variation: true, Options: []string{"Gold", "Black"}},
		},
		Images:          []Image{{ID: 7, Src: "https://cdn.example.com/u.jpg"}},
		DateModifiedGMT: "2026-02-01T08:00:00",
	}
	variations := []Variation{
		{
			ID:                51,
			Price:             "39.00",
			RegularPrice:      "49.00",
			SalePrice:         "39.00",
			OnSale:            true,
			DateOnSaleFromGMT: strPtr("2026-01-01T00:00:00"),
			ManageStock:       true,
			StockQuantity:     intPtr(4),
			Attributes:        []VariationAttribute{{Name: "Finish", Option: "Gold"}},
		},
		{
			ID:            52,
			Price:         "49.00",
			ManageStock:   "parent",
			StockQuantity: intPtr(12),
			Attributes:    []VariationAttribute{{Name: "Finish", Option: "Black"}},
			Image:         &Image{ID: 8, Src: "https://cdn.example.com/b.jpg"},
		},
	}

	got, err := ToProduct(p, variations)
	require.NoError(t, err)
	assert.Equal(t, models.ProductTypeVariable, got.Type)
	assert.Nil(t, got.StockQuantity, "unmanaged product stock is ignored")
	assert.False(t, got.RegularPrice.Valid)
	assert.Equal(t, time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC), got.UpdatedAt)

	require.Len(t, got.Variants, 2)
	gold := got.Variants[0]
	assert.Equal(t, 0, gold.Position)
	assert.True(t, gold.SalePrice.Decimal.Equal(decimal.RequireFromString("39")))
	require.NotNil(t, gold.DateOnSaleFrom)
	assert.Nil(t, gold.DateOnSaleTo)
	assert.Equal(t, 4, *gold.StockQuantity)

	black := got.Variants[1]
	assert.Equal(t, 1, black.Position)
	assert.Nil(t, black.StockQuantity, "parent managed stock defers to product")
	require.NotNil(t, black.Image)
	assert.Equal(t, 8, black.Image.ID)
}

func TestToProduct_BadPrice(t *testing.T) {
	_, err := ToProduct(&Product{ID: 1, Price: "12,50"}, nil)
	assert.Error(t, err)
}

func TestToCoupon(t *testing.T) {
	c, err := ToCoupon(&Coupon{Code: "RABAT10", Amount: "10.00", DiscountType: "percent"})
	require.NoError(t, err)
	assert.Equal(t, "rabat10", c.Code)
	assert.Equal(t, models.DiscountPercent, c.Kind)

	c, err = ToCoupon(&Coupon{Code: "SHIP", Amount: "", DiscountType: "fixed_cart", FreeShipping: true})
	require.NoError(t, err)
	assert.True(t, c.Value.IsZero())
	assert.Equal(t, models.DiscountFixed, c.Kind)
}

func TestCouponLimits(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, CouponExpired(&Coupon{DateExpiresGMT: strPtr("2026-05-31T23:59:59")}, now))
	assert.False(t, CouponExpired(&Coupon{DateExpiresGMT: strPtr("2026-06-30T00:00:00")}, now))
	assert.False(t, CouponExpired(&Coupon{}, now))

	assert.True(t, CouponExhausted(&Coupon{UsageLimit: intPtr(5), UsageCount: 5}))
	assert.False(t, CouponExhausted(&Coupon{UsageLimit: intPtr(5), UsageCount: 4}))
	assert.False(t, CouponExhausted(&Coupon{UsageCount: 1000}))
}

func TestToShippingMethod(t *testing.T) {
	tests := []struct {
		name     string
		in       ShippingZoneMethod
		ok       bool
		category models.ShippingCategory
		cost     string
	}{
		{"flat rate", ShippingZoneMethod{InstanceID: 3, Enabled: true, MethodID: "flat_rate", Title: "Kurier", Settings: map[string]MethodSetting{"cost": {Value: "15.00"}}}, true, "", "15"},
		{"free", ShippingZoneMethod{InstanceID: 4, Enabled: true, MethodID: "free_shipping", Title: "Darmowa"}, true, models.ShippingFree, "0"},
		{"cod", ShippingZoneMethod{InstanceID: 5, Enabled: true, MethodID: "flat_rate_cod", Title: "Pobranie", Settings: map[string]MethodSetting{"cost": {Value: "19.00"}}}, true, models.ShippingCOD, "19"},
		{"plain cod id", ShippingZoneMethod{InstanceID: 10, Enabled: true, MethodID: "cod", Title: "Kurier"}, true, models.ShippingCOD, "0"},
		{"cod only inside a word", ShippingZoneMethod{InstanceID: 9, Enabled: true, MethodID: "barcode_delivery", Title: "Kurier"}, true, "", "0"},
		{"locker", ShippingZoneMethod{InstanceID: 6, Enabled: true, MethodID: "easypack_parcel_machines", Title: "Paczkomat"}, true, models.ShippingPickupPoint, "0"},
		{"formula cost ignored", ShippingZoneMethod{InstanceID: 7, Enabled: true, MethodID: "flat_rate", Settings: map[string]MethodSetting{"cost": {Value: "10 * [qty]"}}}, true, "", "0"},
		{"disabled", ShippingZoneMethod{InstanceID: 8, MethodID: "flat_rate"}, false, "", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToShippingMethod(2, &tt.in)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.category, got.Category)
			assert.True(t, got.Cost.Equal(decimal.RequireFromString(tt.cost)), got.Cost.String())
			assert.Equal(t, 2, got.ZoneID)
		})
	}
}
