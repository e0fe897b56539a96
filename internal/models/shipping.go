package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShippingCategory classifies shipping methods for pricing rules.
type ShippingCategory string

const (
	ShippingStandard    ShippingCategory = "standard"
	ShippingCOD         ShippingCategory = "cod"
	ShippingPickupPoint ShippingCategory = "pickup_point"
	ShippingFree        ShippingCategory = "free"
)

// ShippingMethod is an enabled method of a shipping zone with its flat cost.
type ShippingMethod struct {
	ID       string           `json:"id"`
	MethodID string           `json:"methodId"`
	ZoneID   int              `json:"zoneId"`
	Title    string           `json:"title"`
	Cost     decimal.Decimal  `json:"cost"`
	Category ShippingCategory `json:"category"`
}

// IsCOD reports whether the method is paid at delivery. Methods without an
// explicit category are classified by a case-insensitive title match.
func (m *ShippingMethod) IsCOD(titleMarkers []string) bool {
	if m.Category != "" {
		return m.Category == ShippingCOD
	}
	title := strings.ToLower(m.Title)
	for _, marker := range titleMarkers {
		if marker != "" && strings.Contains(title, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}

// RequiresPickupPoint reports whether the shopper has to pick a point.
func (m *ShippingMethod) RequiresPickupPoint() bool {
	return m.Category == ShippingPickupPoint
}

// ShippingZone groups enabled methods.
type ShippingZone struct {
	ID      int              `json:"id"`
	Name    string           `json:"name"`
	Methods []ShippingMethod `json:"methods"`
}

// PaymentMethod is a payment gateway enabled in the backend.
type PaymentMethod struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Enabled bool   `json:"enabled"`
}
