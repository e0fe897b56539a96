package checkout

import (
	"time"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// OrderPlaced is emitted once after the backend accepted an order.
// Consumers must not influence the committed result.
type OrderPlaced struct {
	EventID        string                 `json:"eventId"`
	IdempotencyKey string                 `json:"idempotencyKey"`
	CartToken      string                 `json:"cartToken"`
	CustomerID     int                    `json:"customerId,omitempty"`
	Order          models.CreatedOrder    `json:"order"`
	Totals         models.OrderTotals     `json:"totals"`
	Request        *models.OrderRequest   `json:"request"`
	Billing        models.Address         `json:"billing"`
	Shipping       models.Address         `json:"shipping"`
	ShippingMethod *models.ShippingMethod `json:"shippingMethod"`
	OccurredAt     time.Time              `json:"occurredAt"`
}
