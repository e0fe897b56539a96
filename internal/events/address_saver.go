package events

import (
	"context"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

// CustomerClient updates customer profiles upstream.
type CustomerClient interface {
	UpdateCustomerAddresses(ctx context.Context, customerID int, update woocommerce.CustomerUpdate) error
}

// AddressSaver stores the addresses of an order on the customer's profile.
// Anonymous orders are skipped.
type AddressSaver struct {
	client CustomerClient
}

// NewAddressSaver creates a new AddressSaver.
func NewAddressSaver(client CustomerClient) *AddressSaver {
	return &AddressSaver{client: client}
}

func (s *AddressSaver) Name() string { return "address_saver" }

// Handle saves the billing and shipping blocks sent with the order.
func (s *AddressSaver) Handle(ctx context.Context, event checkout.OrderPlaced) error {
	if event.CustomerID == 0 || event.Request == nil {
		return nil
	}
	update := woocommerce.CustomerUpdate{
		Billing:  woocommerce.FromOrderAddress(event.Request.Billing),
		Shipping: woocommerce.FromOrderAddress(event.Request.Shipping),
	}
	// profile shipping blocks carry no contact fields
	update.Shipping.Email = ""
	update.Shipping.Phone = ""
	return s.client.UpdateCustomerAddresses(ctx, event.CustomerID, update)
}
