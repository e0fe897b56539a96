package sse

import (
	"context"
	"strings"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
)

// HubNotifier forwards placed orders to the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Name() string { return "sse" }

// Handle broadcasts event when an admin is listening.
func (n *HubNotifier) Handle(_ context.Context, event checkout.OrderPlaced) error {
	if n.hub.ClientCount() == 0 {
		return nil
	}
	n.hub.Broadcast(orderToEvent(event))
	return nil
}

func orderToEvent(e checkout.OrderPlaced) *OrderEvent {
	out := &OrderEvent{
		Event:        EventOrderPlaced,
		EventID:      e.EventID,
		OrderID:      e.Order.ID,
		OrderKey:     e.Order.OrderKey,
		Status:       e.Order.Status,
		CustomerID:   e.CustomerID,
		CustomerName: strings.TrimSpace(e.Billing.FirstName + " " + e.Billing.LastName),
		City:         e.Shipping.City,
		Subtotal:     e.Totals.Subtotal.StringFixed(2),
		Discount:     e.Totals.Discount.StringFixed(2),
		Shipping:     e.Totals.Shipping.StringFixed(2),
		Total:        e.Totals.Total.StringFixed(2),
		Timestamp:    e.OccurredAt,
	}
	if e.ShippingMethod != nil {
		out.ShippingMethod = e.ShippingMethod.Title
	}
	if e.Request != nil {
		out.PaymentMethod = e.Request.PaymentMethodTitle
		for _, item := range e.Request.LineItems {
			out.ItemCount += item.Quantity
		}
	}
	return out
}
