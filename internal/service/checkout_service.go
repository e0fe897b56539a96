package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

// OrderClient submits orders upstream.
type OrderClient interface {
	CreateOrder(ctx context.Context, body any) (*woocommerce.OrderResponse, error)
}

// OrderStore keeps the local record of each submission.
type OrderStore interface {
	Create(ctx context.Context, rec *models.OrderRecord) error
	MarkCreated(ctx context.Context, id int, remoteID int, orderKey string) error
	MarkFailed(ctx context.Context, id int, reason string) error
	Reopen(ctx context.Context, rec *models.OrderRecord) error
	GetByIdempotencyKey(ctx context.Context, key string) (*models.OrderRecord, error)
}

// IdempotencyGuard reserves submission keys.
type IdempotencyGuard interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Lookup(ctx context.Context, key string) (*cache.IdempotencyRecord, error)
	Complete(ctx context.Context, key string, result any) error
	Release(ctx context.Context, key string) error
}

// CheckoutCart is the cart access checkout needs.
type CheckoutCart interface {
	Get(ctx context.Context, sess Session) (*models.Cart, error)
	Clear(ctx context.Context, sess Session) (*models.Cart, error)
}

// MethodLookup finds shipping and payment methods by id.
type MethodLookup interface {
	FindMethod(ctx context.Context, id string) (*models.ShippingMethod, error)
	FindPayment(ctx context.Context, id string) (*models.PaymentMethod, error)
}

// EventDispatcher hands post-commit events to their consumers.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event checkout.OrderPlaced)
}

// PlaceOrderInput is the checkout form.
type PlaceOrderInput struct {
	Billing                models.RawAddress  `json:"billing"`
	Shipping               *models.RawAddress `json:"shipping"`
	ShipToDifferentAddress bool               `json:"shipToDifferentAddress"`
	ShippingMethodID       string             `json:"shippingMethodId"`
	PaymentMethodID        string             `json:"paymentMethodId"`
	PickupPoint            string             `json:"pickupPoint"`
	TermsAccepted          bool               `json:"termsAccepted"`
	CustomerNote           string             `json:"customerNote"`
}

// OrderResult is what a successful submission returns.
type OrderResult struct {
	Order  models.CreatedOrder `json:"order"`
	Totals models.OrderTotals  `json:"totals"`
	// Replayed is set when the result was stored by an earlier submission
	// with the same idempotency key.
	Replayed bool `json:"replayed"`
}

// CheckoutConfig holds store rules applied at checkout.
type CheckoutConfig struct {
	HomeCountry string
}

// CheckoutService validates, assembles and submits orders exactly once per
// idempotency key.
type CheckoutService struct {
	carts       CheckoutCart
	methods     MethodLookup
	assembler   *checkout.Assembler
	client      OrderClient
	orders      OrderStore
	idempotency IdempotencyGuard
	events      EventDispatcher
	cfg         CheckoutConfig
	now         func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts CheckoutCart,
	methods MethodLookup,
	assembler *checkout.Assembler,
	client OrderClient,
	orders OrderStore,
	idempotency IdempotencyGuard,
	events EventDispatcher,
	cfg CheckoutConfig,
) *CheckoutService {
	return &CheckoutService{
		carts:       carts,
		methods:     methods,
		assembler:   assembler,
		client:      client,
		orders:      orders,
		idempotency: idempotency,
		events:      events,
		cfg:         cfg,
		now:         time.Now,
	}
}

// PlaceOrder submits the session's cart. A failed upstream call releases
// the idempotency key so the shopper can retry; it is never retried here.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess Session, idempotencyKey string, in PlaceOrderInput) (*OrderResult, error) {
	if idempotencyKey == "" {
		return nil, utils.ErrMissingIdempotency
	}

	reserved, err := s.idempotency.Reserve(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if !reserved {
		return s.replay(ctx, idempotencyKey)
	}

	result, event, err := s.submit(ctx, sess, idempotencyKey, in)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, idempotencyKey); relErr != nil {
			log.Error().Err(relErr).Str("idempotency_key", idempotencyKey).Msg("Failed to release idempotency key")
		}
		return nil, err
	}

	if err := s.idempotency.Complete(ctx, idempotencyKey, result); err != nil {
		log.Error().Err(err).Str("idempotency_key", idempotencyKey).Msg("Failed to store order result")
	}
	if _, err := s.carts.Clear(ctx, sess); err != nil {
		log.Warn().Err(err).Str("cart_token", sess.Token).Msg("Failed to clear cart after order")
	}
	if s.events != nil {
		s.events.Dispatch(ctx, *event)
	}
	return result, nil
}

func (s *CheckoutService) submit(ctx context.Context, sess Session, key string, in PlaceOrderInput) (*OrderResult, *checkout.OrderPlaced, error) {
	draft, err := s.draft(ctx, sess, key, in)
	if err != nil {
		return nil, nil, err
	}
	if err := checkout.Validate(draft); err != nil {
		return nil, nil, err
	}

	req, totals := s.assembler.Assemble(draft)
	rec, err := s.record(ctx, sess, key, req, totals)
	if err != nil {
		return nil, nil, err
	}

	start := s.now()
	resp, err := s.client.CreateOrder(ctx, req)
	if err != nil {
		if markErr := s.orders.MarkFailed(ctx, rec.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Int("order_record_id", rec.ID).Msg("Failed to mark order failed")
		}
		log.Error().Err(err).Str("idempotency_key", key).Msg("Order submission failed")
		return nil, nil, fmt.Errorf("%w: create order: %v", utils.ErrUpstream, err)
	}

	created := models.CreatedOrder{
		ID:          resp.ID,
		OrderKey:    resp.OrderKey,
		Status:      resp.Status,
		RedirectURL: resp.PaymentURL,
	}
	if err := s.orders.MarkCreated(ctx, rec.ID, resp.ID, resp.OrderKey); err != nil {
		log.Error().Err(err).Int("order_id", resp.ID).Msg("Failed to mark order created")
	}
	log.Info().
		Int("order_id", resp.ID).
		Str("idempotency_key", key).
		Str("total", totals.Total.StringFixed(2)).
		Dur("latency", s.now().Sub(start)).
		Msg("Order created")

	shipping := draft.Billing
	if draft.Shipping != nil {
		shipping = *draft.Shipping
	}
	event := &checkout.OrderPlaced{
		EventID:        utils.NewEventID(),
		IdempotencyKey: key,
		CartToken:      sess.Token,
		CustomerID:     sess.CustomerID,
		Order:          created,
		Totals:         totals,
		Request:        req,
		Billing:        draft.Billing,
		Shipping:       shipping,
		ShippingMethod: draft.ShippingMethod,
		OccurredAt:     s.now().UTC(),
	}
	return &OrderResult{Order: created, Totals: totals}, event, nil
}

func (s *CheckoutService) draft(ctx context.Context, sess Session, key string, in PlaceOrderInput) (*checkout.Draft, error) {
	c, err := s.carts.Get(ctx, sess)
	if err != nil {
		return nil, err
	}

	d := &checkout.Draft{
		Cart:                   c,
		Billing:                checkout.NormalizeAddress(in.Billing, s.cfg.HomeCountry),
		ShipToDifferentAddress: in.ShipToDifferentAddress,
		PickupPoint:            in.PickupPoint,
		TermsAccepted:          in.TermsAccepted,
		CustomerNote:           in.CustomerNote,
		CustomerID:             sess.CustomerID,
		IdempotencyKey:         key,
	}
	if in.ShipToDifferentAddress && in.Shipping != nil {
		shipping := checkout.NormalizeAddress(*in.Shipping, s.cfg.HomeCountry)
		d.Shipping = &shipping
	}

	// unknown ids are reported by Validate like missing ones
	if in.ShippingMethodID != "" {
		d.ShippingMethod, err = s.methods.FindMethod(ctx, in.ShippingMethodID)
		if err != nil && !errors.Is(err, utils.ErrShippingMethod) {
			return nil, err
		}
	}
	if in.PaymentMethodID != "" {
		d.PaymentMethod, err = s.methods.FindPayment(ctx, in.PaymentMethodID)
		if err != nil && !errors.Is(err, utils.ErrPaymentMethod) {
			return nil, err
		}
	}
	return d, nil
}

func (s *CheckoutService) record(ctx context.Context, sess Session, key string, req *models.OrderRequest, totals models.OrderTotals) (*models.OrderRecord, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}
	rec := &models.OrderRecord{
		IdempotencyKey: key,
		CartToken:      sess.Token,
		Status:         models.OrderStatusSubmitting,
		Subtotal:       totals.Subtotal,
		ShippingTotal:  totals.Shipping,
		DiscountTotal:  totals.Discount,
		Total:          totals.Total,
		Request:        body,
	}
	if sess.CustomerID != 0 {
		id := sess.CustomerID
		rec.CustomerID = &id
	}

	existing, err := s.orders.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order record: %w", err)
	}
	switch {
	case existing == nil:
		if err := s.orders.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to create order record: %w", err)
		}
	case existing.Status == models.OrderStatusFailed:
		rec.ID = existing.ID
		if err := s.orders.Reopen(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to reopen order record: %w", err)
		}
	default:
		// the key outlived its reservation; never submit twice
		return nil, utils.ErrDuplicateSubmission
	}
	return rec, nil
}

func (s *CheckoutService) replay(ctx context.Context, key string) (*OrderResult, error) {
	stored, err := s.idempotency.Lookup(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if stored == nil || stored.Status != cache.IdempotencyCompleted || len(stored.Result) == 0 {
		return nil, utils.ErrDuplicateSubmission
	}
	var result OrderResult
	if err := json.Unmarshal(stored.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode stored order result: %w", err)
	}
	result.Replayed = true
	return &result, nil
}
