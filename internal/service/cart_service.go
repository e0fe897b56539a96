package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cart"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// CartSnapshots is the primary cart store keyed by session token.
type CartSnapshots interface {
	Save(ctx context.Context, token string, cart *models.Cart) error
	Load(ctx context.Context, token string) (*models.Cart, error)
	Delete(ctx context.Context, token string) error
}

// CartArchive is the durable server-side copy of carts.
type CartArchive interface {
	Save(ctx context.Context, token string, customerID int, cart *models.Cart) error
	Get(ctx context.Context, token string) (*models.Cart, error)
	Delete(ctx context.Context, token string) error
}

// ProductSource resolves catalog data for cart mutations.
type ProductSource interface {
	GetProductByID(ctx context.Context, id int) (*ProductView, error)
	StockCeilings(ctx context.Context, lines []models.CartLine) map[string]int
}

// CouponValidator checks discount codes.
type CouponValidator interface {
	Validate(ctx context.Context, code string) (models.Coupon, error)
}

// Session identifies the shopper a cart belongs to.
type Session struct {
	Token string
	// CustomerID is zero for anonymous shoppers.
	CustomerID int
}

// AddItemInput is a request to put a product in the cart. VariantID wins
// over Selection when both are given.
type AddItemInput struct {
	ProductID int              `json:"productId" binding:"required"`
	VariantID int              `json:"variantId"`
	Selection models.Selection `json:"selection"`
	Quantity  int              `json:"quantity"`
}

// CartService runs cart ledger mutations for sessions.
type CartService struct {
	snapshots CartSnapshots
	archive   CartArchive
	products  ProductSource
	coupons   CouponValidator
	vatRate   decimal.Decimal
	locks     *keyedMutex
	now       func() time.Time
}

// NewCartService creates a new CartService. archive may be nil.
func NewCartService(snapshots CartSnapshots, archive CartArchive, products ProductSource, coupons CouponValidator, vatRate decimal.Decimal) *CartService {
	return &CartService{
		snapshots: snapshots,
		archive:   archive,
		products:  products,
		coupons:   coupons,
		vatRate:   vatRate,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// Get returns the cart of the session, empty when none exists.
func (s *CartService) Get(ctx context.Context, sess Session) (*models.Cart, error) {
	ledger, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return ledger.Snapshot(), nil
}

// AddItem adds a product or a product variant to the cart.
func (s *CartService) AddItem(ctx context.Context, sess Session, in AddItemInput) (*models.Cart, error) {
	view, err := s.products.GetProductByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	var resolved *models.Variant
	if view.Product.HasVariants() {
		if in.VariantID != 0 {
			resolved = view.Product.VariantByID(in.VariantID)
		} else if len(in.Selection) > 0 {
			resolved = view.Index.Resolve(in.Selection)
		}
		if resolved == nil {
			return nil, cart.ErrVariantRequired
		}
	}

	quantity := in.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.AddLine(ctx, view.Product, resolved, quantity, in.Selection)
	})
}

// ChangeQuantity moves the quantity of line key by delta.
func (s *CartService) ChangeQuantity(ctx context.Context, sess Session, key string, delta int) (*models.Cart, error) {
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.ChangeQuantity(ctx, key, delta)
	})
}

// RemoveItem drops line key.
func (s *CartService) RemoveItem(ctx context.Context, sess Session, key string) (*models.Cart, error) {
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.RemoveLine(ctx, key)
	})
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, sess Session) (*models.Cart, error) {
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.Clear(ctx)
	})
}

// ApplyCoupon validates code and applies it, replacing any earlier coupon.
func (s *CartService) ApplyCoupon(ctx context.Context, sess Session, code string) (*models.Cart, error) {
	coupon, err := s.coupons.Validate(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.ApplyCoupon(ctx, coupon)
	})
}

// ClearCoupon removes the applied coupon.
func (s *CartService) ClearCoupon(ctx context.Context, sess Session) (*models.Cart, error) {
	return s.mutate(ctx, sess, func(l *cart.Ledger) error {
		return l.ClearCoupon(ctx)
	})
}

// Reconcile refreshes stock ceilings from the catalog and clamps quantities.
func (s *CartService) Reconcile(ctx context.Context, sess Session) (*models.Cart, []cart.Adjustment, error) {
	var adjustments []cart.Adjustment
	c, err := s.mutate(ctx, sess, func(l *cart.Ledger) error {
		snapshot := l.Snapshot()
		if snapshot.IsEmpty() {
			return nil
		}
		var err error
		adjustments, err = l.Reconcile(ctx, s.products.StockCeilings(ctx, snapshot.Lines))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return c, adjustments, nil
}

func (s *CartService) mutate(ctx context.Context, sess Session, fn func(l *cart.Ledger) error) (*models.Cart, error) {
	unlock := s.locks.Lock(sess.Token)
	defer unlock()

	ledger, err := s.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := fn(ledger); err != nil {
		return nil, err
	}
	return ledger.Snapshot(), nil
}

func (s *CartService) load(ctx context.Context, sess Session) (*cart.Ledger, error) {
	c, err := s.snapshots.Load(ctx, sess.Token)
	if err != nil {
		log.Warn().Err(err).Str("cart_token", sess.Token).Msg("Cart snapshot unavailable, falling back to archive")
	}
	if c == nil && s.archive != nil {
		c, err = s.archive.Get(ctx, sess.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
	}
	if c == nil {
		c = &models.Cart{}
	}
	writer := &sessionWriter{sess: sess, snapshots: s.snapshots, archive: s.archive}
	return cart.NewLedger(c, writer, cart.Options{VATRate: s.vatRate, Now: s.now}), nil
}

// sessionWriter writes the snapshot first; the archive copy is best effort.
type sessionWriter struct {
	sess      Session
	snapshots CartSnapshots
	archive   CartArchive
}

func (w *sessionWriter) WriteSnapshot(ctx context.Context, c *models.Cart) error {
	if err := w.snapshots.Save(ctx, w.sess.Token, c); err != nil {
		return err
	}
	if w.archive != nil {
		if err := w.archive.Save(ctx, w.sess.Token, w.sess.CustomerID, c); err != nil {
			log.Warn().Err(err).Str("cart_token", w.sess.Token).Msg("Failed to archive cart")
		}
	}
	return nil
}
