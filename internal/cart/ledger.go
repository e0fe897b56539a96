package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/catalog"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

var hundred = decimal.NewFromInt(100)

// SnapshotWriter persists the serialized cart after each mutation.
type SnapshotWriter interface {
	WriteSnapshot(ctx context.Context, cart *models.Cart) error
}

// Options tunes a Ledger.
type Options struct {
	// VATRate is the gross VAT rate used for the display-only net/VAT split
	// (0.23 for 23%).
	VATRate decimal.Decimal
	// Now overrides the clock used for sale windows and timestamps.
	Now func() time.Time
}

// Ledger is the cart store for one shopper session. Mutations are
// synchronous against already-loaded catalog data; totals are recomputed
// before a mutation returns. A Ledger is not safe for concurrent use.
type Ledger struct {
	cart    models.Cart
	writer  SnapshotWriter
	vatRate decimal.Decimal
	now     func() time.Time
}

// NewLedger wraps a rehydrated cart (or an empty one when cart is nil).
func NewLedger(cart *models.Cart, writer SnapshotWriter, opts Options) *Ledger {
	l := &Ledger{writer: writer, vatRate: opts.VATRate, now: opts.Now}
	if l.now == nil {
		l.now = time.Now
	}
	if cart != nil {
		l.cart = *cloneCart(cart)
	}
	l.recalculate()
	return l
}

// Key returns the cart key for a product and an optional variant.
func Key(productID, variantID int) string {
	if variantID == 0 {
		return strconv.Itoa(productID)
	}
	return strconv.Itoa(productID) + ":" + strconv.Itoa(variantID)
}

// AddLine adds quantity of product (through resolved when the product has
// variants) to the cart. The unit price is frozen from the price calculator
// at call time. The combined quantity of the line may not exceed the
// available stock.
func (l *Ledger) AddLine(ctx context.Context, product *models.Product, resolved *models.Variant, quantity int, selection models.Selection) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if product.HasVariants() && resolved == nil {
		return ErrVariantRequired
	}

	stock := catalog.AvailableStock(product, resolved)
	variantID := 0
	var source catalog.PriceSource = product
	if resolved != nil {
		variantID = resolved.ID
		source = resolved
	}
	key := Key(product.ID, variantID)

	existing := l.cart.Line(key)
	held := 0
	if existing != nil {
		held = existing.Quantity
	}
	// compared against the remaining headroom so huge quantities cannot wrap
	if quantity > stock-held {
		return ErrOutOfStock
	}
	combined := held + quantity

	quote := catalog.Price(source, l.now())
	if existing != nil {
		existing.Quantity = combined
		existing.UnitPrice = quote.DisplayPrice
		existing.RegularPrice = quote.RegularPrice
		existing.StockCeiling = stock
	} else {
		line := models.CartLine{
			Key:          key,
			ProductID:    product.ID,
			VariantID:    variantID,
			Name:         product.Name,
			SKU:          product.SKU,
			Quantity:     quantity,
			UnitPrice:    quote.DisplayPrice,
			RegularPrice: quote.RegularPrice,
			Attributes:   lineAttributes(product, resolved, selection),
			StockCeiling: stock,
		}
		if resolved != nil {
			if resolved.SKU != "" {
				line.SKU = resolved.SKU
			}
			line.Image = resolved.Image
		}
		if line.Image == nil && len(product.Images) > 0 {
			img := product.Images[0]
			line.Image = &img
		}
		l.cart.Lines = append(l.cart.Lines, line)
	}
	return l.commit(ctx)
}

// ChangeQuantity moves a line quantity by delta within [1, stock ceiling].
// Going below 1 is a no-op; going above the ceiling fails with
// ErrOutOfStock and leaves the quantity unchanged.
func (l *Ledger) ChangeQuantity(ctx context.Context, key string, delta int) error {
	line := l.cart.Line(key)
	if line == nil {
		return ErrLineNotFound
	}
	if delta == 0 || delta < 1-line.Quantity {
		return nil
	}
	if delta > line.StockCeiling-line.Quantity {
		return ErrOutOfStock
	}
	line.Quantity += delta
	return l.commit(ctx)
}

// RemoveLine drops the line with key. Removing a missing key is not an error.
func (l *Ledger) RemoveLine(ctx context.Context, key string) error {
	lines := l.cart.Lines[:0]
	for _, line := range l.cart.Lines {
		if line.Key != key {
			lines = append(lines, line)
		}
	}
	l.cart.Lines = lines
	return l.commit(ctx)
}

// Clear empties the cart and drops the coupon.
func (l *Ledger) Clear(ctx context.Context) error {
	l.cart.Lines = nil
	l.cart.Coupon = nil
	return l.commit(ctx)
}

// ApplyCoupon stores an externally validated coupon, replacing any previous
// one. Non-positive values are kept (free-shipping-only codes) but reduce
// nothing.
func (l *Ledger) ApplyCoupon(ctx context.Context, coupon models.Coupon) error {
	c := coupon
	l.cart.Coupon = &c
	return l.commit(ctx)
}

// ClearCoupon removes the applied coupon.
func (l *Ledger) ClearCoupon(ctx context.Context) error {
	l.cart.Coupon = nil
	return l.commit(ctx)
}

// Adjustment records a change made by Reconcile.
type Adjustment struct {
	Key         string `json:"key"`
	OldQuantity int    `json:"oldQuantity"`
	NewQuantity int    `json:"newQuantity"`
	Removed     bool   `json:"removed"`
}

// Reconcile refreshes stock ceilings from a fresh catalog read (cart key ->
// available stock). Quantities above a new ceiling are clamped down and lines
// with no stock left are dropped. Keys absent from ceilings are untouched.
// Unit prices are never recomputed here.
func (l *Ledger) Reconcile(ctx context.Context, ceilings map[string]int) ([]Adjustment, error) {
	var adjustments []Adjustment
	changed := false
	lines := l.cart.Lines[:0]
	for _, line := range l.cart.Lines {
		ceiling, ok := ceilings[line.Key]
		if !ok {
			lines = append(lines, line)
			continue
		}
		if ceiling <= 0 {
			adjustments = append(adjustments, Adjustment{Key: line.Key, OldQuantity: line.Quantity, Removed: true})
			changed = true
			continue
		}
		if ceiling != line.StockCeiling {
			line.StockCeiling = ceiling
			changed = true
		}
		if line.Quantity > ceiling {
			adjustments = append(adjustments, Adjustment{Key: line.Key, OldQuantity: line.Quantity, NewQuantity: ceiling})
			line.Quantity = ceiling
		}
		lines = append(lines, line)
	}
	l.cart.Lines = lines
	if !changed && len(adjustments) == 0 {
		return nil, nil
	}
	return adjustments, l.commit(ctx)
}

// Snapshot returns a deep copy of the current cart.
func (l *Ledger) Snapshot() *models.Cart {
	return cloneCart(&l.cart)
}

// Totals returns the current aggregate totals.
func (l *Ledger) Totals() models.CartTotals {
	return l.cart.Totals
}

func (l *Ledger) commit(ctx context.Context) error {
	l.cart.Version++
	l.cart.UpdatedAt = l.now()
	l.recalculate()
	if l.writer == nil {
		return nil
	}
	if err := l.writer.WriteSnapshot(ctx, l.Snapshot()); err != nil {
		return fmt.Errorf("%w: %v", ErrSnapshotNotSaved, err)
	}
	return nil
}

func (l *Ledger) recalculate() {
	var totals models.CartTotals
	for i := range l.cart.Lines {
		line := &l.cart.Lines[i]
		line.LineTotal = LineTotal(line.UnitPrice, line.Quantity)
		totals.Subtotal = totals.Subtotal.Add(line.LineTotal)
		totals.ItemCount += line.Quantity
	}
	totals.Discount = CouponDiscount(l.cart.Coupon, totals.Subtotal)
	totals.Total = totals.Subtotal.Sub(totals.Discount)
	totals.NetTotal, totals.VATTotal = VATSplit(totals.Total, l.vatRate)
	l.cart.Totals = totals
}

// LineTotal is unit price times quantity rounded to 2 decimals.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// CouponDiscount is the subtotal reduction of coupon. Percent coupons take
// their share of the subtotal, fixed coupons are capped at the subtotal and
// non-positive values reduce nothing.
func CouponDiscount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil || !coupon.Value.IsPositive() || !subtotal.IsPositive() {
		return decimal.Zero
	}
	var discount decimal.Decimal
	switch coupon.Kind {
	case models.DiscountPercent:
		value := decimal.Min(coupon.Value, hundred)
		discount = subtotal.Mul(value).Div(hundred).Round(2)
	default:
		discount = decimal.Min(coupon.Value, subtotal).Round(2)
	}
	return discount
}

// VATSplit splits a gross amount into net and VAT parts.
func VATSplit(gross, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if !rate.IsPositive() {
		return gross, decimal.Zero
	}
	net := gross.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	return net, gross.Sub(net)
}

func lineAttributes(product *models.Product, resolved *models.Variant, selection models.Selection) []models.VariantAttribute {
	if resolved != nil && len(resolved.Attributes) > 0 {
		attrs := make([]models.VariantAttribute, len(resolved.Attributes))
		copy(attrs, resolved.Attributes)
		return attrs
	}
	if len(selection) == 0 {
		return nil
	}
	// keep the catalog attribute order for simple products with a selection
	var attrs []models.VariantAttribute
	for _, a := range product.Attributes {
		if v, ok := selection[a.Name]; ok && v != "" {
			attrs = append(attrs, models.VariantAttribute{Name: a.Name, Option: v})
		}
	}
	return attrs
}

func cloneCart(c *models.Cart) *models.Cart {
	out := *c
	if c.Lines != nil {
		out.Lines = make([]models.CartLine, len(c.Lines))
		for i, line := range c.Lines {
			if line.Attributes != nil {
				line.Attributes = append([]models.VariantAttribute(nil), line.Attributes...)
			}
			out.Lines[i] = line
		}
	}
	if c.Coupon != nil {
		coupon := *c.Coupon
		out.Coupon = &coupon
	}
	return &out
}
