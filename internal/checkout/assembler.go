package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// Metadata keys attached to outbound orders.
const (
	MetaIdempotencyKey = "_idempotency_key"
	MetaPickupPoint    = "pickup_point"
)

// Draft is everything the shopper chose at checkout.
type Draft struct {
	Cart                   *models.Cart
	Billing                models.Address
	Shipping               *models.Address
	ShipToDifferentAddress bool
	ShippingMethod         *models.ShippingMethod
	PaymentMethod          *models.PaymentMethod
	PickupPoint            string
	TermsAccepted          bool
	CustomerNote           string
	// CustomerID is set only for authenticated shoppers.
	CustomerID     int
	IdempotencyKey string
}

// Assembler composes backend order requests. It is pure: drafts must have
// passed Validate first.
type Assembler struct {
	FreeShippingThreshold decimal.Decimal
	// CODMarkers classify uncategorized methods as cash on delivery by title.
	CODMarkers []string
}

// ShippingCost is the method's flat cost, or zero when the subtotal reaches
// the free shipping threshold and the method is not cash on delivery. A
// non-positive threshold disables free shipping.
func (a *Assembler) ShippingCost(method *models.ShippingMethod, subtotal decimal.Decimal) decimal.Decimal {
	if a.FreeShippingApplies(method, subtotal) {
		return decimal.Zero
	}
	return method.Cost.Round(2)
}

// FreeShippingApplies reports whether the free shipping rule waives the
// method's cost.
func (a *Assembler) FreeShippingApplies(method *models.ShippingMethod, subtotal decimal.Decimal) bool {
	if !a.FreeShippingThreshold.IsPositive() || subtotal.LessThan(a.FreeShippingThreshold) {
		return false
	}
	return !method.IsCOD(a.CODMarkers)
}

// Assemble builds the order request for d along with the totals it implies.
func (a *Assembler) Assemble(d *Draft) (*models.OrderRequest, models.OrderTotals) {
	cart := d.Cart
	subtotal := cart.Totals.Subtotal
	discount := cart.Totals.Discount
	shipping := a.ShippingCost(d.ShippingMethod, subtotal)

	billing := toWire(d.Billing)
	shippingAddr := billing
	if d.ShipToDifferentAddress && d.Shipping != nil {
		shippingAddr = toWire(*d.Shipping)
		shippingAddr.Email = ""
		shippingAddr.Phone = ""
	}

	req := &models.OrderRequest{
		PaymentMethod:      d.PaymentMethod.ID,
		PaymentMethodTitle: d.PaymentMethod.Title,
		CustomerID:         d.CustomerID,
		CustomerNote:       strings.TrimSpace(d.CustomerNote),
		Billing:            billing,
		Shipping:           shippingAddr,
		LineItems:          make([]models.OrderLineItem, 0, len(cart.Lines)),
		ShippingLines:      []models.ShippingLine{shippingLine(d, shipping)},
		CouponLines:        []models.CouponLine{},
	}

	for _, line := range cart.Lines {
		total := formatMoney(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
		item := models.OrderLineItem{
			ProductID:   line.ProductID,
			VariationID: line.VariantID,
			Quantity:    line.Quantity,
			Subtotal:    total,
			Total:       total,
		}
		for _, attr := range line.Attributes {
			item.MetaData = append(item.MetaData, models.MetaData{Key: attr.Name, Value: attr.Option})
		}
		req.LineItems = append(req.LineItems, item)
	}

	if cart.Coupon != nil {
		req.CouponLines = append(req.CouponLines, couponLine(cart.Coupon.Code, discount))
	}
	if d.IdempotencyKey != "" {
		req.MetaData = append(req.MetaData, models.MetaData{Key: MetaIdempotencyKey, Value: d.IdempotencyKey})
	}

	totals := models.OrderTotals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(shipping),
	}
	return req, totals
}

func shippingLine(d *Draft, cost decimal.Decimal) models.ShippingLine {
	method := d.ShippingMethod
	methodID := method.MethodID
	if methodID == "" {
		methodID = method.ID
	}
	line := models.ShippingLine{
		MethodID:    methodID,
		MethodTitle: method.Title,
		Total:       formatMoney(cost),
	}
	if method.RequiresPickupPoint() {
		line.MetaData = []models.MetaData{{Key: MetaPickupPoint, Value: strings.TrimSpace(d.PickupPoint)}}
	}
	return line
}

// couponLine always carries the code; discount fields only for a positive
// amount.
func couponLine(code string, discount decimal.Decimal) models.CouponLine {
	line := models.CouponLine{Code: code}
	if discount.IsPositive() {
		line.Discount = formatMoney(discount)
		line.DiscountTax = "0.00"
	}
	return line
}

func toWire(a models.Address) models.OrderAddress {
	address1 := strings.TrimSpace(a.Street + " " + a.BuildingNumber)
	return models.OrderAddress{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Company:   a.Company,
		Address1:  address1,
		Address2:  a.ApartmentNumber,
		City:      a.City,
		Postcode:  a.PostalCode,
		Country:   a.Country,
		Email:     a.Email,
		Phone:     a.Phone,
	}
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
