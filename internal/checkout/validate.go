package checkout

import (
	"strings"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

// Validation failure codes.
const (
	CodeEmptyCart            = "EMPTY_CART"
	CodeNoShippingMethod     = "NO_SHIPPING_METHOD"
	CodeNoPaymentMethod      = "NO_PAYMENT_METHOD"
	CodeMissingField         = "MISSING_FIELD"
	CodePickupPointRequired  = "PICKUP_POINT_REQUIRED"
	CodeTermsNotAcknowledged = "TERMS_NOT_ACKNOWLEDGED"
)

// FieldError is one failed checkout precondition.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors lists every failed precondition of a draft.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "checkout validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a failure with code (and field, when given) exists.
func (v ValidationErrors) Has(code, field string) bool {
	for _, e := range v {
		if e.Code == code && (field == "" || e.Field == field) {
			return true
		}
	}
	return false
}

type requiredField struct {
	name  string
	value func(models.Address) string
}

var requiredBilling = []requiredField{
	{"firstName", func(a models.Address) string { return a.FirstName }},
	{"lastName", func(a models.Address) string { return a.LastName }},
	{"email", func(a models.Address) string { return a.Email }},
	{"phone", func(a models.Address) string { return a.Phone }},
	{"street", func(a models.Address) string { return a.Street }},
	{"buildingNumber", func(a models.Address) string { return a.BuildingNumber }},
	{"city", func(a models.Address) string { return a.City }},
	{"postalCode", func(a models.Address) string { return a.PostalCode }},
	{"country", func(a models.Address) string { return a.Country }},
}

// the shipping block carries no contact fields of its own
var requiredShipping = []requiredField{
	{"firstName", func(a models.Address) string { return a.FirstName }},
	{"lastName", func(a models.Address) string { return a.LastName }},
	{"street", func(a models.Address) string { return a.Street }},
	{"buildingNumber", func(a models.Address) string { return a.BuildingNumber }},
	{"city", func(a models.Address) string { return a.City }},
	{"postalCode", func(a models.Address) string { return a.PostalCode }},
	{"country", func(a models.Address) string { return a.Country }},
}

// Validate checks every precondition of order assembly and returns all
// failures, or nil when the draft can be assembled.
func Validate(d *Draft) error {
	var errs ValidationErrors

	if d.Cart == nil || d.Cart.IsEmpty() {
		errs = append(errs, FieldError{Code: CodeEmptyCart, Message: "cart is empty"})
	}
	if d.ShippingMethod == nil {
		errs = append(errs, FieldError{Field: "shippingMethod", Code: CodeNoShippingMethod, Message: "no shipping method selected"})
	}
	if d.PaymentMethod == nil || d.PaymentMethod.ID == "" {
		errs = append(errs, FieldError{Field: "paymentMethod", Code: CodeNoPaymentMethod, Message: "no payment method selected"})
	}

	errs = appendMissing(errs, "billing", d.Billing, requiredBilling)
	if d.ShipToDifferentAddress {
		if d.Shipping == nil {
			errs = append(errs, FieldError{Field: "shipping", Code: CodeMissingField, Message: "shipping address is required"})
		} else {
			errs = appendMissing(errs, "shipping", *d.Shipping, requiredShipping)
		}
	}

	if d.ShippingMethod != nil && d.ShippingMethod.RequiresPickupPoint() && strings.TrimSpace(d.PickupPoint) == "" {
		errs = append(errs, FieldError{Field: "pickupPoint", Code: CodePickupPointRequired, Message: "pickup point is required for " + d.ShippingMethod.Title})
	}
	if !d.TermsAccepted {
		errs = append(errs, FieldError{Field: "termsAccepted", Code: CodeTermsNotAcknowledged, Message: "terms must be acknowledged"})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func appendMissing(errs ValidationErrors, prefix string, addr models.Address, fields []requiredField) ValidationErrors {
	for _, f := range fields {
		if strings.TrimSpace(f.value(addr)) == "" {
			field := prefix + "." + f.name
			errs = append(errs, FieldError{Field: field, Code: CodeMissingField, Message: field + " is required"})
		}
	}
	return errs
}
