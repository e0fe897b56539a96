package woocommerce

// Wire types of the WooCommerce REST API (wc/v3). Money fields are decimal
// strings and may be empty.

// Product is a catalog product.
type Product struct {
	ID                int         `json:"id"`
	Name              string      `json:"name"`
	Slug              string      `json:"slug"`
	Type              string      `json:"type"`
	Status            string      `json:"status"`
	SKU               string      `json:"sku"`
	Price             string      `json:"price"`
	RegularPrice      string      `json:"regular_price"`
	SalePrice         string      `json:"sale_price"`
	OnSale            bool        `json:"on_sale"`
	DateOnSaleFromGMT *string     `json:"date_on_sale_from_gmt"`
	DateOnSaleToGMT   *string     `json:"date_on_sale_to_gmt"`
	ManageStock       bool        `json:"manage_stock"`
	StockQuantity     *int        `json:"stock_quantity"`
	StockStatus       string      `json:"stock_status"`
	Attributes        []Attribute `json:"attributes"`
	Images            []Image     `json:"images"`
	Variations        []int       `json:"variations"`
	DateModifiedGMT   string      `json:"date_modified_gmt"`
}

// Attribute is a product attribute with its options.
type Attribute struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// Image is a product or variation image.
type Image struct {
	ID  int    `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Variation is a purchasable configuration of a variable product.
type Variation struct {
	ID                int                  `json:"id"`
	SKU               string               `json:"sku"`
	Price             string               `json:"price"`
	RegularPrice      string               `json:"regular_price"`
	SalePrice         string               `json:"sale_price"`
	OnSale            bool                 `json:"on_sale"`
	DateOnSaleFromGMT *string              `json:"date_on_sale_from_gmt"`
	DateOnSaleToGMT   *string              `json:"date_on_sale_to_gmt"`
	ManageStock       interface{}          `json:"manage_stock"`
	StockQuantity     *int                 `json:"stock_quantity"`
	StockStatus       string               `json:"stock_status"`
	Attributes        []VariationAttribute `json:"attributes"`
	Image             *Image               `json:"image"`
	MenuOrder         int                  `json:"menu_order"`
}

// VariationAttribute is one (attribute, option) pair of a variation.
type VariationAttribute struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// Coupon is a discount code.
type Coupon struct {
	ID                int      `json:"id"`
	Code              string   `json:"code"`
	Amount            string   `json:"amount"`
	DiscountType      string   `json:"discount_type"`
	DateExpiresGMT    *string  `json:"date_expires_gmt"`
	UsageCount        int      `json:"usage_count"`
	UsageLimit        *int     `json:"usage_limit"`
	FreeShipping      bool     `json:"free_shipping"`
	MinimumAmount     string   `json:"minimum_amount"`
	EmailRestrictions []string `json:"email_restrictions"`
}

// ShippingZone groups shipping methods by region.
type ShippingZone struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ShippingZoneMethod is a method instance of a zone.
type ShippingZoneMethod struct {
	InstanceID  int                      `json:"instance_id"`
	Title       string                   `json:"title"`
	Order       int                      `json:"order"`
	Enabled     bool                     `json:"enabled"`
	MethodID    string                   `json:"method_id"`
	MethodTitle string                   `json:"method_title"`
	Settings    map[string]MethodSetting `json:"settings"`
}

// MethodSetting is one configurable setting of a shipping method.
type MethodSetting struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// PaymentGateway is a configured payment method.
type PaymentGateway struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Order       interface{} `json:"order"`
	Enabled     bool        `json:"enabled"`
	MethodTitle string      `json:"method_title"`
}

// OrderResponse is the subset of the created order the storefront needs.
type OrderResponse struct {
	ID         int    `json:"id"`
	OrderKey   string `json:"order_key"`
	Status     string `json:"status"`
	Total      string `json:"total"`
	PaymentURL string `json:"payment_url"`
}

// Address is a customer billing or shipping address.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CustomerUpdate is the body of a customer address update.
type CustomerUpdate struct {
	Billing  *Address `json:"billing,omitempty"`
	Shipping *Address `json:"shipping,omitempty"`
}

// ErrorResponse is a WooCommerce API error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
	} `json:"data"`
}
