// Package woocommerce is a minimal client of the WooCommerce REST API used
// as the storefront's catalog, coupon, shipping and order backend.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	apiPrefix = "/wp-json/wc/v3"
	// perPage is the largest page size the API accepts.
	perPage = 100
)

// ErrNotFound is returned when the requested resource does not exist.
var ErrNotFound = errors.New("woocommerce: resource not found")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("woocommerce: status %d: %s - %s", e.StatusCode, e.Code, e.Message)
}

// Config holds the connection settings.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
}

// Client is a minimal HTTP client for interacting with the WooCommerce API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	debug          bool
}

// NewClient constructs a new WooCommerce client with sane defaults.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/") + apiPrefix,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		debug:          os.Getenv("ENV") == "development",
	}
}

// GetProductBySlug returns the published product with slug.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var products []Product
	q := url.Values{"slug": {slug}, "status": {"publish"}}
	if err := c.doRequest(ctx, http.MethodGet, "/products", q, nil, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// GetProduct returns a product by id.
func (c *Client) GetProduct(ctx context.Context, id int) (*Product, error) {
	var product Product
	if err := c.doRequest(ctx, http.MethodGet, "/products/"+strconv.Itoa(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListVariations returns every variation of a variable product in catalog
// order.
func (c *Client) ListVariations(ctx context.Context, productID int) ([]Variation, error) {
	var all []Variation
	path := fmt.Sprintf("/products/%d/variations", productID)
	for page := 1; ; page++ {
		q := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
			"orderby":  {"menu_order"},
			"order":    {"asc"},
		}
		var batch []Variation
		if err := c.doRequest(ctx, http.MethodGet, path, q, nil, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < perPage {
			return all, nil
		}
	}
}

// GetCouponByCode looks a coupon up by its code.
func (c *Client) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	var coupons []Coupon
	if err := c.doRequest(ctx, http.MethodGet, "/coupons", url.Values{"code": {code}}, nil, &coupons); err != nil {
		return nil, err
	}
	for i := range coupons {
		if strings.EqualFold(coupons[i].Code, code) {
			return &coupons[i], nil
		}
	}
	return nil, ErrNotFound
}

// ListShippingZones returns all shipping zones.
func (c *Client) ListShippingZones(ctx context.Context) ([]ShippingZone, error) {
	var zones []ShippingZone
	if err := c.doRequest(ctx, http.MethodGet, "/shipping/zones", nil, nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// ListZoneMethods returns the methods configured for a zone.
func (c *Client) ListZoneMethods(ctx context.Context, zoneID int) ([]ShippingZoneMethod, error) {
	var methods []ShippingZoneMethod
	path := fmt.Sprintf("/shipping/zones/%d/methods", zoneID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, nil, &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// ListPaymentGateways returns all payment gateways.
func (c *Client) ListPaymentGateways(ctx context.Context) ([]PaymentGateway, error) {
	var gateways []PaymentGateway
	if err := c.doRequest(ctx, http.MethodGet, "/payment_gateways", nil, nil, &gateways); err != nil {
		return nil, err
	}
	return gateways, nil
}

// CreateOrder submits an order. body is the assembled order request.
func (c *Client) CreateOrder(ctx context.Context, body any) (*OrderResponse, error) {
	var order OrderResponse
	if err := c.doRequest(ctx, http.MethodPost, "/orders", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateCustomerAddresses stores billing and shipping addresses on the
// customer profile.
func (c *Client) UpdateCustomerAddresses(ctx context.Context, customerID int, update CustomerUpdate) error {
	path := "/customers/" + strconv.Itoa(customerID)
	return c.doRequest(ctx, http.MethodPut, path, nil, update, nil)
}

// Ping checks that the API answers with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	var gateways []PaymentGateway
	return c.doRequest(ctx, http.MethodGet, "/payment_gateways", nil, nil, &gateways)
}

// doRequest performs an authenticated request and decodes the JSON answer
// into result when it is not nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, query url.Values, body any, result any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	// Debug logging for development
	if c.debug {
		ev := log.Debug().Str("method", method).Str("endpoint", endpoint)
		if payload != nil {
			ev = ev.RawJSON("request", payload)
		}
		ev.Msg("[WOOCOMMERCE] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Dur("latency", time.Since(start)).
			Int("bytes", len(respBody)).
			Msg("[WOOCOMMERCE] Incoming response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseError(status int, body []byte) error {
	var wcErr ErrorResponse
	_ = json.Unmarshal(body, &wcErr) // best effort
	if wcErr.Message == "" {
		wcErr.Message = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Code: wcErr.Code, Message: wcErr.Message}
}
