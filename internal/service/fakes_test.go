package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

var errBackendDown = errors.New("backend down")

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

func (m *memStore) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// fakeWoo serves a small hardware catalog.
type fakeWoo struct {
	mu          sync.Mutex
	products    map[int]*woocommerce.Product
	variations  map[int][]woocommerce.Variation
	coupons     map[string]*woocommerce.Coupon
	zones       []woocommerce.ShippingZone
	zoneMethods map[int][]woocommerce.ShippingZoneMethod
	gateways    []woocommerce.PaymentGateway
	orderResp   *woocommerce.OrderResponse
	orderErr    error
	orders      []any
	fail        bool
	calls       map[string]int
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }

func newFakeWoo() *fakeWoo {
	return &fakeWoo{
		products: map[int]*woocommerce.Product{
			10: {
				ID: 10, Name: "Drawer knob", Slug: "drawer-knob", Type: "simple", SKU: "KNOB-10",
				Price: "25.00", RegularPrice: "25.00", ManageStock: true, StockQuantity: intPtr(5),
				StockStatus: "instock",
				Images:      []woocommerce.Image{{ID: 1, Src: "https://cdn.example.com/knob.jpg"}},
			},
			20: {
				ID: 20, Name: "Handle", Slug: "handle", Type: "variable", Price: "30.00",
				Attributes: []woocommerce.Attribute{
					{ID: 1, Name: "Finish", Variation: true, Options: []string{"Gold", "Black"}},
				},
				Variations: []int{201, 202},
			},
		},
		variations: map[int][]woocommerce.Variation{
			20: {
				{
					ID: 201, SKU: "H-GOLD", Price: "50.00", RegularPrice: "50.00",
					ManageStock: true, StockQuantity: intPtr(3),
					Attributes: []woocommerce.VariationAttribute{{Name: "Finish", Option: "Gold"}},
				},
				{
					ID: 202, SKU: "H-BLACK", Price: "30.00", RegularPrice: "40.00", SalePrice: "30.00",
					OnSale: true, ManageStock: true, StockQuantity: intPtr(8),
					Attributes: []woocommerce.VariationAttribute{{Name: "Finish", Option: "Black"}},
				},
			},
		},
		coupons: map[string]*woocommerce.Coupon{
			"rabat10": {ID: 1, Code: "RABAT10", Amount: "10", DiscountType: "percent"},
			"stare":   {ID: 2, Code: "STARE", Amount: "5", DiscountType: "fixed_cart", DateExpiresGMT: strPtr("2020-01-01T00:00:00")},
			"limit":   {ID: 3, Code: "LIMIT", Amount: "5", DiscountType: "fixed_cart", UsageCount: 2, UsageLimit: intPtr(2)},
		},
		zones: []woocommerce.ShippingZone{{ID: 0, Name: "Rest of world"}, {ID: 1, Name: "Polska"}},
		zoneMethods: map[int][]woocommerce.ShippingZoneMethod{
			0: {{InstanceID: 9, Title: "International", Enabled: true, MethodID: "flat_rate"}},
			1: {
				{InstanceID: 1, Title: "Kurier", Enabled: true, MethodID: "flat_rate",
					Settings: map[string]woocommerce.MethodSetting{"cost": {ID: "cost", Value: "15.99"}}},
				{InstanceID: 2, Title: "Kurier za pobraniem", Enabled: true, MethodID: "flat_rate",
					Settings: map[string]woocommerce.MethodSetting{"cost": {ID: "cost", Value: "19.99"}}},
				{InstanceID: 3, Title: "Paczkomat", Enabled: true, MethodID: "paczkomat_inpost",
					Settings: map[string]woocommerce.MethodSetting{"cost": {ID: "cost", Value: "12.99"}}},
				{InstanceID: 4, Title: "Disabled", Enabled: false, MethodID: "flat_rate"},
			},
		},
		gateways: []woocommerce.PaymentGateway{
			{ID: "bacs", Title: "Przelew", Enabled: true},
			{ID: "cod", Title: "Za pobraniem", Enabled: true},
			{ID: "paypal", Title: "PayPal", Enabled: false},
		},
		orderResp: &woocommerce.OrderResponse{ID: 5001, OrderKey: "wc_order_abc", Status: "pending", PaymentURL: "https://pay.example.com/5001"},
		calls:     map[string]int{},
	}
}

func (f *fakeWoo) called(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeWoo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeWoo) GetProductBySlug(_ context.Context, slug string) (*woocommerce.Product, error) {
	f.called("GetProductBySlug")
	if f.fail {
		return nil, errBackendDown
	}
	for _, p := range f.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, woocommerce.ErrNotFound
}

func (f *fakeWoo) GetProduct(_ context.Context, id int) (*woocommerce.Product, error) {
	f.called("GetProduct")
	if f.fail {
		return nil, errBackendDown
	}
	p, ok := f.products[id]
	if !ok {
		return nil, woocommerce.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeWoo) ListVariations(_ context.Context, productID int) ([]woocommerce.Variation, error) {
	f.called("ListVariations")
	if f.fail {
		return nil, errBackendDown
	}
	return append([]woocommerce.Variation(nil), f.variations[productID]...), nil
}

func (f *fakeWoo) GetCouponByCode(_ context.Context, code string) (*woocommerce.Coupon, error) {
	f.called("GetCouponByCode")
	if f.fail {
		return nil, errBackendDown
	}
	c, ok := f.coupons[strings.ToLower(code)]
	if !ok {
		return nil, woocommerce.ErrNotFound
	}
	return c, nil
}

func (f *fakeWoo) ListShippingZones(context.Context) ([]woocommerce.ShippingZone, error) {
	f.called("ListShippingZones")
	if f.fail {
		return nil, errBackendDown
	}
	return f.zones, nil
}

func (f *fakeWoo) ListZoneMethods(_ context.Context, zoneID int) ([]woocommerce.ShippingZoneMethod, error) {
	f.called("ListZoneMethods")
	if f.fail {
		return nil, errBackendDown
	}
	return f.zoneMethods[zoneID], nil
}

func (f *fakeWoo) ListPaymentGateways(context.Context) ([]woocommerce.PaymentGateway, error) {
	f.called("ListPaymentGateways")
	if f.fail {
		return nil, errBackendDown
	}
	return f.gateways, nil
}

func (f *fakeWoo) CreateOrder(_ context.Context, body any) (*woocommerce.OrderResponse, error) {
	f.called("CreateOrder")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, body)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResp, nil
}

// memoryOrders is an in-memory OrderStore.
type memoryOrders struct {
	mu      sync.Mutex
	records map[string]*models.OrderRecord
	nextID  int
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{records: map[string]*models.OrderRecord{}}
}

func (m *memoryOrders) Create(_ context.Context, rec *models.OrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	m.records[rec.IdempotencyKey] = &cp
	return nil
}

func (m *memoryOrders) byID(id int) *models.OrderRecord {
	for _, r := range m.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memoryOrders) MarkCreated(_ context.Context, id int, remoteID int, orderKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r := m.byID(id); r != nil {
		r.Status = models.OrderStatusCreated
		r.RemoteOrderID = &remoteID
		r.OrderKey = &orderKey
	}
	return nil
}

func (m *memoryOrders) MarkFailed(_ context.Context, id int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r := m.byID(id); r != nil {
		r.Status = models.OrderStatusFailed
		r.FailedReason = &reason
	}
	return nil
}

func (m *memoryOrders) Reopen(_ context.Context, rec *models.OrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r := m.byID(rec.ID); r != nil {
		r.Status = models.OrderStatusSubmitting
		r.FailedReason = nil
		r.Total = rec.Total
	}
	return nil
}

func (m *memoryOrders) GetByIdempotencyKey(_ context.Context, key string) (*models.OrderRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[key]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []checkout.OrderPlaced
}

func (d *recordingDispatcher) Dispatch(_ context.Context, e checkout.OrderPlaced) {
	d.mu.Lock()
	d.events = append(d.events, e)
	d.mu.Unlock()
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
