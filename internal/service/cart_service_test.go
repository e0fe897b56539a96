package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cart"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

type memoryArchive struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
	owner map[string]int
	err   error
}

func newMemoryArchive() *memoryArchive {
	return &memoryArchive{carts: map[string]*models.Cart{}, owner: map[string]int{}}
}

func (a *memoryArchive) Save(_ context.Context, token string, customerID int, c *models.Cart) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.carts[token] = c
	a.owner[token] = customerID
	return nil
}

func (a *memoryArchive) Get(_ context.Context, token string) (*models.Cart, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.carts[token], nil
}

func (a *memoryArchive) Delete(_ context.Context, token string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.carts, token)
	return nil
}

type cartFixture struct {
	svc     *CartService
	woo     *fakeWoo
	store   *memStore
	archive *memoryArchive
}

func newCartFixture() *cartFixture {
	woo := newFakeWoo()
	store := newMemStore()
	archive := newMemoryArchive()
	catalogCache := cache.NewCatalogCache(newMemStore(), 24*time.Hour)
	catalogSvc := NewCatalogService(woo, catalogCache, time.Hour, time.Hour)
	svc := NewCartService(
		cache.NewCartSnapshotStore(store, 30*24*time.Hour),
		archive,
		catalogSvc,
		NewCouponService(woo),
		money("0.23"),
	)
	return &cartFixture{svc: svc, woo: woo, store: store, archive: archive}
}

var shopper = Session{Token: "cart_test", CustomerID: 7}

func TestCartService_GetEmpty(t *testing.T) {
	f := newCartFixture()

	c, err := f.svc.Get(context.Background(), shopper)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_AddItem(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	c, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "10", c.Lines[0].Key)
	assert.True(t, money("50").Equal(c.Totals.Subtotal))

	c, err = f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 20, Selection: models.Selection{"finish": "BLACK"}})
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "20:202", c.Lines[1].Key)
	assert.True(t, money("30").Equal(c.Lines[1].UnitPrice))

	c, err = f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 20, VariantID: 201, Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, c.Lines, 3)

	// the snapshot and archive both hold the latest version
	reloaded, err := f.svc.Get(ctx, shopper)
	require.NoError(t, err)
	assert.Equal(t, c.Version, reloaded.Version)
	assert.Equal(t, 7, f.archive.owner[shopper.Token])
}

func TestCartService_AddItemErrors(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		in   AddItemInput
		want error
	}{
		{"variant required", AddItemInput{ProductID: 20}, cart.ErrVariantRequired},
		{"partial selection", AddItemInput{ProductID: 20, Selection: models.Selection{"finish": ""}}, cart.ErrVariantRequired},
		{"unknown variant", AddItemInput{ProductID: 20, VariantID: 999}, cart.ErrVariantRequired},
		{"over stock", AddItemInput{ProductID: 10, Quantity: 6}, cart.ErrOutOfStock},
		{"negative quantity", AddItemInput{ProductID: 10, Quantity: -1}, cart.ErrInvalidQuantity},
		{"unknown product", AddItemInput{ProductID: 404}, utils.ErrProductNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddItem(ctx, shopper, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	c, err := f.svc.Get(ctx, shopper)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_QuantityAndRemove(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10, Quantity: 1})
	require.NoError(t, err)

	c, err := f.svc.ChangeQuantity(ctx, shopper, "10", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Lines[0].Quantity)

	_, err = f.svc.ChangeQuantity(ctx, shopper, "10", 5)
	assert.ErrorIs(t, err, cart.ErrOutOfStock)

	_, err = f.svc.ChangeQuantity(ctx, shopper, "missing", 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	c, err = f.svc.RemoveItem(ctx, shopper, "10")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_Coupons(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10, Quantity: 4})
	require.NoError(t, err)

	c, err := f.svc.ApplyCoupon(ctx, shopper, "RABAT10")
	require.NoError(t, err)
	require.NotNil(t, c.Coupon)
	assert.True(t, money("10").Equal(c.Totals.Discount))
	assert.True(t, money("90").Equal(c.Totals.Total))

	_, err = f.svc.ApplyCoupon(ctx, shopper, "stare")
	assert.ErrorIs(t, err, utils.ErrCouponExpired)

	c, err = f.svc.Get(ctx, shopper)
	require.NoError(t, err)
	assert.NotNil(t, c.Coupon, "a rejected code keeps the applied coupon")

	c, err = f.svc.ClearCoupon(ctx, shopper)
	require.NoError(t, err)
	assert.Nil(t, c.Coupon)
	assert.True(t, money("100").Equal(c.Totals.Total))
}

func TestCartService_Clear(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10})
	require.NoError(t, err)

	c, err := f.svc.Clear(ctx, shopper)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartService_Reconcile(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 20, VariantID: 202, Quantity: 6})
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 20, VariantID: 201, Quantity: 2})
	require.NoError(t, err)

	f.woo.variations[20][1].StockQuantity = intPtr(4)
	f.woo.variations[20][0].StockQuantity = intPtr(0)
	// stock is read fresh, bypassing the cached dynamic data
	svc := f.svc
	svc.products = NewCatalogService(f.woo, cache.NewCatalogCache(newMemStore(), time.Hour), time.Hour, time.Hour)

	c, adjustments, err := svc.Reconcile(ctx, shopper)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 4, c.Lines[0].Quantity)
	assert.Len(t, adjustments, 2)
}

func TestCartService_SnapshotFailure(t *testing.T) {
	f := newCartFixture()
	f.store.err = errors.New("redis down")

	_, err := f.svc.AddItem(context.Background(), shopper, AddItemInput{ProductID: 10})
	assert.ErrorIs(t, err, cart.ErrSnapshotNotSaved)
}

func TestCartService_ArchiveFallback(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10, Quantity: 2})
	require.NoError(t, err)

	// snapshot expired, archive still has the cart
	f.store.data = map[string]string{}
	c, err := f.svc.Get(ctx, shopper)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestCartService_ArchiveFailureIsBestEffort(t *testing.T) {
	f := newCartFixture()
	f.archive.err = errors.New("postgres down")

	c, err := f.svc.AddItem(context.Background(), shopper, AddItemInput{ProductID: 10})
	require.NoError(t, err)
	assert.Len(t, c.Lines, 1)
}

func TestCartService_ConcurrentAdds(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.AddItem(ctx, shopper, AddItemInput{ProductID: 10, Quantity: 1})
		}()
	}
	wg.Wait()

	c, err := f.svc.Get(ctx, shopper)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, int64(5), c.Version)
}
