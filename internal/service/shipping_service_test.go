package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

func testAssembler() *checkout.Assembler {
	return &checkout.Assembler{
		FreeShippingThreshold: money("300"),
		CODMarkers:            []string{"pobranie", "cash on delivery"},
	}
}

func newShippingService(woo *fakeWoo) *ShippingService {
	c := cache.NewCatalogCache(newMemStore(), 24*time.Hour)
	return NewShippingService(woo, c, testAssembler(), time.Hour)
}

func TestShippingService_Methods(t *testing.T) {
	woo := newFakeWoo()
	svc := newShippingService(woo)

	methods, err := svc.Methods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 3)

	assert.Equal(t, "1:1", methods[0].ID)
	assert.Equal(t, models.ShippingStandard, methods[0].Category)
	assert.True(t, money("15.99").Equal(methods[0].Cost))
	assert.Equal(t, models.ShippingCOD, methods[1].Category)
	assert.Equal(t, models.ShippingPickupPoint, methods[2].Category)

	_, err = svc.Methods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, woo.count("ListShippingZones"))
}

func TestShippingService_CatchAllZoneOnly(t *testing.T) {
	woo := newFakeWoo()
	woo.zones = woo.zones[:1]
	svc := newShippingService(woo)

	methods, err := svc.Methods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "0:9", methods[0].ID)
}

func TestShippingService_Options(t *testing.T) {
	svc := newShippingService(newFakeWoo())
	ctx := context.Background()

	t.Run("below threshold", func(t *testing.T) {
		opts, err := svc.Options(ctx, money("299.99"))
		require.NoError(t, err)
		for _, o := range opts {
			assert.False(t, o.FreeShipping, o.ID)
			assert.True(t, o.Cost.Equal(o.Price), o.ID)
		}
	})

	t.Run("at threshold", func(t *testing.T) {
		opts, err := svc.Options(ctx, money("300"))
		require.NoError(t, err)
		require.Len(t, opts, 3)
		assert.True(t, opts[0].FreeShipping)
		assert.True(t, opts[0].Price.IsZero())
		assert.False(t, opts[1].FreeShipping, "cash on delivery keeps its cost")
		assert.True(t, money("19.99").Equal(opts[1].Price))
		assert.True(t, opts[2].FreeShipping)
	})
}

func TestShippingService_TitleOnlyCODKeepsCost(t *testing.T) {
	woo := newFakeWoo()
	svc := newShippingService(woo)
	asm := testAssembler()
	ctx := context.Background()

	// no id hint, only the title says cash on delivery
	require.Equal(t, "flat_rate", woo.zoneMethods[1][1].MethodID)

	cod, err := svc.FindMethod(ctx, "1:2")
	require.NoError(t, err)
	assert.Equal(t, models.ShippingCOD, cod.Category)
	assert.True(t, cod.IsCOD(asm.CODMarkers))
	assert.False(t, asm.FreeShippingApplies(cod, money("300")))
	assert.True(t, money("19.99").Equal(asm.ShippingCost(cod, money("300"))))

	courier, err := svc.FindMethod(ctx, "1:1")
	require.NoError(t, err)
	assert.Equal(t, models.ShippingStandard, courier.Category)
	assert.True(t, asm.ShippingCost(courier, money("300")).IsZero())
}

func TestShippingService_Find(t *testing.T) {
	svc := newShippingService(newFakeWoo())
	ctx := context.Background()

	m, err := svc.FindMethod(ctx, "1:3")
	require.NoError(t, err)
	assert.True(t, m.RequiresPickupPoint())

	_, err = svc.FindMethod(ctx, "7:7")
	assert.ErrorIs(t, err, utils.ErrShippingMethod)

	p, err := svc.FindPayment(ctx, "bacs")
	require.NoError(t, err)
	assert.Equal(t, "Przelew", p.Title)

	_, err = svc.FindPayment(ctx, "paypal")
	assert.ErrorIs(t, err, utils.ErrPaymentMethod)
}

func TestShippingService_Refresh(t *testing.T) {
	woo := newFakeWoo()
	svc := newShippingService(woo)
	ctx := context.Background()

	_, err := svc.Methods(ctx)
	require.NoError(t, err)

	woo.zoneMethods[1] = woo.zoneMethods[1][:1]
	n, err := svc.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	methods, err := svc.Methods(ctx)
	require.NoError(t, err)
	assert.Len(t, methods, 1)

	woo.fail = true
	_, err = svc.Refresh(ctx)
	assert.Error(t, err)
}

func TestShippingService_UpstreamFailure(t *testing.T) {
	woo := newFakeWoo()
	woo.fail = true
	svc := newShippingService(woo)

	_, err := svc.Methods(context.Background())
	assert.ErrorIs(t, err, utils.ErrUpstream)
	_, err = svc.PaymentMethods(context.Background())
	assert.ErrorIs(t, err, utils.ErrUpstream)
}
