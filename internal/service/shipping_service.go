package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/checkout"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

// ShippingClient lists shipping zones and payment gateways upstream.
type ShippingClient interface {
	ListShippingZones(ctx context.Context) ([]woocommerce.ShippingZone, error)
	ListZoneMethods(ctx context.Context, zoneID int) ([]woocommerce.ShippingZoneMethod, error)
	ListPaymentGateways(ctx context.Context) ([]woocommerce.PaymentGateway, error)
}

// ShippingOption is a shipping method priced for a given cart subtotal.
type ShippingOption struct {
	models.ShippingMethod
	Price        decimal.Decimal `json:"price"`
	FreeShipping bool            `json:"freeShipping"`
}

// ShippingService serves shipping and payment methods from the catalog
// cache.
type ShippingService struct {
	client    ShippingClient
	cache     *cache.CatalogCache
	assembler *checkout.Assembler
	ttl       time.Duration
}

// NewShippingService creates a new ShippingService. ttl bounds how long a
// zone listing is served before it is fetched again.
func NewShippingService(client ShippingClient, catalogCache *cache.CatalogCache, assembler *checkout.Assembler, ttl time.Duration) *ShippingService {
	return &ShippingService{client: client, cache: catalogCache, assembler: assembler, ttl: ttl}
}

// Methods returns every enabled shipping method.
func (s *ShippingService) Methods(ctx context.Context) ([]models.ShippingMethod, error) {
	methods, stale, err := cache.Fetch(ctx, s.cache, cache.ShippingZonesKey, s.ttl, s.loadMethods)
	if err != nil {
		return nil, fmt.Errorf("%w: shipping zones: %v", utils.ErrUpstream, err)
	}
	if stale {
		log.Warn().Msg("Serving stale shipping methods")
	}
	return methods, nil
}

// Refresh reloads shipping methods and overwrites the cached listing.
func (s *ShippingService) Refresh(ctx context.Context) (int, error) {
	methods, err := s.loadMethods(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Put(ctx, cache.ShippingZonesKey, methods, s.ttl); err != nil {
		return 0, err
	}
	return len(methods), nil
}

// Options prices every method against subtotal.
func (s *ShippingService) Options(ctx context.Context, subtotal decimal.Decimal) ([]ShippingOption, error) {
	methods, err := s.Methods(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]ShippingOption, 0, len(methods))
	for i := range methods {
		m := &methods[i]
		options = append(options, ShippingOption{
			ShippingMethod: *m,
			Price:          s.assembler.ShippingCost(m, subtotal),
			FreeShipping:   s.assembler.FreeShippingApplies(m, subtotal),
		})
	}
	return options, nil
}

// FindMethod returns the shipping method with id.
func (s *ShippingService) FindMethod(ctx context.Context, id string) (*models.ShippingMethod, error) {
	methods, err := s.Methods(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == id {
			return &methods[i], nil
		}
	}
	return nil, utils.ErrShippingMethod
}

// PaymentMethods returns the enabled payment methods.
func (s *ShippingService) PaymentMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	methods, _, err := cache.Fetch(ctx, s.cache, cache.PaymentGatewaysKey, s.ttl,
		func(ctx context.Context) ([]models.PaymentMethod, error) {
			gateways, err := s.client.ListPaymentGateways(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]models.PaymentMethod, 0, len(gateways))
			for i := range gateways {
				if pm := woocommerce.ToPaymentMethod(&gateways[i]); pm.Enabled {
					out = append(out, pm)
				}
			}
			return out, nil
		})
	if err != nil {
		return nil, fmt.Errorf("%w: payment gateways: %v", utils.ErrUpstream, err)
	}
	return methods, nil
}

// FindPayment returns the enabled payment method with id.
func (s *ShippingService) FindPayment(ctx context.Context, id string) (*models.PaymentMethod, error) {
	methods, err := s.PaymentMethods(ctx)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].ID == id {
			return &methods[i], nil
		}
	}
	return nil, utils.ErrPaymentMethod
}

// loadMethods collects enabled methods of every zone. The catch-all zone 0
// is only used when no other zone exists.
func (s *ShippingService) loadMethods(ctx context.Context) ([]models.ShippingMethod, error) {
	zones, err := s.client.ListShippingZones(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(zones))
	for _, z := range zones {
		if z.ID != 0 {
			ids = append(ids, z.ID)
		}
	}
	if len(ids) == 0 {
		ids = append(ids, 0)
	}

	var methods []models.ShippingMethod
	for _, zoneID := range ids {
		raw, err := s.client.ListZoneMethods(ctx, zoneID)
		if err != nil {
			return nil, err
		}
		for i := range raw {
			m, ok := woocommerce.ToShippingMethod(zoneID, &raw[i])
			if !ok {
				continue
			}
			if m.Category == "" {
				// IsCOD only matches titles while the category is empty
				if m.IsCOD(s.assembler.CODMarkers) {
					m.Category = models.ShippingCOD
				} else {
					m.Category = models.ShippingStandard
				}
			}
			methods = append(methods, m)
		}
	}
	return methods, nil
}
