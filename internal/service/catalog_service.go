package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/cache"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/catalog"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

// CatalogClient is the upstream catalog surface.
type CatalogClient interface {
	GetProductBySlug(ctx context.Context, slug string) (*woocommerce.Product, error)
	GetProduct(ctx context.Context, id int) (*woocommerce.Product, error)
	ListVariations(ctx context.Context, productID int) ([]woocommerce.Variation, error)
}

// dynamicData holds the fields that refresh more often than the product
// description: simple product price/stock and every variation.
type dynamicData struct {
	Product    *woocommerce.Product    `json:"product,omitempty"`
	Variations []woocommerce.Variation `json:"variations,omitempty"`
}

// ProductView is a product with its variant index for one request.
type ProductView struct {
	Product *models.Product
	Index   *catalog.VariantIndex
	// Stale is set when upstream failed and cached data was served.
	Stale bool
}

// Resolution is the outcome of an attribute selection.
type Resolution struct {
	Variant      *models.Variant `json:"variant,omitempty"`
	Missing      []string        `json:"missing,omitempty"`
	Stock        int             `json:"stock"`
	Quote        catalog.Quote   `json:"price"`
	CanAddToCart bool            `json:"canAddToCart"`
}

// CatalogService loads products through the catalog cache.
type CatalogService struct {
	client     CatalogClient
	cache      *cache.CatalogCache
	staticTTL  time.Duration
	dynamicTTL time.Duration
	now        func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client CatalogClient, catalogCache *cache.CatalogCache, staticTTL, dynamicTTL time.Duration) *CatalogService {
	return &CatalogService{
		client:     client,
		cache:      catalogCache,
		staticTTL:  staticTTL,
		dynamicTTL: dynamicTTL,
		now:        time.Now,
	}
}

// GetProduct returns the product with slug.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*ProductView, error) {
	base, staleStatic, err := cache.Fetch(ctx, s.cache, cache.ProductSlugKey(slug), s.staticTTL,
		func(ctx context.Context) (*woocommerce.Product, error) {
			return s.client.GetProductBySlug(ctx, slug)
		})
	if err != nil {
		return nil, upstreamError("product "+slug, err)
	}
	return s.withDynamic(ctx, base, staleStatic)
}

// GetProductByID returns the product with id.
func (s *CatalogService) GetProductByID(ctx context.Context, id int) (*ProductView, error) {
	base, staleStatic, err := cache.Fetch(ctx, s.cache, cache.ProductIDKey(id), s.staticTTL,
		func(ctx context.Context) (*woocommerce.Product, error) {
			return s.client.GetProduct(ctx, id)
		})
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("product %d", id), err)
	}
	return s.withDynamic(ctx, base, staleStatic)
}

// Resolve matches selection against the product's variants and prices the
// result. A selection that matches nothing is not an error: the resolution
// reports CanAddToCart false and what is still missing.
func (s *CatalogService) Resolve(ctx context.Context, slug string, selection models.Selection) (*Resolution, error) {
	view, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.resolve(view, selection), nil
}

// Preselect seeds a selection for a deep link carrying a single value.
func (s *CatalogService) Preselect(ctx context.Context, slug, value string) (models.Selection, *Resolution, error) {
	view, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	selection, err := view.Index.Preselect(value)
	if err != nil {
		return nil, nil, err
	}
	return selection, s.resolve(view, selection), nil
}

// StockCeilings returns the current available stock per cart key of lines.
// Products that cannot be loaded are left out.
func (s *CatalogService) StockCeilings(ctx context.Context, lines []models.CartLine) map[string]int {
	views := make(map[int]*ProductView)
	ceilings := make(map[string]int, len(lines))
	for _, line := range lines {
		view, ok := views[line.ProductID]
		if !ok {
			var err error
			view, err = s.GetProductByID(ctx, line.ProductID)
			if err != nil {
				log.Warn().Err(err).Int("product_id", line.ProductID).Msg("Skipping stock refresh for cart line")
			}
			views[line.ProductID] = view
		}
		if view == nil || view.Stale {
			continue
		}
		if line.VariantID == 0 {
			ceilings[line.Key] = catalog.AvailableStock(view.Product, nil)
			continue
		}
		variant := view.Product.VariantByID(line.VariantID)
		if variant == nil {
			// variant was removed from the catalog
			ceilings[line.Key] = 0
			continue
		}
		ceilings[line.Key] = catalog.AvailableStock(view.Product, variant)
	}
	return ceilings
}

func (s *CatalogService) resolve(view *ProductView, selection models.Selection) *Resolution {
	product := view.Product
	now := s.now()
	if !product.HasVariants() {
		stock := catalog.AvailableStock(product, nil)
		return &Resolution{Stock: stock, Quote: catalog.Price(product, now), CanAddToCart: stock > 0}
	}

	res := &Resolution{Missing: view.Index.Missing(selection)}
	variant := view.Index.Resolve(selection)
	if variant == nil {
		res.Stock = catalog.AvailableStock(product, nil)
		res.Quote = catalog.Price(product, now)
		return res
	}
	res.Variant = variant
	res.Missing = nil
	res.Stock = catalog.AvailableStock(product, variant)
	res.Quote = catalog.Price(variant, now)
	res.CanAddToCart = res.Stock > 0
	return res
}

func (s *CatalogService) withDynamic(ctx context.Context, base *woocommerce.Product, staleStatic bool) (*ProductView, error) {
	dyn, staleDynamic, err := cache.Fetch(ctx, s.cache, cache.ProductDynamicKey(base.ID), s.dynamicTTL,
		func(ctx context.Context) (*dynamicData, error) {
			return s.loadDynamic(ctx, base)
		})
	if err != nil {
		// static data alone is still a usable, if dated, view
		log.Warn().Err(err).Int("product_id", base.ID).Msg("Dynamic catalog data unavailable")
		dyn = &dynamicData{}
		staleDynamic = true
	}

	current := base
	if dyn.Product != nil {
		current = dyn.Product
	}
	product, err := woocommerce.ToProduct(current, dyn.Variations)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}

	idx := catalog.NewVariantIndex(product)
	if d := idx.Duplicates(); d > 0 {
		log.Warn().Int("product_id", product.ID).Int("duplicates", d).Msg("Product has variants with identical attributes")
	}
	return &ProductView{Product: product, Index: idx, Stale: staleStatic || staleDynamic}, nil
}

func (s *CatalogService) loadDynamic(ctx context.Context, base *woocommerce.Product) (*dynamicData, error) {
	if base.Type == string(models.ProductTypeVariable) {
		variations, err := s.client.ListVariations(ctx, base.ID)
		if err != nil {
			return nil, err
		}
		return &dynamicData{Variations: variations}, nil
	}
	fresh, err := s.client.GetProduct(ctx, base.ID)
	if err != nil {
		return nil, err
	}
	return &dynamicData{Product: fresh}, nil
}

func upstreamError(what string, err error) error {
	if errors.Is(err, woocommerce.ErrNotFound) {
		return utils.ErrProductNotFound
	}
	return fmt.Errorf("%w: %s: %v", utils.ErrUpstream, what, err)
}
