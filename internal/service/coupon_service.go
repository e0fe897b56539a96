package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
	"github.com/DamianKursa/hvyt-ecom-sub000/pkg/woocommerce"
)

// CouponClient looks coupons up upstream.
type CouponClient interface {
	GetCouponByCode(ctx context.Context, code string) (*woocommerce.Coupon, error)
}

// CouponService validates discount codes.
type CouponService struct {
	client CouponClient
	now    func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(client CouponClient) *CouponService {
	return &CouponService{client: client, now: time.Now}
}

// Validate returns the coupon for code when it exists, has not expired and
// has uses left.
func (s *CouponService) Validate(ctx context.Context, code string) (models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Coupon{}, utils.ErrInvalidCoupon
	}

	raw, err := s.client.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, woocommerce.ErrNotFound) {
			return models.Coupon{}, utils.ErrInvalidCoupon
		}
		return models.Coupon{}, fmt.Errorf("%w: coupon lookup: %v", utils.ErrUpstream, err)
	}
	if woocommerce.CouponExpired(raw, s.now()) {
		return models.Coupon{}, utils.ErrCouponExpired
	}
	if woocommerce.CouponExhausted(raw) {
		return models.Coupon{}, utils.ErrCouponUsageLimit
	}

	coupon, err := woocommerce.ToCoupon(raw)
	if err != nil {
		return models.Coupon{}, fmt.Errorf("%w: %v", utils.ErrUpstream, err)
	}
	return coupon, nil
}
