package repository

import (
	"context"

	"github.com/courseforge/monetize/internal/cache"
	"github.com/courseforge/monetize/internal/domain/coupon"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
)

// InMemoryCouponStore implements coupon.Repository. Code lookups are the
// hot path during discount previews, so they go through the cache.
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.DiscountCoupon]
	cache cache.Cache
	log   *logger.Logger
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.DiscountCoupon](),
		cache:         cache.GetInMemoryCache(),
	}
}

// NewCouponRepository creates the discount coupon repository
func NewCouponRepository(log *logger.Logger, c cache.Cache) coupon.Repository {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.DiscountCoupon](),
		cache:         c,
		log:           log,
	}
}

func copyCoupon(c *coupon.DiscountCoupon) *coupon.DiscountCoupon {
	if c == nil {
		return nil
	}
	copied := *c
	if c.UsageLimit != nil {
		limit := *c.UsageLimit
		copied.UsageLimit = &limit
	}
	if c.ExpiryDate != nil {
		expiry := *c.ExpiryDate
		copied.ExpiryDate = &expiry
	}
	copied.ApplicablePlans = append([]string(nil), c.ApplicablePlans...)
	return &copied
}

func (s *InMemoryCouponStore) Create(ctx context.Context, c *coupon.DiscountCoupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyCoupon(c))
}

func (s *InMemoryCouponStore) Get(ctx context.Context, id string) (*coupon.DiscountCoupon, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, couponNotFound(id)
	}
	return copyCoupon(c), nil
}

// GetByCode looks a coupon up by its normalized code
func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.DiscountCoupon, error) {
	normalized := coupon.NormalizeCode(code)

	if cached := s.getCache(ctx, normalized); cached != nil {
		return copyCoupon(cached), nil
	}

	coupons, err := s.InMemoryStore.List(ctx, normalized,
		func(ctx context.Context, c *coupon.DiscountCoupon, filter interface{}) bool {
			return c.Code == filter.(string)
		}, nil)
	if err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, couponNotFound(normalized)
	}

	s.setCache(ctx, coupons[0])
	return copyCoupon(coupons[0]), nil
}

func (s *InMemoryCouponStore) List(ctx context.Context) ([]*coupon.DiscountCoupon, error) {
	coupons, err := s.InMemoryStore.List(ctx, nil, nil,
		func(a, b *coupon.DiscountCoupon) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		})
	if err != nil {
		return nil, err
	}

	result := make([]*coupon.DiscountCoupon, len(coupons))
	for i, c := range coupons {
		result[i] = copyCoupon(c)
	}
	return result, nil
}

func (s *InMemoryCouponStore) Update(ctx context.Context, c *coupon.DiscountCoupon) error {
	if c == nil {
		return ierr.NewError("coupon cannot be nil").
			WithHint("Coupon cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Update(ctx, c.ID, copyCoupon(c)); err != nil {
		return couponNotFound(c.ID)
	}
	s.deleteCache(ctx, c.Code)
	return nil
}

func (s *InMemoryCouponStore) Delete(ctx context.Context, id string) error {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return couponNotFound(id)
	}
	if err := s.InMemoryStore.Delete(ctx, id); err != nil {
		return couponNotFound(id)
	}
	s.deleteCache(ctx, c.Code)
	return nil
}

// IncrementRedemptions bumps the used count under the write lock so two
// concurrent redemptions cannot both consume the last slot.
func (s *InMemoryCouponStore) IncrementRedemptions(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.items[id]
	if !exists {
		return couponNotFound(id)
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return ierr.NewError("coupon usage limit reached").
			WithHint("This coupon has no redemptions left").
			WithReportableDetails(map[string]any{
				"id":          id,
				"usage_limit": *c.UsageLimit,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	copied := copyCoupon(c)
	copied.UsedCount++
	s.items[id] = copied
	s.deleteCache(ctx, copied.Code)
	return nil
}

// caching
func (s *InMemoryCouponStore) setCache(ctx context.Context, c *coupon.DiscountCoupon) {
	key := cache.GenerateKey(cache.PrefixCoupon, c.Code)
	s.cache.Set(ctx, key, copyCoupon(c), cache.DefaultExpiration)
	if s.log != nil {
		s.log.Debugw("cache set", "key", key)
	}
}

func (s *InMemoryCouponStore) getCache(ctx context.Context, code string) *coupon.DiscountCoupon {
	key := cache.GenerateKey(cache.PrefixCoupon, code)
	if value, found := s.cache.Get(ctx, key); found {
		if c, ok := value.(*coupon.DiscountCoupon); ok {
			return c
		}
	}
	return nil
}

func (s *InMemoryCouponStore) deleteCache(ctx context.Context, code string) {
	s.cache.Delete(ctx, cache.GenerateKey(cache.PrefixCoupon, code))
}

func couponNotFound(id string) error {
	return ierr.NewError("coupon not found").
		WithHint("Coupon not found").
		WithReportableDetails(map[string]any{
			"id": id,
		}).
		Mark(ierr.ErrNotFound)
}
