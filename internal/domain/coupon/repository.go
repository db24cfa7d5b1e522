package coupon

import (
	"context"
)

// Repository defines the interface for coupon data access
type Repository interface {
	Create(ctx context.Context, coupon *DiscountCoupon) error
	Get(ctx context.Context, id string) (*DiscountCoupon, error)
	GetByCode(ctx context.Context, code string) (*DiscountCoupon, error)
	List(ctx context.Context) ([]*DiscountCoupon, error)
	Update(ctx context.Context, coupon *DiscountCoupon) error
	Delete(ctx context.Context, id string) error
	// IncrementRedemptions bumps the used count, failing when the usage
	// limit would be exceeded.
	IncrementRedemptions(ctx context.Context, id string) error
}
