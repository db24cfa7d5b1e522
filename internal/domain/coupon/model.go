package coupon

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/types"
)

// DiscountCoupon represents a discount coupon entity. Codes are stored
// upper-cased and compared case-insensitively.
type DiscountCoupon struct {
	ID              string           `json:"id"`
	Code            string           `json:"code"`
	Name            string           `json:"name"`
	Type            types.CouponType `json:"type"`
	Value           decimal.Decimal  `json:"value"`
	Currency        string           `json:"currency,omitempty"`
	IsActive        bool             `json:"is_active"`
	UsageLimit      *int             `json:"usage_limit,omitempty"`
	UsedCount       int              `json:"used_count"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ApplicablePlans []string         `json:"applicable_plans"`
	types.BaseModel
}

// NormalizeCode upper-cases and trims a coupon code for storage and all
// comparisons
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsRedeemable checks whether the coupon can currently be applied to the
// given plan. The reason is only meaningful when the first return is false.
func (c *DiscountCoupon) IsRedeemable(planID string, now time.Time) (bool, types.CouponIneligibilityReason) {
	if !c.IsActive {
		return false, types.CouponIneligibilityReasonInactive
	}

	if !lo.Contains(c.ApplicablePlans, planID) {
		return false, types.CouponIneligibilityReasonPlanNotApplicable
	}

	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, types.CouponIneligibilityReasonUsageExhausted
	}

	if c.ExpiryDate != nil && now.After(*c.ExpiryDate) {
		return false, types.CouponIneligibilityReasonExpired
	}

	return true, ""
}

// CalculateDiscount calculates the discount amount for a given base price.
// A fixed discount is clamped to the base price so the discount can never
// exceed the amount it is applied to.
func (c *DiscountCoupon) CalculateDiscount(basePrice types.Money) types.Money {
	switch c.Type {
	case types.CouponTypePercentage:
		return basePrice.MulPercent(c.Value)
	case types.CouponTypeFixed:
		if c.Value.GreaterThan(basePrice.Amount) {
			return basePrice
		}
		return types.Money{Amount: c.Value, Currency: basePrice.Currency}
	default:
		return types.ZeroMoney(basePrice.Currency)
	}
}

// ApplyDiscount applies the discount to a base price and returns the final
// price, floored at zero
func (c *DiscountCoupon) ApplyDiscount(basePrice types.Money) types.Money {
	return basePrice.Sub(c.CalculateDiscount(basePrice))
}
