package types

import (
	"github.com/samber/lo"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// CouponType represents the type of coupon discount (fixed or percentage)
type CouponType string

const (
	// CouponTypeFixed represents a fixed amount coupon discount
	CouponTypeFixed CouponType = "fixed"
	// CouponTypePercentage represents a percentage-based coupon discount
	CouponTypePercentage CouponType = "percentage"
)

func (c CouponType) String() string {
	return string(c)
}

func (c CouponType) Validate() error {
	allowed := []CouponType{
		CouponTypeFixed,
		CouponTypePercentage,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid coupon type").
			WithHint("Please provide a valid coupon type (fixed or percentage)").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CouponIneligibilityReason explains why a coupon cannot be redeemed right
// now. Ineligibility is reported, never raised.
type CouponIneligibilityReason string

const (
	CouponIneligibilityReasonInactive          CouponIneligibilityReason = "coupon_inactive"
	CouponIneligibilityReasonExpired           CouponIneligibilityReason = "coupon_expired"
	CouponIneligibilityReasonUsageExhausted    CouponIneligibilityReason = "usage_limit_reached"
	CouponIneligibilityReasonPlanNotApplicable CouponIneligibilityReason = "plan_not_applicable"
)

func (r CouponIneligibilityReason) String() string {
	return string(r)
}
