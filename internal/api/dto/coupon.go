package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/coupon"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
	"github.com/courseforge/monetize/internal/validator"
)

// CreateCouponRequest represents the request to create a new coupon. An
// omitted code is generated server-side.
type CreateCouponRequest struct {
	Code            string           `json:"code,omitempty"`
	Name            string           `json:"name" validate:"required"`
	Type            types.CouponType `json:"type" validate:"required,oneof=fixed percentage"`
	Value           decimal.Decimal  `json:"value"`
	Currency        string           `json:"currency,omitempty"`
	IsActive        bool             `json:"is_active"`
	UsageLimit      *int             `json:"usage_limit,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ApplicablePlans []string         `json:"applicable_plans,omitempty"`
}

// Validate validates the CreateCouponRequest
func (r *CreateCouponRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a coupon name").
			Mark(ierr.ErrValidation)
	}

	if err := r.Type.Validate(); err != nil {
		return err
	}

	if r.Type == types.CouponTypeFixed {
		if r.Currency == "" {
			return ierr.NewError("currency is required for fixed discounts").
				WithHint("Please provide a currency code").
				Mark(ierr.ErrValidation)
		}
		if err := types.ValidateCurrencyCode(r.Currency); err != nil {
			return err
		}
	}

	if r.Type == types.CouponTypePercentage && r.Currency != "" {
		return ierr.NewError("percentage discounts are currency-agnostic").
			WithHint("Remove the currency from a percentage coupon").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToCoupon builds the domain coupon from the request, generating a code
// when none was provided
func (r *CreateCouponRequest) ToCoupon(ctx context.Context) *coupon.DiscountCoupon {
	code := coupon.NormalizeCode(r.Code)
	if code == "" {
		code = types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_COUPON_CODE)
	}

	return &coupon.DiscountCoupon{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COUPON),
		Code:            code,
		Name:            r.Name,
		Type:            r.Type,
		Value:           r.Value,
		Currency:        types.NormalizeCurrency(r.Currency),
		IsActive:        r.IsActive,
		UsageLimit:      r.UsageLimit,
		ExpiryDate:      r.ExpiryDate,
		ApplicablePlans: r.ApplicablePlans,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// UpdateCouponRequest represents the request to update an existing coupon
type UpdateCouponRequest struct {
	Name            *string          `json:"name,omitempty"`
	Value           *decimal.Decimal `json:"value,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	IsActive        *bool            `json:"is_active,omitempty"`
	UsageLimit      *int             `json:"usage_limit,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ApplicablePlans *[]string        `json:"applicable_plans,omitempty"`
}

// Validate validates the UpdateCouponRequest
func (r *UpdateCouponRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ierr.NewError("name cannot be empty").
			WithHint("Please provide a coupon name").
			Mark(ierr.ErrValidation)
	}
	if r.Currency != nil && *r.Currency != "" {
		if err := types.ValidateCurrencyCode(*r.Currency); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo applies the requested changes onto an existing coupon
func (r *UpdateCouponRequest) ApplyTo(c *coupon.DiscountCoupon) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Value != nil {
		c.Value = *r.Value
	}
	if r.Currency != nil {
		c.Currency = types.NormalizeCurrency(*r.Currency)
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
	if r.UsageLimit != nil {
		c.UsageLimit = r.UsageLimit
	}
	if r.ExpiryDate != nil {
		c.ExpiryDate = r.ExpiryDate
	}
	if r.ApplicablePlans != nil {
		c.ApplicablePlans = *r.ApplicablePlans
	}
}

// CouponResponse represents a coupon in API responses
type CouponResponse struct {
	*coupon.DiscountCoupon
}

// DiscountPreviewRequest asks for the discount a coupon code yields
// against a plan's base price
type DiscountPreviewRequest struct {
	Code      string          `json:"code" validate:"required"`
	PlanID    string          `json:"plan_id" validate:"required"`
	BasePrice decimal.Decimal `json:"base_price"`
	Currency  string          `json:"currency" validate:"required"`
}

// Validate validates the DiscountPreviewRequest
func (r *DiscountPreviewRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if coupon.NormalizeCode(r.Code) == "" {
		return ierr.NewError("code is required").
			WithHint("Please provide a coupon code").
			Mark(ierr.ErrValidation)
	}
	if r.PlanID == "" {
		return ierr.NewError("plan_id is required").
			WithHint("Please provide the plan to apply the coupon to").
			Mark(ierr.ErrValidation)
	}
	if r.BasePrice.IsNegative() {
		return ierr.NewError("base_price cannot be negative").
			WithHint("Please provide a non-negative base price").
			Mark(ierr.ErrValidation)
	}
	return types.ValidateCurrencyCode(r.Currency)
}

// DiscountPreviewResponse is the computed discount for an order summary
type DiscountPreviewResponse struct {
	Code       string                          `json:"code"`
	Redeemable bool                            `json:"redeemable"`
	Reason     types.CouponIneligibilityReason `json:"reason,omitempty"`
	BasePrice  types.Money                     `json:"base_price"`
	Discount   types.Money                     `json:"discount"`
	FinalPrice types.Money                     `json:"final_price"`
}
