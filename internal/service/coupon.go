package service

import (
	"context"
	"time"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/coupon"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
)

// CouponService manages discount coupon definitions and exposes the pure
// discount computations consumed by order-summary previews. Coupons do not
// stack: at most one applies to a purchase, and choosing among eligible
// coupons is a caller decision.
type CouponService interface {
	CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error)
	GetCoupon(ctx context.Context, id string) (*dto.CouponResponse, error)
	GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error)
	ListCoupons(ctx context.Context) ([]*dto.CouponResponse, error)
	UpdateCoupon(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error)
	DeleteCoupon(ctx context.Context, id string) error

	// ValidateDefinition checks a coupon definition's own fields. An
	// already-expired coupon is a legal definition, merely inactive in
	// effect.
	ValidateDefinition(c *coupon.DiscountCoupon) *types.ValidationResult

	// IsRedeemable reports whether the coupon applies to the given plan
	// right now. Ineligibility is a reported reason, never an error.
	IsRedeemable(c *coupon.DiscountCoupon, planID string, now time.Time) (bool, types.CouponIneligibilityReason)

	// ComputeDiscount returns the discount amount for a base price. Fixed
	// discounts are clamped to the base price; the resulting total can
	// never go negative.
	ComputeDiscount(c *coupon.DiscountCoupon, basePrice types.Money) types.Money

	// PreviewDiscount resolves a coupon by code and computes the discount
	// against a plan's price, safe to call on every keystroke.
	PreviewDiscount(ctx context.Context, req dto.DiscountPreviewRequest) (*dto.DiscountPreviewResponse, error)
}

type couponService struct {
	ServiceParams
}

// NewCouponService creates a new coupon service
func NewCouponService(params ServiceParams) CouponService {
	return &couponService{
		ServiceParams: params,
	}
}

func (s *couponService) CreateCoupon(ctx context.Context, req dto.CreateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := req.ToCoupon(ctx)

	if result := s.ValidateDefinition(c); !result.IsValid() {
		return nil, definitionError(result)
	}

	if existing, err := s.CouponRepo.GetByCode(ctx, c.Code); err == nil && existing != nil {
		return nil, ierr.NewError("coupon code already exists").
			WithHintf("A coupon with code %s already exists", c.Code).
			WithReportableDetails(map[string]any{
				"code": c.Code,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.CouponRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created coupon", "coupon_id", c.ID, "code", c.Code)

	return &dto.CouponResponse{DiscountCoupon: c}, nil
}

func (s *couponService) GetCoupon(ctx context.Context, id string) (*dto.CouponResponse, error) {
	c, err := s.CouponRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.CouponResponse{DiscountCoupon: c}, nil
}

func (s *couponService) GetCouponByCode(ctx context.Context, code string) (*dto.CouponResponse, error) {
	c, err := s.CouponRepo.GetByCode(ctx, coupon.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	return &dto.CouponResponse{DiscountCoupon: c}, nil
}

func (s *couponService) ListCoupons(ctx context.Context) ([]*dto.CouponResponse, error) {
	coupons, err := s.CouponRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.CouponResponse, len(coupons))
	for i, c := range coupons {
		responses[i] = &dto.CouponResponse{DiscountCoupon: c}
	}
	return responses, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id string, req dto.UpdateCouponRequest) (*dto.CouponResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CouponRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	req.ApplyTo(c)
	c.UpdatedAt = time.Now().UTC()
	c.UpdatedBy = types.GetUserID(ctx)

	if result := s.ValidateDefinition(c); !result.IsValid() {
		return nil, definitionError(result)
	}

	if err := s.CouponRepo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated coupon", "coupon_id", c.ID, "code", c.Code)

	return &dto.CouponResponse{DiscountCoupon: c}, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, id string) error {
	if _, err := s.CouponRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.CouponRepo.Delete(ctx, id)
}

func (s *couponService) ValidateDefinition(c *coupon.DiscountCoupon) *types.ValidationResult {
	result := types.NewValidationResult()

	if coupon.NormalizeCode(c.Code) == "" {
		result.AddError("couponCode", types.ErrorKindMissingRequiredField,
			"Coupon code is required")
	}

	if !c.Value.IsPositive() {
		result.AddError("couponValue", types.ErrorKindOutOfRange,
			"Coupon value must be greater than zero")
	} else if c.Type == types.CouponTypePercentage && c.Value.GreaterThan(percentCeiling) {
		result.AddError("couponValue", types.ErrorKindOutOfRange,
			"Percentage discount must be between 0 and 100")
	}

	if c.Type == types.CouponTypeFixed && c.Currency == "" {
		result.AddError("couponCurrency", types.ErrorKindMissingRequiredField,
			"Fixed discounts require a currency")
	}

	if c.UsageLimit != nil {
		if *c.UsageLimit < 1 {
			result.AddError("usageLimit", types.ErrorKindOutOfRange,
				"Usage limit must be at least 1")
		} else if c.UsedCount > *c.UsageLimit {
			result.AddError("usageLimit", types.ErrorKindOutOfRange,
				"Used count cannot exceed the usage limit")
		}
	}

	return result
}

func (s *couponService) IsRedeemable(c *coupon.DiscountCoupon, planID string, now time.Time) (bool, types.CouponIneligibilityReason) {
	return c.IsRedeemable(planID, now)
}

func (s *couponService) ComputeDiscount(c *coupon.DiscountCoupon, basePrice types.Money) types.Money {
	return c.CalculateDiscount(basePrice)
}

func (s *couponService) PreviewDiscount(ctx context.Context, req dto.DiscountPreviewRequest) (*dto.DiscountPreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CouponRepo.GetByCode(ctx, coupon.NormalizeCode(req.Code))
	if err != nil {
		return nil, err
	}

	basePrice := types.NewMoney(req.BasePrice, req.Currency)

	redeemable, reason := c.IsRedeemable(req.PlanID, time.Now().UTC())
	if !redeemable {
		return &dto.DiscountPreviewResponse{
			Code:       c.Code,
			Redeemable: false,
			Reason:     reason,
			BasePrice:  basePrice,
			FinalPrice: basePrice,
		}, nil
	}

	discount := c.CalculateDiscount(basePrice)
	return &dto.DiscountPreviewResponse{
		Code:       c.Code,
		Redeemable: true,
		BasePrice:  basePrice,
		Discount:   discount,
		FinalPrice: basePrice.Sub(discount),
	}, nil
}

// definitionError folds a failed validation result into a single
// validation-marked error for API callers
func definitionError(result *types.ValidationResult) error {
	details := make(map[string]any, len(result.Errors))
	for _, fe := range result.Errors {
		details[fe.Field] = fe.Message
	}
	return ierr.NewError("coupon definition is invalid").
		WithHint("Please fix the reported fields").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
