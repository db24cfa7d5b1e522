package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/coupon"
	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/domain/referral"
	"github.com/courseforge/monetize/internal/types"
)

// CourseMonetizationConfig is the full snapshot the admin UI assembles for
// one course: its plans, coupons and referral programs, plus the top-level
// enrollment and donation settings.
type CourseMonetizationConfig struct {
	CourseID                 string                      `json:"course_id"`
	EnrollmentType           types.EnrollmentType        `json:"enrollment_type"`
	Plans                    []*plan.PaymentPlan         `json:"plans"`
	DonationsEnabled         bool                        `json:"donations_enabled"`
	SuggestedDonationAmounts string                      `json:"suggested_donation_amounts"`
	Coupons                  []*coupon.DiscountCoupon    `json:"coupons"`
	ReferralPrograms         []*referral.ReferralProgram `json:"referral_programs"`
}

// ConfigurationReport is the merged outcome of one full validation pass.
// Every category is checked independently so a single "Validate" action
// surfaces all problems at once.
type ConfigurationReport struct {
	IsValid       bool                        `json:"is_valid"`
	ErrorsByField map[string]types.FieldError `json:"errors_by_field"`
	Errors        []types.FieldError          `json:"errors"`
	Warnings      []types.FieldError          `json:"warnings,omitempty"`
	Status        types.ConfigurationStatus   `json:"status"`
}

// PricingValidationService aggregates every sub-engine's validation into a
// single pass/fail report for a course's full payment configuration. It is
// invoked on demand and again implicitly before publish.
type PricingValidationService interface {
	ValidateConfiguration(ctx context.Context, cfg CourseMonetizationConfig) *ConfigurationReport
}

type pricingValidationService struct {
	ServiceParams
	installments        InstallmentService
	subscriptionCatalog SubscriptionCatalogService
	coupons             CouponService
	referrals           ReferralService
}

// NewPricingValidationService creates the top-level configuration validator
func NewPricingValidationService(params ServiceParams) PricingValidationService {
	return &pricingValidationService{
		ServiceParams:       params,
		installments:        NewInstallmentService(params),
		subscriptionCatalog: NewSubscriptionCatalogService(params),
		coupons:             NewCouponService(params),
		referrals:           NewReferralService(params),
	}
}

func (s *pricingValidationService) ValidateConfiguration(ctx context.Context, cfg CourseMonetizationConfig) *ConfigurationReport {
	result := types.NewValidationResult()

	// 1. A paid course needs at least one payment model
	if cfg.EnrollmentType == types.EnrollmentTypePaid && len(cfg.Plans) == 0 {
		result.AddError("paymentModels", types.ErrorKindNoActivePlan,
			"Select at least one payment model for a paid course")
	}

	// 2-3, 5. Per-plan checks
	for i, p := range cfg.Plans {
		s.validatePlan(fmt.Sprintf("plans[%d]", i), p, result)
	}

	// 4. Donation amounts on free enrollment
	if cfg.EnrollmentType == types.EnrollmentTypeFree && cfg.DonationsEnabled {
		s.validateDonationAmounts(cfg.SuggestedDonationAmounts, result)
	}

	// Coupon definitions
	for i, c := range cfg.Coupons {
		mergePrefixed(result, fmt.Sprintf("coupons[%d]", i), s.coupons.ValidateDefinition(c))
	}

	// Referral programs
	for i, p := range cfg.ReferralPrograms {
		mergePrefixed(result, fmt.Sprintf("referralPrograms[%d]", i), s.referrals.ValidateProgram(ctx, p))
	}

	return s.buildReport(cfg, result)
}

func (s *pricingValidationService) validatePlan(field string, p *plan.PaymentPlan, result *types.ValidationResult) {
	if p.Name == "" {
		result.AddError(field+".name", types.ErrorKindMissingRequiredField,
			"Plan name is required")
	}

	switch cfg := p.Config.(type) {
	case plan.SubscriptionConfig:
		mergePrefixed(result, field, s.subscriptionCatalog.Validate(cfg))

	case plan.UpfrontConfig:
		if !cfg.FullPrice.IsPositive() {
			result.AddError(field+".fullPrice", types.ErrorKindOutOfRange,
				"Full price must be greater than zero")
		}

		if cfg.InstallmentsEnabled {
			if len(cfg.InstallmentPlans) == 0 {
				result.AddError(field+".installmentPlans", types.ErrorKindMissingRequiredField,
					"Enable at least one installment plan or turn installments off")
			}
			for i, inst := range cfg.InstallmentPlans {
				mergePrefixed(result, fmt.Sprintf("%s.installmentPlans[%d]", field, i),
					s.installments.Validate(inst, cfg.FullPrice))
			}
		}

		mergePrefixed(result, field, s.installments.ValidateLateFee(cfg.LateFee))

	case plan.InvoiceConfig:
		if !cfg.BaseAmount.IsPositive() {
			result.AddError(field+".baseAmount", types.ErrorKindOutOfRange,
				"Invoice base amount must be greater than zero")
		}
		if cfg.GracePeriodDays < 0 {
			result.AddError(field+".gracePeriodDays", types.ErrorKindOutOfRange,
				"Grace period cannot be negative")
		}
		if cfg.LateFeePercentage.IsNegative() || cfg.LateFeePercentage.GreaterThan(percentCeiling) {
			result.AddError(field+".lateFeePercentage", types.ErrorKindOutOfRange,
				"Late fee percentage must be between 0 and 100")
		}

	case plan.DonationConfig:
		for i, amount := range cfg.SuggestedAmounts {
			if !amount.IsPositive() {
				result.AddError(fmt.Sprintf("%s.suggestedAmounts[%d]", field, i),
					types.ErrorKindOutOfRange,
					"Suggested amounts must be greater than zero")
			}
		}

	case plan.FreeConfig:
		if cfg.ValidityDays <= 0 {
			result.AddError(field+".validityDays", types.ErrorKindOutOfRange,
				"Validity days must be greater than zero")
		}

	default:
		result.AddError(field+".config", types.ErrorKindMissingRequiredField,
			"Plan configuration is missing")
	}
}

// validateDonationAmounts parses the comma-separated suggested amounts the
// admin typed; every token must be a positive number
func (s *pricingValidationService) validateDonationAmounts(raw string, result *types.ValidationResult) {
	if strings.TrimSpace(raw) == "" {
		return
	}

	for _, token := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		amount, err := decimal.NewFromString(trimmed)
		if err != nil || !amount.IsPositive() {
			result.AddError("donationAmounts", types.ErrorKindOutOfRange,
				fmt.Sprintf("Suggested amount %q is not a positive number", trimmed))
		}
	}
}

func (s *pricingValidationService) buildReport(cfg CourseMonetizationConfig, result *types.ValidationResult) *ConfigurationReport {
	report := &ConfigurationReport{
		IsValid:       result.IsValid(),
		ErrorsByField: result.ErrorsByField(),
		Errors:        result.Errors,
		Warnings:      result.Warnings,
	}

	switch {
	case cfg.EnrollmentType == types.EnrollmentTypeFree:
		report.Status = types.ConfigurationStatusComplete
	case result.IsValid() && len(cfg.Plans) > 0:
		report.Status = types.ConfigurationStatusComplete
	case cfg.EnrollmentType == types.EnrollmentTypePaid && len(cfg.Plans) == 0:
		report.Status = types.ConfigurationStatusIncomplete
	default:
		report.Status = types.ConfigurationStatusError
	}

	return report
}

// mergePrefixed folds another result in, prefixing every field so findings
// stay addressable in the aggregated report
func mergePrefixed(dst *types.ValidationResult, prefix string, src *types.ValidationResult) {
	for _, fe := range src.Errors {
		dst.AddError(prefix+"."+fe.Field, fe.Kind, fe.Message)
	}
	for _, fe := range src.Warnings {
		dst.AddWarning(prefix+"."+fe.Field, fe.Kind, fe.Message)
	}
}
