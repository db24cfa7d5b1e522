package types

import (
	"github.com/samber/lo"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// EnrollmentType represents how students join a course (free or paid)
type EnrollmentType string

const (
	EnrollmentTypeFree EnrollmentType = "free"
	EnrollmentTypePaid EnrollmentType = "paid"
)

func (e EnrollmentType) String() string {
	return string(e)
}

func (e EnrollmentType) Validate() error {
	allowed := []EnrollmentType{
		EnrollmentTypeFree,
		EnrollmentTypePaid,
	}
	if !lo.Contains(allowed, e) {
		return ierr.NewError("invalid enrollment type").
			WithHint("Please provide a valid enrollment type").
			WithReportableDetails(map[string]any{
				"allowed":         allowed,
				"enrollment_type": e,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanType represents the payment model of a payment plan
type PlanType string

const (
	// PlanTypeSubscription represents a recurring subscription plan
	PlanTypeSubscription PlanType = "subscription"
	// PlanTypeUpfront represents a one-time payment plan, optionally in installments
	PlanTypeUpfront PlanType = "upfront"
	// PlanTypeInvoice represents a post-paid, invoiced plan
	PlanTypeInvoice PlanType = "invoice"
	// PlanTypeDonation represents a pay-what-you-want donation plan
	PlanTypeDonation PlanType = "donation"
	// PlanTypeFree represents a free enrollment with a validity window
	PlanTypeFree PlanType = "free"
)

func (p PlanType) String() string {
	return string(p)
}

func (p PlanType) Validate() error {
	allowed := []PlanType{
		PlanTypeSubscription,
		PlanTypeUpfront,
		PlanTypeInvoice,
		PlanTypeDonation,
		PlanTypeFree,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid plan type").
			WithHint("Please provide a valid plan type").
			WithReportableDetails(map[string]any{
				"allowed":   allowed,
				"plan_type": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionTierName identifies one of the fixed subscription intervals
type SubscriptionTierName string

const (
	SubscriptionTierMonthly    SubscriptionTierName = "monthly"
	SubscriptionTierQuarterly  SubscriptionTierName = "quarterly"
	SubscriptionTierHalfYearly SubscriptionTierName = "halfYearly"
	SubscriptionTierAnnual     SubscriptionTierName = "annual"
)

// FixedSubscriptionTiers lists the fixed tiers in display order
var FixedSubscriptionTiers = []SubscriptionTierName{
	SubscriptionTierMonthly,
	SubscriptionTierQuarterly,
	SubscriptionTierHalfYearly,
	SubscriptionTierAnnual,
}

func (t SubscriptionTierName) String() string {
	return string(t)
}

// Months returns the billing interval of the tier in calendar months
func (t SubscriptionTierName) Months() int {
	switch t {
	case SubscriptionTierMonthly:
		return 1
	case SubscriptionTierQuarterly:
		return 3
	case SubscriptionTierHalfYearly:
		return 6
	case SubscriptionTierAnnual:
		return 12
	default:
		return 0
	}
}

func (t SubscriptionTierName) Validate() error {
	if !lo.Contains(FixedSubscriptionTiers, t) {
		return ierr.NewError("invalid subscription tier").
			WithHint("Please provide a valid subscription tier name").
			WithReportableDetails(map[string]any{
				"allowed": FixedSubscriptionTiers,
				"tier":    t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomIntervalUnit is the time unit of a custom subscription interval
type CustomIntervalUnit string

const (
	CustomIntervalUnitDays   CustomIntervalUnit = "days"
	CustomIntervalUnitWeeks  CustomIntervalUnit = "weeks"
	CustomIntervalUnitMonths CustomIntervalUnit = "months"
	CustomIntervalUnitYears  CustomIntervalUnit = "years"
)

func (u CustomIntervalUnit) String() string {
	return string(u)
}

func (u CustomIntervalUnit) Validate() error {
	allowed := []CustomIntervalUnit{
		CustomIntervalUnitDays,
		CustomIntervalUnitWeeks,
		CustomIntervalUnitMonths,
		CustomIntervalUnitYears,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid custom interval unit").
			WithHint("Please provide a valid interval unit").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"unit":    u,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingInterval is the cadence an invoiced plan bills on
type BillingInterval string

const (
	BillingIntervalWeekly    BillingInterval = "weekly"
	BillingIntervalMonthly   BillingInterval = "monthly"
	BillingIntervalQuarterly BillingInterval = "quarterly"
	BillingIntervalAnnual    BillingInterval = "annual"
)

func (b BillingInterval) String() string {
	return string(b)
}

func (b BillingInterval) Validate() error {
	allowed := []BillingInterval{
		BillingIntervalWeekly,
		BillingIntervalMonthly,
		BillingIntervalQuarterly,
		BillingIntervalAnnual,
	}
	if !lo.Contains(allowed, b) {
		return ierr.NewError("invalid billing interval").
			WithHint("Please provide a valid billing interval").
			WithReportableDetails(map[string]any{
				"allowed":  allowed,
				"interval": b,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LateFeeType selects how a late fee is computed on an overdue amount
type LateFeeType string

const (
	LateFeeTypeNone       LateFeeType = "none"
	LateFeeTypeFixed      LateFeeType = "fixed"
	LateFeeTypePercentage LateFeeType = "percentage"
)

func (t LateFeeType) String() string {
	return string(t)
}

func (t LateFeeType) Validate() error {
	allowed := []LateFeeType{
		LateFeeTypeNone,
		LateFeeTypeFixed,
		LateFeeTypePercentage,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid late fee type").
			WithHint("Please provide a valid late fee type").
			WithReportableDetails(map[string]any{
				"allowed":       allowed,
				"late_fee_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
