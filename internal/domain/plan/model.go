package plan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/types"
)

// PaymentPlan represents one way a course can be paid for. A course owns
// its plans exclusively; at most one plan per course is the default.
type PaymentPlan struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	Name      string         `json:"name"`
	Type      types.PlanType `json:"type"`
	Currency  string         `json:"currency"`
	IsDefault bool           `json:"is_default"`
	Config    PlanConfig     `json:"config"`
	types.BaseModel
}

// PlanConfig is the per-type configuration of a payment plan. Exactly one
// concrete case exists per plan type, so a subscription plan can never
// carry installment fields and vice versa.
type PlanConfig interface {
	PlanType() types.PlanType
}

// TierPrice is one of the four fixed subscription intervals. Price is kept
// as the admin entered it; the enabled gate parses it (see the
// subscription catalog service).
type TierPrice struct {
	Name    types.SubscriptionTierName `json:"name"`
	Enabled bool                       `json:"enabled"`
	Price   string                     `json:"price"`
}

// CustomInterval is an admin-defined subscription interval
type CustomInterval struct {
	Value int                      `json:"value"`
	Unit  types.CustomIntervalUnit `json:"unit"`
	Price string                   `json:"price"`
}

// SubscriptionConfig configures a recurring subscription plan
type SubscriptionConfig struct {
	Tiers           []TierPrice      `json:"tiers"`
	CustomIntervals []CustomInterval `json:"custom_intervals,omitempty"`
	AutoRenew       bool             `json:"auto_renew"`
}

func (SubscriptionConfig) PlanType() types.PlanType { return types.PlanTypeSubscription }

// InstallmentPlan is a due-date schedule splitting an upfront price
type InstallmentPlan struct {
	ID               string      `json:"id"`
	NumberOfPayments int         `json:"number_of_payments"`
	AmountPerPayment types.Money `json:"amount_per_payment"`
	DueDates         []time.Time `json:"due_dates"`
}

// Total returns the amount collected across all installments
func (p InstallmentPlan) Total() types.Money {
	return p.AmountPerPayment.MulInt(p.NumberOfPayments)
}

// LateFeePolicy configures the fee applied once an installment's grace
// period has elapsed. The type selects which of the two fee fields is
// meaningful.
type LateFeePolicy struct {
	Type            types.LateFeeType `json:"type"`
	FixedAmount     types.Money       `json:"fixed_amount,omitempty"`
	Percentage      decimal.Decimal   `json:"percentage,omitempty"`
	GracePeriodDays int               `json:"grace_period_days"`
}

// UpfrontConfig configures a one-time payment plan
type UpfrontConfig struct {
	FullPrice           types.Money       `json:"full_price"`
	InstallmentsEnabled bool              `json:"installments_enabled"`
	InstallmentPlans    []InstallmentPlan `json:"installment_plans,omitempty"`
	LateFee             LateFeePolicy     `json:"late_fee"`
}

func (UpfrontConfig) PlanType() types.PlanType { return types.PlanTypeUpfront }

// InvoiceConfig configures a post-paid, invoiced plan
type InvoiceConfig struct {
	BaseAmount           types.Money           `json:"base_amount"`
	BillingInterval      types.BillingInterval `json:"billing_interval"`
	GracePeriodDays      int                   `json:"grace_period_days"`
	LateFeePercentage    decimal.Decimal       `json:"late_fee_percentage"`
	AllowStudentRequests bool                  `json:"allow_student_requests"`
}

func (InvoiceConfig) PlanType() types.PlanType { return types.PlanTypeInvoice }

// DonationConfig configures a pay-what-you-want plan
type DonationConfig struct {
	SuggestedAmounts  []types.Money `json:"suggested_amounts,omitempty"`
	AllowCustomAmount bool          `json:"allow_custom_amount"`
	MinimumAmount     types.Money   `json:"minimum_amount"`
}

func (DonationConfig) PlanType() types.PlanType { return types.PlanTypeDonation }

// FreeConfig configures free enrollment with a validity window
type FreeConfig struct {
	ValidityDays int `json:"validity_days"`
}

func (FreeConfig) PlanType() types.PlanType { return types.PlanTypeFree }
