package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/plan"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
	"github.com/courseforge/monetize/internal/validator"
)

// CreatePlanRequest represents the request to create a payment plan.
// Exactly one config block must be set and it must match the plan type.
type CreatePlanRequest struct {
	CourseID  string         `json:"course_id" validate:"required"`
	Name      string         `json:"name" validate:"required"`
	Type      types.PlanType `json:"type" validate:"required"`
	Currency  string         `json:"currency" validate:"required"`
	IsDefault bool           `json:"is_default"`

	Subscription *SubscriptionConfigRequest `json:"subscription,omitempty"`
	Upfront      *UpfrontConfigRequest      `json:"upfront,omitempty"`
	Invoice      *InvoiceConfigRequest      `json:"invoice,omitempty"`
	Donation     *DonationConfigRequest     `json:"donation,omitempty"`
	Free         *FreeConfigRequest         `json:"free,omitempty"`
}

// SubscriptionConfigRequest mirrors plan.SubscriptionConfig on the wire
type SubscriptionConfigRequest struct {
	Tiers           []TierPriceRequest      `json:"tiers,omitempty"`
	CustomIntervals []CustomIntervalRequest `json:"custom_intervals,omitempty"`
	AutoRenew       bool                    `json:"auto_renew"`
}

type TierPriceRequest struct {
	Name    types.SubscriptionTierName `json:"name" validate:"required"`
	Enabled bool                       `json:"enabled"`
	Price   string                     `json:"price"`
}

type CustomIntervalRequest struct {
	Value int                      `json:"value" validate:"required,min=1"`
	Unit  types.CustomIntervalUnit `json:"unit" validate:"required"`
	Price string                   `json:"price"`
}

// UpfrontConfigRequest mirrors plan.UpfrontConfig on the wire
type UpfrontConfigRequest struct {
	FullPrice           decimal.Decimal          `json:"full_price"`
	InstallmentsEnabled bool                     `json:"installments_enabled"`
	InstallmentPlans    []InstallmentPlanRequest `json:"installment_plans,omitempty"`
	LateFee             *LateFeeRequest          `json:"late_fee,omitempty"`
}

type InstallmentPlanRequest struct {
	NumberOfPayments int             `json:"number_of_payments" validate:"required,min=2"`
	AmountPerPayment decimal.Decimal `json:"amount_per_payment"`
	DueDates         []time.Time     `json:"due_dates"`
}

type LateFeeRequest struct {
	Type            types.LateFeeType `json:"type" validate:"required"`
	FixedAmount     decimal.Decimal   `json:"fixed_amount,omitempty"`
	Percentage      decimal.Decimal   `json:"percentage,omitempty"`
	GracePeriodDays int               `json:"grace_period_days"`
}

// InvoiceConfigRequest mirrors plan.InvoiceConfig on the wire
type InvoiceConfigRequest struct {
	BaseAmount           decimal.Decimal       `json:"base_amount"`
	BillingInterval      types.BillingInterval `json:"billing_interval" validate:"required"`
	GracePeriodDays      int                   `json:"grace_period_days"`
	LateFeePercentage    decimal.Decimal       `json:"late_fee_percentage"`
	AllowStudentRequests bool                  `json:"allow_student_requests"`
}

// DonationConfigRequest mirrors plan.DonationConfig on the wire
type DonationConfigRequest struct {
	SuggestedAmounts  []decimal.Decimal `json:"suggested_amounts,omitempty"`
	AllowCustomAmount bool              `json:"allow_custom_amount"`
	MinimumAmount     decimal.Decimal   `json:"minimum_amount"`
}

// FreeConfigRequest mirrors plan.FreeConfig on the wire
type FreeConfigRequest struct {
	ValidityDays int `json:"validity_days" validate:"required,min=1"`
}

// Validate validates the CreatePlanRequest
func (r *CreatePlanRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.CourseID == "" {
		return ierr.NewError("course_id is required").
			WithHint("Please provide the owning course").
			Mark(ierr.ErrValidation)
	}
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Please provide a plan name").
			Mark(ierr.ErrValidation)
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if err := types.ValidateCurrencyCode(r.Currency); err != nil {
		return err
	}
	if err := r.validateConfigPresence(); err != nil {
		return err
	}
	return nil
}

// validateConfigPresence ensures the config block matching the plan type
// is present and no other block is set
func (r *CreatePlanRequest) validateConfigPresence() error {
	blocks := map[types.PlanType]bool{
		types.PlanTypeSubscription: r.Subscription != nil,
		types.PlanTypeUpfront:      r.Upfront != nil,
		types.PlanTypeInvoice:      r.Invoice != nil,
		types.PlanTypeDonation:     r.Donation != nil,
		types.PlanTypeFree:         r.Free != nil,
	}

	if !blocks[r.Type] {
		return ierr.NewError("plan config is missing").
			WithHintf("A %s plan requires its %s config block", r.Type, r.Type).
			Mark(ierr.ErrValidation)
	}

	for planType, present := range blocks {
		if present && planType != r.Type {
			return ierr.NewError("conflicting plan config").
				WithHintf("A %s plan cannot carry a %s config block", r.Type, planType).
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ToPlan builds the domain payment plan from the request
func (r *CreatePlanRequest) ToPlan(ctx context.Context) (*plan.PaymentPlan, error) {
	config, err := r.toConfig()
	if err != nil {
		return nil, err
	}

	return &plan.PaymentPlan{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_PLAN),
		CourseID:  r.CourseID,
		Name:      r.Name,
		Type:      r.Type,
		Currency:  types.NormalizeCurrency(r.Currency),
		IsDefault: r.IsDefault,
		Config:    config,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}, nil
}

func (r *CreatePlanRequest) toConfig() (plan.PlanConfig, error) {
	currency := types.NormalizeCurrency(r.Currency)

	switch r.Type {
	case types.PlanTypeSubscription:
		cfg := plan.SubscriptionConfig{AutoRenew: r.Subscription.AutoRenew}
		for _, t := range r.Subscription.Tiers {
			if err := t.Name.Validate(); err != nil {
				return nil, err
			}
			cfg.Tiers = append(cfg.Tiers, plan.TierPrice{
				Name:    t.Name,
				Enabled: t.Enabled,
				Price:   t.Price,
			})
		}
		for _, ci := range r.Subscription.CustomIntervals {
			if err := ci.Unit.Validate(); err != nil {
				return nil, err
			}
			if ci.Value < 1 {
				return nil, ierr.NewError("custom interval value must be at least 1").
					WithHint("Please provide a positive interval length").
					Mark(ierr.ErrValidation)
			}
			cfg.CustomIntervals = append(cfg.CustomIntervals, plan.CustomInterval{
				Value: ci.Value,
				Unit:  ci.Unit,
				Price: ci.Price,
			})
		}
		return cfg, nil

	case types.PlanTypeUpfront:
		cfg := plan.UpfrontConfig{
			FullPrice:           types.NewMoney(r.Upfront.FullPrice, currency),
			InstallmentsEnabled: r.Upfront.InstallmentsEnabled,
			LateFee:             plan.LateFeePolicy{Type: types.LateFeeTypeNone},
		}
		for _, inst := range r.Upfront.InstallmentPlans {
			if inst.NumberOfPayments < 2 {
				return nil, ierr.NewError("installment plans need at least 2 payments").
					WithHint("Use a single upfront payment instead of a 1-payment installment plan").
					Mark(ierr.ErrValidation)
			}
			cfg.InstallmentPlans = append(cfg.InstallmentPlans, plan.InstallmentPlan{
				ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INSTALLMENT_PLAN),
				NumberOfPayments: inst.NumberOfPayments,
				AmountPerPayment: types.NewMoney(inst.AmountPerPayment, currency),
				DueDates:         inst.DueDates,
			})
		}
		if r.Upfront.LateFee != nil {
			if err := r.Upfront.LateFee.Type.Validate(); err != nil {
				return nil, err
			}
			cfg.LateFee = plan.LateFeePolicy{
				Type:            r.Upfront.LateFee.Type,
				FixedAmount:     types.NewMoney(r.Upfront.LateFee.FixedAmount, currency),
				Percentage:      r.Upfront.LateFee.Percentage,
				GracePeriodDays: r.Upfront.LateFee.GracePeriodDays,
			}
		}
		return cfg, nil

	case types.PlanTypeInvoice:
		if err := r.Invoice.BillingInterval.Validate(); err != nil {
			return nil, err
		}
		return plan.InvoiceConfig{
			BaseAmount:           types.NewMoney(r.Invoice.BaseAmount, currency),
			BillingInterval:      r.Invoice.BillingInterval,
			GracePeriodDays:      r.Invoice.GracePeriodDays,
			LateFeePercentage:    r.Invoice.LateFeePercentage,
			AllowStudentRequests: r.Invoice.AllowStudentRequests,
		}, nil

	case types.PlanTypeDonation:
		cfg := plan.DonationConfig{
			AllowCustomAmount: r.Donation.AllowCustomAmount,
			MinimumAmount:     types.NewMoney(r.Donation.MinimumAmount, currency),
		}
		for _, amount := range r.Donation.SuggestedAmounts {
			cfg.SuggestedAmounts = append(cfg.SuggestedAmounts, types.NewMoney(amount, currency))
		}
		return cfg, nil

	case types.PlanTypeFree:
		return plan.FreeConfig{ValidityDays: r.Free.ValidityDays}, nil

	default:
		return nil, ierr.NewError("unsupported plan type").
			WithHint("Please provide a valid plan type").
			Mark(ierr.ErrValidation)
	}
}

// UpdatePlanRequest represents the request to update a payment plan. The
// config, when present, fully replaces the existing one.
type UpdatePlanRequest struct {
	Name *string `json:"name,omitempty"`

	Subscription *SubscriptionConfigRequest `json:"subscription,omitempty"`
	Upfront      *UpfrontConfigRequest      `json:"upfront,omitempty"`
	Invoice      *InvoiceConfigRequest      `json:"invoice,omitempty"`
	Donation     *DonationConfigRequest     `json:"donation,omitempty"`
	Free         *FreeConfigRequest         `json:"free,omitempty"`
}

// Validate validates the UpdatePlanRequest
func (r *UpdatePlanRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ierr.NewError("name cannot be empty").
			WithHint("Please provide a plan name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ApplyTo applies the requested changes onto an existing plan. The new
// config block must match the plan's type; type changes are not allowed.
func (r *UpdatePlanRequest) ApplyTo(p *plan.PaymentPlan) error {
	if r.Name != nil {
		p.Name = *r.Name
	}

	create := CreatePlanRequest{
		CourseID:     p.CourseID,
		Name:         p.Name,
		Type:         p.Type,
		Currency:     p.Currency,
		Subscription: r.Subscription,
		Upfront:      r.Upfront,
		Invoice:      r.Invoice,
		Donation:     r.Donation,
		Free:         r.Free,
	}

	if r.Subscription == nil && r.Upfront == nil && r.Invoice == nil &&
		r.Donation == nil && r.Free == nil {
		return nil
	}

	if err := create.validateConfigPresence(); err != nil {
		return err
	}

	config, err := create.toConfig()
	if err != nil {
		return err
	}
	p.Config = config
	return nil
}

// PlanResponse represents a payment plan in API responses
type PlanResponse struct {
	*plan.PaymentPlan
}
