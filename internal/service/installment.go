package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/types"
)

// DefaultInstallmentSanityMultiplier caps the installment total relative to
// the full price. It is a guard against mis-entered installment pricing,
// not a correctness bound.
const DefaultInstallmentSanityMultiplier = 1.5

// InstallmentService builds and validates due-date schedules and applies
// late-fee policy for one-time payment plans. All operations are pure.
type InstallmentService interface {
	// GenerateSchedule produces numberOfPayments due dates, each one
	// calendar month after the previous, starting at startDate.
	GenerateSchedule(numberOfPayments int, startDate time.Time) []time.Time

	// Validate checks an installment plan against its owning full price.
	// Checks run in a documented order and stop at the first failure.
	Validate(installment plan.InstallmentPlan, fullPrice types.Money) *types.ValidationResult

	// ValidateLateFee cross-checks the fee fields against the selected
	// fee type.
	ValidateLateFee(policy plan.LateFeePolicy) *types.ValidationResult

	// ApplyLateFee returns the amount due after the late-fee policy is
	// applied for a payment daysLate days overdue.
	ApplyLateFee(amountDue types.Money, policy plan.LateFeePolicy, daysLate int) types.Money
}

type installmentService struct {
	ServiceParams
}

// NewInstallmentService creates a new installment scheduling service
func NewInstallmentService(params ServiceParams) InstallmentService {
	return &installmentService{
		ServiceParams: params,
	}
}

func (s *installmentService) GenerateSchedule(numberOfPayments int, startDate time.Time) []time.Time {
	if numberOfPayments <= 0 {
		return nil
	}

	dates := make([]time.Time, numberOfPayments)
	for i := 0; i < numberOfPayments; i++ {
		dates[i] = types.AddClampedDate(startDate, 0, i, 0)
	}
	return dates
}

func (s *installmentService) Validate(installment plan.InstallmentPlan, fullPrice types.Money) *types.ValidationResult {
	result := types.NewValidationResult()

	// 1. Amount per payment must be positive
	if !installment.AmountPerPayment.IsPositive() {
		result.AddError("installmentAmount", types.ErrorKindOutOfRange,
			"Installment amount must be greater than zero")
		return result
	}

	// 2. Every due-date slot populated and count matching the declared
	// number of payments
	if len(installment.DueDates) != installment.NumberOfPayments {
		result.AddError("installmentDates", types.ErrorKindSizeMismatch,
			fmt.Sprintf("Expected %d due dates, got %d",
				installment.NumberOfPayments, len(installment.DueDates)))
		return result
	}
	for i, d := range installment.DueDates {
		if d.IsZero() {
			result.AddError("installmentDates", types.ErrorKindMissingRequiredField,
				fmt.Sprintf("Due date %d is not set", i+1))
			return result
		}
	}

	// 3. Dates strictly increasing
	for i := 1; i < len(installment.DueDates); i++ {
		if !installment.DueDates[i].After(installment.DueDates[i-1]) {
			result.AddError("installmentDates", types.ErrorKindChronologyViolation,
				"Due dates must be strictly increasing")
			return result
		}
	}

	// 4. First due date not in the past, comparing calendar days only
	if types.IsDateBefore(installment.DueDates[0], time.Now()) {
		result.AddError("installmentDates", types.ErrorKindChronologyViolation,
			"First due date cannot be in the past")
		return result
	}

	// 5. Sanity guard on the installment total
	ceiling := fullPrice.Amount.Mul(decimal.NewFromFloat(s.sanityMultiplier()))
	if installment.Total().Amount.GreaterThan(ceiling) {
		result.AddError("installmentTotal", types.ErrorKindSanityBoundExceeded,
			fmt.Sprintf("Installment total %s exceeds %.1fx the full price",
				installment.Total().Amount.String(), s.sanityMultiplier()))
		return result
	}

	return result
}

func (s *installmentService) ValidateLateFee(policy plan.LateFeePolicy) *types.ValidationResult {
	result := types.NewValidationResult()

	switch policy.Type {
	case types.LateFeeTypeFixed:
		if !policy.FixedAmount.IsPositive() {
			result.AddError("lateFee", types.ErrorKindOutOfRange,
				"Fixed late fee requires a positive amount")
		}
	case types.LateFeeTypePercentage:
		if !policy.Percentage.IsPositive() || policy.Percentage.GreaterThan(percentCeiling) {
			result.AddError("lateFee", types.ErrorKindOutOfRange,
				"Late fee percentage must be between 0 and 100")
		}
	}

	if policy.GracePeriodDays < 0 {
		result.AddError("lateFee", types.ErrorKindOutOfRange,
			"Grace period cannot be negative")
	}

	return result
}

func (s *installmentService) ApplyLateFee(amountDue types.Money, policy plan.LateFeePolicy, daysLate int) types.Money {
	if policy.Type == types.LateFeeTypeNone || daysLate <= policy.GracePeriodDays {
		return amountDue
	}

	switch policy.Type {
	case types.LateFeeTypeFixed:
		return amountDue.Add(policy.FixedAmount)
	case types.LateFeeTypePercentage:
		return amountDue.Add(amountDue.MulPercent(policy.Percentage))
	default:
		return amountDue
	}
}

func (s *installmentService) sanityMultiplier() float64 {
	if s.Config != nil && s.Config.Pricing.InstallmentSanityMultiplier > 0 {
		return s.Config.Pricing.InstallmentSanityMultiplier
	}
	return DefaultInstallmentSanityMultiplier
}
