package types

import (
	"github.com/samber/lo"

	ierr "github.com/courseforge/monetize/internal/errors"
)

// ErrorKind classifies a field-level configuration problem. Validators
// return these as descriptors; nothing in the engine panics or throws.
type ErrorKind string

const (
	// ErrorKindMissingRequiredField means a required value is absent or empty
	ErrorKindMissingRequiredField ErrorKind = "missing_required_field"
	// ErrorKindOutOfRange means a numeric value is outside its legal range
	ErrorKindOutOfRange ErrorKind = "out_of_range"
	// ErrorKindChronologyViolation means dates are not strictly increasing
	// or the first date is in the past
	ErrorKindChronologyViolation ErrorKind = "chronology_violation"
	// ErrorKindSizeMismatch means a collection's length disagrees with its
	// declared count
	ErrorKindSizeMismatch ErrorKind = "size_mismatch"
	// ErrorKindSanityBoundExceeded means the installment total is above the
	// 1.5x full price guard
	ErrorKindSanityBoundExceeded ErrorKind = "sanity_bound_exceeded"
	// ErrorKindNoActivePlan means no enabled and priced tier exists, or no
	// payment model is selected at all
	ErrorKindNoActivePlan ErrorKind = "no_active_plan"
	// ErrorKindDivisionGuardViolation means a points divisor is not positive
	ErrorKindDivisionGuardViolation ErrorKind = "division_guard_violation"
	// ErrorKindRedemptionIneligible means a coupon cannot currently be redeemed
	ErrorKindRedemptionIneligible ErrorKind = "redemption_ineligible"
	// ErrorKindDuplicateThreshold means two referrer tiers share a referral
	// count threshold
	ErrorKindDuplicateThreshold ErrorKind = "duplicate_threshold"
)

func (k ErrorKind) String() string {
	return string(k)
}

func (k ErrorKind) Validate() error {
	allowed := []ErrorKind{
		ErrorKindMissingRequiredField,
		ErrorKindOutOfRange,
		ErrorKindChronologyViolation,
		ErrorKindSizeMismatch,
		ErrorKindSanityBoundExceeded,
		ErrorKindNoActivePlan,
		ErrorKindDivisionGuardViolation,
		ErrorKindRedemptionIneligible,
		ErrorKindDuplicateThreshold,
	}
	if !lo.Contains(allowed, k) {
		return ierr.NewError("invalid validation error kind").
			WithHint("Please provide a valid validation error kind").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"kind":    k,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FieldError is a single field-scoped validation finding
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationResult collects the findings of one validation pass. Errors
// block publishing; warnings do not.
type ValidationResult struct {
	Errors   []FieldError `json:"errors"`
	Warnings []FieldError `json:"warnings,omitempty"`
}

// NewValidationResult returns an empty, passing result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{}
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(field string, kind ErrorKind, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Kind: kind, Message: message})
}

func (r *ValidationResult) AddWarning(field string, kind ErrorKind, message string) {
	r.Warnings = append(r.Warnings, FieldError{Field: field, Kind: kind, Message: message})
}

// Merge folds another result's findings into r
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// FirstError returns the first recorded error, or nil when valid. Useful
// for validators with a documented first-failure-wins ordering.
func (r *ValidationResult) FirstError() *FieldError {
	if len(r.Errors) == 0 {
		return nil
	}
	return &r.Errors[0]
}

// ErrorsByField indexes findings by field name for inline form rendering.
// The first finding per field wins.
func (r *ValidationResult) ErrorsByField() map[string]FieldError {
	byField := make(map[string]FieldError, len(r.Errors))
	for _, fe := range r.Errors {
		if _, ok := byField[fe.Field]; !ok {
			byField[fe.Field] = fe
		}
	}
	return byField
}

// ConfigurationStatus is the display status derived from a full
// configuration validation pass
type ConfigurationStatus string

const (
	ConfigurationStatusComplete   ConfigurationStatus = "complete"
	ConfigurationStatusIncomplete ConfigurationStatus = "incomplete"
	ConfigurationStatusError      ConfigurationStatus = "error"
)

func (s ConfigurationStatus) String() string {
	return string(s)
}
