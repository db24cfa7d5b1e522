package dto

import (
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/types"
	"github.com/courseforge/monetize/internal/validator"
)

// ValidateConfigurationRequest asks for a full validation pass over a
// course's stored payment configuration. Plans, coupons and referral
// programs are loaded from the course itself; the request carries only
// the top-level enrollment and donation settings the UI holds.
type ValidateConfigurationRequest struct {
	CourseID                 string               `json:"course_id" validate:"required"`
	EnrollmentType           types.EnrollmentType `json:"enrollment_type" validate:"required"`
	DonationsEnabled         bool                 `json:"donations_enabled"`
	SuggestedDonationAmounts string               `json:"suggested_donation_amounts,omitempty"`
}

// Validate validates the ValidateConfigurationRequest
func (r *ValidateConfigurationRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.CourseID == "" {
		return ierr.NewError("course_id is required").
			WithHint("Please provide the course to validate").
			Mark(ierr.ErrValidation)
	}
	if err := r.EnrollmentType.Validate(); err != nil {
		return err
	}
	return nil
}
