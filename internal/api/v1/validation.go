package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/monetize/internal/api/dto"
	"github.com/courseforge/monetize/internal/domain/coupon"
	"github.com/courseforge/monetize/internal/domain/plan"
	"github.com/courseforge/monetize/internal/domain/referral"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
	"github.com/courseforge/monetize/internal/service"
)

type ValidationHandler struct {
	validationService service.PricingValidationService
	planService       service.PlanService
	couponService     service.CouponService
	referralService   service.ReferralService
	logger            *logger.Logger
}

func NewValidationHandler(
	validationService service.PricingValidationService,
	planService service.PlanService,
	couponService service.CouponService,
	referralService service.ReferralService,
	logger *logger.Logger,
) *ValidationHandler {
	return &ValidationHandler{
		validationService: validationService,
		planService:       planService,
		couponService:     couponService,
		referralService:   referralService,
		logger:            logger,
	}
}

// @Summary Validate a course's payment configuration
// @Description Runs every configuration check and returns the merged report
// @Tags Validation
// @Accept json
// @Produce json
// @Param config body dto.ValidateConfigurationRequest true "Validation request"
// @Success 200 {object} service.ConfigurationReport
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /validate [post]
func (h *ValidationHandler) ValidateConfiguration(c *gin.Context) {
	var req dto.ValidateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	ctx := c.Request.Context()

	planResponses, err := h.planService.ListPlansByCourse(ctx, req.CourseID)
	if err != nil {
		c.Error(err)
		return
	}
	plans := make([]*plan.PaymentPlan, len(planResponses))
	for i, r := range planResponses {
		plans[i] = r.PaymentPlan
	}

	couponResponses, err := h.couponService.ListCoupons(ctx)
	if err != nil {
		c.Error(err)
		return
	}
	coupons := make([]*coupon.DiscountCoupon, len(couponResponses))
	for i, r := range couponResponses {
		coupons[i] = r.DiscountCoupon
	}

	programResponses, err := h.referralService.ListProgramsByCourse(ctx, req.CourseID)
	if err != nil {
		c.Error(err)
		return
	}
	programs := make([]*referral.ReferralProgram, len(programResponses))
	for i, r := range programResponses {
		programs[i] = r.ReferralProgram
	}

	report := h.validationService.ValidateConfiguration(ctx, service.CourseMonetizationConfig{
		CourseID:                 req.CourseID,
		EnrollmentType:           req.EnrollmentType,
		Plans:                    plans,
		DonationsEnabled:         req.DonationsEnabled,
		SuggestedDonationAmounts: req.SuggestedDonationAmounts,
		Coupons:                  coupons,
		ReferralPrograms:         programs,
	})

	c.JSON(http.StatusOK, report)
}
