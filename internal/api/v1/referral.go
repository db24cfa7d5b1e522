package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/monetize/internal/api/dto"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
	"github.com/courseforge/monetize/internal/service"
)

type ReferralHandler struct {
	referralService service.ReferralService
	logger          *logger.Logger
}

func NewReferralHandler(referralService service.ReferralService, logger *logger.Logger) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		logger:          logger,
	}
}

// @Summary Create a referral program
// @Description Creates a referral program for a course
// @Tags Referrals
// @Accept json
// @Produce json
// @Param program body dto.CreateReferralProgramRequest true "Program request"
// @Success 201 {object} dto.ReferralProgramResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs [post]
func (h *ReferralHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateReferralProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.CreateProgram(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Get a referral program by ID
// @Description Retrieves a referral program by ID
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.ReferralProgramResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs/{id} [get]
func (h *ReferralHandler) GetProgram(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("program ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.GetProgram(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List referral programs for a course
// @Description Lists all referral programs attached to a course
// @Tags Referrals
// @Accept json
// @Produce json
// @Param course_id query string true "Course ID"
// @Success 200 {array} dto.ReferralProgramResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs [get]
func (h *ReferralHandler) ListPrograms(c *gin.Context) {
	courseID := c.Query("course_id")
	if courseID == "" {
		c.Error(ierr.NewError("course_id is required").
			WithHint("Provide the course to list programs for").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.ListProgramsByCourse(c.Request.Context(), courseID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Update a referral program
// @Description Updates a referral program by ID
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body dto.UpdateReferralProgramRequest true "Program update request"
// @Success 200 {object} dto.ReferralProgramResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs/{id} [put]
func (h *ReferralHandler) UpdateProgram(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("program ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.UpdateReferralProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.UpdateProgram(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Delete a referral program
// @Description Deletes a referral program by ID
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs/{id} [delete]
func (h *ReferralHandler) DeleteProgram(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("program ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.referralService.DeleteProgram(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Mark a program as the course default
// @Description Makes the program the single default for its course
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param course_id query string true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs/{id}/default [post]
func (h *ReferralHandler) SetDefaultProgram(c *gin.Context) {
	id := c.Param("id")
	courseID := c.Query("course_id")
	if id == "" || courseID == "" {
		c.Error(ierr.NewError("program ID and course_id are required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.referralService.SetDefaultProgram(c.Request.Context(), courseID, id); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "program marked as default"})
}

// @Summary Register a referral
// @Description Registers a referred user entering the funnel
// @Tags Referrals
// @Accept json
// @Produce json
// @Param referral body dto.CreateReferralRequest true "Referral request"
// @Success 201 {object} dto.ReferralResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referrals [post]
func (h *ReferralHandler) CreateReferral(c *gin.Context) {
	var req dto.CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.CreateReferral(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// @Summary Convert a referral
// @Description Marks the referee as converted and grants the referee reward
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Referral ID"
// @Success 200 {object} dto.ConvertReferralResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referrals/{id}/convert [post]
func (h *ReferralHandler) ConvertReferral(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("referral ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.ConvertReferral(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Complete a referral's vesting
// @Description Moves a vested referral to rewarded and accrues referrer points
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Referral ID"
// @Success 200 {object} dto.ReferralResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referrals/{id}/complete-vesting [post]
func (h *ReferralHandler) CompleteVesting(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("referral ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.CompleteVesting(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Forfeit a referral
// @Description Forfeits a referral before its reward vests
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Referral ID"
// @Success 200 {object} dto.ReferralResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referrals/{id}/forfeit [post]
func (h *ReferralHandler) ForfeitReferral(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("referral ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.ForfeitReferral(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Get a referrer's progress in a program
// @Description Reports rewarded count, current tier and points standing
// @Tags Referrals
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param referrer_id query string true "Referrer ID"
// @Success 200 {object} dto.ReferrerProgressResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /referral-programs/{id}/progress [get]
func (h *ReferralHandler) ReferrerProgress(c *gin.Context) {
	id := c.Param("id")
	referrerID := c.Query("referrer_id")
	if id == "" || referrerID == "" {
		c.Error(ierr.NewError("program ID and referrer_id are required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	response, err := h.referralService.ReferrerProgress(c.Request.Context(), id, referrerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
