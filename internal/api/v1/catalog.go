package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/monetize/internal/domain/catalog"
	ierr "github.com/courseforge/monetize/internal/errors"
	"github.com/courseforge/monetize/internal/logger"
)

// CatalogHandler exposes the read-only course catalog the reward pickers
// in the admin UI browse.
type CatalogHandler struct {
	catalogRepo catalog.Repository
	logger      *logger.Logger
}

func NewCatalogHandler(catalogRepo catalog.Repository, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// @Summary List courses
// @Description Lists all courses in the catalog
// @Tags Catalog
// @Produce json
// @Success 200 {array} catalog.Course
// @Failure 500 {object} ierr.ErrorResponse
// @Router /catalog/courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogRepo.ListCourses(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// @Summary List sessions of a course
// @Description Lists the sessions of a course
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {array} catalog.Session
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /catalog/courses/{id}/sessions [get]
func (h *CatalogHandler) ListSessions(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("course ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	sessions, err := h.catalogRepo.ListSessions(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// @Summary List levels of a session
// @Description Lists the levels of a session
// @Tags Catalog
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} catalog.Level
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /catalog/sessions/{id}/levels [get]
func (h *CatalogHandler) ListLevels(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("session ID is required").
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	levels, err := h.catalogRepo.ListLevels(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, levels)
}
