package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/models"
	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// EnrollmentHandler exposes member enrollment endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	status      *service.StatusService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, status *service.StatusService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, status: status}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param status query string false "Filter by status"
// @Param plan query string false "Filter by plan name"
// @Param search query string false "Search by member name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.Status = models.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	filter.PlanName = strings.TrimSpace(c.Query("plan"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Get godoc
// @Summary Get enrollment detail
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.enrollments.Find(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Register godoc
// @Summary Register member
// @Description Creates an enrollment and back-fills its renewal history up to the current cycle
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.RegisterMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Register(c *gin.Context) {
	var req service.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}
	enrollment, err := h.enrollments.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Update godoc
// @Summary Update enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.UpdateMemberRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [patch]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	enrollment, err := h.enrollments.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Freeze godoc
// @Summary Freeze enrollment
// @Description Marks an active enrollment as frozen from the given date
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param at query string false "Freeze date (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/freeze [post]
func (h *EnrollmentHandler) Freeze(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	at, err := dateQuery(c, "at")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.status.Freeze(c.Request.Context(), id, at)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Reactivate godoc
// @Summary Reactivate enrollment
// @Description Ends a freeze and pushes the cycle start forward by the frozen days
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param at query string false "Reactivation date (YYYY-MM-DD, default today)"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/reactivate [post]
func (h *EnrollmentHandler) Reactivate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	at, err := dateQuery(c, "at")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, frozenDays, err := h.status.Reactivate(c.Request.Context(), id, at)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil, map[string]interface{}{"frozen_days": frozenDays})
}

// Deactivate godoc
// @Summary Deactivate enrollment
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/deactivate [post]
func (h *EnrollmentHandler) Deactivate(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.status.Deactivate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Cancel godoc
// @Summary Cancel enrollment
// @Description Cancels the contract; the record is kept for reporting
// @Tags Enrollments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/cancel [post]
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.status.Cancel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
