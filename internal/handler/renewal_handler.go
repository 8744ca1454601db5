package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// RenewalHandler exposes contract renewal endpoints.
type RenewalHandler struct {
	renewals *service.RenewalService
}

// NewRenewalHandler constructs RenewalHandler.
func NewRenewalHandler(renewals *service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewals: renewals}
}

// Outlook godoc
// @Summary Contract expiry outlook
// @Description Lists active contracts that are expired or expiring within the warning window
// @Tags Renewals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /renewals/outlook [get]
func (h *RenewalHandler) Outlook(c *gin.Context) {
	outlook, err := h.renewals.Outlook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outlook, nil)
}

// Renew godoc
// @Summary Renew contract
// @Description Starts a new cycle, optionally switching plan, and records it in the history
// @Tags Renewals
// @Accept json
// @Produce json
// @Param id path int true "Enrollment ID"
// @Param payload body service.RenewRequest true "Renew payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/renew [post]
func (h *RenewalHandler) Renew(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid renew payload"))
		return
	}
	enrollment, err := h.renewals.Renew(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// History godoc
// @Summary Renewal history for an enrollment
// @Tags Renewals
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/renewals [get]
func (h *RenewalHandler) History(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	history, err := h.renewals.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

// YearSummary godoc
// @Summary Contract totals for a year
// @Tags Renewals
// @Produce json
// @Param year query int false "Year (default current)"
// @Success 200 {object} response.Envelope
// @Router /renewals/summary [get]
func (h *RenewalHandler) YearSummary(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
			return
		}
		year = parsed
	}
	summary, err := h.renewals.YearSummary(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
