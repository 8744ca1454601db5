package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// FeeRateHandler exposes the card fee rate table.
type FeeRateHandler struct {
	fees *service.FeeService
}

// NewFeeRateHandler constructs FeeRateHandler.
func NewFeeRateHandler(fees *service.FeeService) *FeeRateHandler {
	return &FeeRateHandler{fees: fees}
}

// List godoc
// @Summary List fee rates
// @Tags FeeRates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fee-rates [get]
func (h *FeeRateHandler) List(c *gin.Context) {
	rates, err := h.fees.Rates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rates, nil)
}

// Upsert godoc
// @Summary Create or replace a fee rate
// @Tags FeeRates
// @Accept json
// @Produce json
// @Param payload body service.UpsertFeeRateRequest true "Fee rate payload"
// @Success 200 {object} response.Envelope
// @Router /fee-rates [put]
func (h *FeeRateHandler) Upsert(c *gin.Context) {
	var req service.UpsertFeeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee rate payload"))
		return
	}
	rate, err := h.fees.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rate, nil)
}

// Delete godoc
// @Summary Delete a fee rate
// @Tags FeeRates
// @Produce json
// @Param brand query string true "Card brand"
// @Param type query string true "Transaction type"
// @Param installments query string true "Installment label"
// @Success 204
// @Router /fee-rates [delete]
func (h *FeeRateHandler) Delete(c *gin.Context) {
	brand := c.Query("brand")
	txType := c.Query("type")
	installments := c.Query("installments")
	if brand == "" || txType == "" || installments == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "brand, type and installments are required"))
		return
	}
	if err := h.fees.Remove(c.Request.Context(), brand, txType, installments); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
