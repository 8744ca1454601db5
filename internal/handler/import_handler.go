package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// ImportHandler ingests batches copied from the legacy spreadsheets.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Payments godoc
// @Summary Import legacy payment rows
// @Description Records spreadsheet payment rows, parsing their locale-formatted amounts
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body service.ImportPaymentsRequest true "Legacy payment rows"
// @Success 200 {object} response.Envelope
// @Router /imports/payments [post]
func (h *ImportHandler) Payments(c *gin.Context) {
	var req service.ImportPaymentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}
	summary, err := h.imports.Payments(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// FeeRates godoc
// @Summary Import legacy fee rate rows
// @Description Upserts spreadsheet fee rows, converting percentage cells to fractions
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body service.ImportFeeRatesRequest true "Legacy fee rate rows"
// @Success 200 {object} response.Envelope
// @Router /imports/fee-rates [post]
func (h *ImportHandler) FeeRates(c *gin.Context) {
	var req service.ImportFeeRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}
	summary, err := h.imports.FeeRates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
