package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/middleware"
	"github.com/inspire-studio/studio-api/internal/service"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// FinanceHandler exposes the monthly report and projection endpoints.
type FinanceHandler struct {
	finance *service.FinanceService
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// MonthlyReport godoc
// @Summary Monthly financial report
// @Description Revenue, expenses, settlement per member and cash profit for one competence month
// @Tags Finance
// @Produce json
// @Param month query int false "Month (default current)"
// @Param year query int false "Year (default current)"
// @Success 200 {object} response.Envelope
// @Router /finance/report [get]
func (h *FinanceHandler) MonthlyReport(c *gin.Context) {
	start := time.Now()
	month, year, err := competenceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, cacheHit, err := h.finance.MonthlyReport(c.Request.Context(), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, report, nil, meta)
}

// Projection godoc
// @Summary Revenue and expense projection
// @Description Twelve month forward projection from the given competence month
// @Tags Finance
// @Produce json
// @Param month query int false "Starting month (default current)"
// @Param year query int false "Starting year (default current)"
// @Success 200 {object} response.Envelope
// @Router /finance/projection [get]
func (h *FinanceHandler) Projection(c *gin.Context) {
	month, year, err := competenceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	projection, err := h.finance.Projection(c.Request.Context(), month, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection, nil)
}
