package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// ReserveHandler exposes emergency reserve endpoints.
type ReserveHandler struct {
	reserve *service.ReserveService
}

// NewReserveHandler constructs ReserveHandler.
func NewReserveHandler(reserve *service.ReserveService) *ReserveHandler {
	return &ReserveHandler{reserve: reserve}
}

// Record godoc
// @Summary Record reserve movement
// @Description Registers a deposit or withdrawal; withdrawals cannot overdraw a product
// @Tags Reserve
// @Accept json
// @Produce json
// @Param payload body service.ReserveMovementRequest true "Movement payload"
// @Success 201 {object} response.Envelope
// @Router /reserve/movements [post]
func (h *ReserveHandler) Record(c *gin.Context) {
	var req service.ReserveMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid movement payload"))
		return
	}
	movement, err := h.reserve.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, movement)
}

// Movements godoc
// @Summary List reserve movements
// @Tags Reserve
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reserve/movements [get]
func (h *ReserveHandler) Movements(c *gin.Context) {
	movements, err := h.reserve.Movements(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, movements, nil)
}

// Overview godoc
// @Summary Reserve overview
// @Description Balances per product and coverage against the fixed cost target
// @Tags Reserve
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reserve [get]
func (h *ReserveHandler) Overview(c *gin.Context) {
	overview, err := h.reserve.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Projection godoc
// @Summary Reserve yield projection
// @Description Projects the reserve balance forward using each product's CDI share
// @Tags Reserve
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reserve/projection [get]
func (h *ReserveHandler) Projection(c *gin.Context) {
	projection, err := h.reserve.Projection(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projection, nil)
}
