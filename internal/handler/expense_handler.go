package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/models"
	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// ExpenseHandler exposes expense endpoints.
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler constructs ExpenseHandler.
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create godoc
// @Summary Create expense
// @Description Creates an expense, expanding recurring entries and installment splits into per-month rows
// @Tags Expenses
// @Accept json
// @Produce json
// @Param payload body service.CreateExpenseRequest true "Expense payload"
// @Success 201 {object} response.Envelope
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid expense payload"))
		return
	}
	expenses, err := h.expenses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, expenses)
}

// List godoc
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param month query int false "Competence month"
// @Param year query int false "Competence year"
// @Param status query string false "Comma separated statuses (PENDING,PARTIAL,PAID)"
// @Success 200 {object} response.Envelope
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	month, year, err := competenceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ExpenseFilter{CompetenceMonth: month, CompetenceYear: year}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				filter.Statuses = append(filter.Statuses, models.ExpenseStatus(part))
			}
		}
	}
	expenses, err := h.expenses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expenses, nil)
}

// Settle godoc
// @Summary Settle expense
// @Description Applies a payment against an expense, moving it to PARTIAL or PAID
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path int true "Expense ID"
// @Param payload body service.SettleExpenseRequest true "Settlement payload"
// @Success 200 {object} response.Envelope
// @Router /expenses/{id}/settle [post]
func (h *ExpenseHandler) Settle(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SettleExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settlement payload"))
		return
	}
	expense, err := h.expenses.Settle(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expense, nil)
}
