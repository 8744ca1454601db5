package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type expenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	FindByID(ctx context.Context, id int64) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
}

// CreateExpenseRequest describes a new account payable. Installments above
// one split the total across consecutive competence months; Recurring
// provisions the same monthly amount for the configured horizon instead.
type CreateExpenseRequest struct {
	Description     string                 `json:"description" validate:"required"`
	TotalAmount     float64                `json:"total_amount" validate:"required,gt=0"`
	CompetenceMonth int                    `json:"competence_month" validate:"required,min=1,max=12"`
	CompetenceYear  int                    `json:"competence_year" validate:"required,min=2000"`
	Category        models.ExpenseCategory `json:"category" validate:"required,oneof=FIXED VARIABLE ONE_OFF"`
	Installments    int                    `json:"installments" validate:"min=0,max=48"`
	Recurring       bool                   `json:"recurring"`
	DueDate         *time.Time             `json:"due_date"`
	Method          string                 `json:"method"`
}

// SettleExpenseRequest records money paid against a provisioned expense.
type SettleExpenseRequest struct {
	Amount float64    `json:"amount" validate:"required,gt=0"`
	PaidAt *time.Time `json:"paid_at"`
	Method string     `json:"method"`
}

// ExpenseService provisions and settles the studio's accounts payable.
type ExpenseService struct {
	repo            expenseRepository
	validator       *validator.Validate
	logger          *zap.Logger
	recurringMonths int
	settledEpsilon  float64
	now             func() time.Time
}

// NewExpenseService constructs ExpenseService. recurringMonths is the horizon
// a recurring bill is provisioned for.
func NewExpenseService(repo expenseRepository, recurringMonths int, settledEpsilon float64, validate *validator.Validate, logger *zap.Logger) *ExpenseService {
	if recurringMonths <= 0 {
		recurringMonths = 12
	}
	if settledEpsilon <= 0 {
		settledEpsilon = 0.01
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		repo:            repo,
		validator:       validate,
		logger:          logger,
		recurringMonths: recurringMonths,
		settledEpsilon:  settledEpsilon,
		now:             time.Now,
	}
}

// Create expands the request into one expense row per competence month and
// persists them all. It returns the created rows in chronological order.
func (s *ExpenseService) Create(ctx context.Context, req CreateExpenseRequest) ([]models.Expense, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}
	if req.Recurring && req.Installments > 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "an expense is either recurring or installment-based, not both")
	}

	rows := expandExpense(req, s.recurringMonths)
	for i := range rows {
		if err := s.repo.Create(ctx, &rows[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create expense")
		}
	}

	s.logger.Info("expense provisioned",
		zap.String("description", req.Description),
		zap.Int("rows", len(rows)),
		zap.Float64("total", req.TotalAmount))
	return rows, nil
}

// expandExpense turns one request into its monthly rows. Installment splits
// are computed in whole cents with the remainder on the last installment, so
// the rows always sum back to the exact total.
func expandExpense(req CreateExpenseRequest, recurringMonths int) []models.Expense {
	cursor := time.Date(req.CompetenceYear, time.Month(req.CompetenceMonth), 1, 0, 0, 0, 0, time.UTC)

	base := models.Expense{
		Description: req.Description,
		Category:    req.Category,
		Status:      models.ExpenseStatusPending,
		Method:      req.Method,
		Recurring:   req.Recurring,
		DueDate:     req.DueDate,
	}

	if req.Recurring {
		rows := make([]models.Expense, 0, recurringMonths)
		for i := 0; i < recurringMonths; i++ {
			row := base
			row.AmountBilled = money.Round(req.TotalAmount)
			row.CompetenceMonth = int(cursor.Month())
			row.CompetenceYear = cursor.Year()
			rows = append(rows, row)
			cursor = AddMonths(cursor, 1)
		}
		return rows
	}

	installments := req.Installments
	if installments <= 1 {
		row := base
		row.AmountBilled = money.Round(req.TotalAmount)
		row.CompetenceMonth = req.CompetenceMonth
		row.CompetenceYear = req.CompetenceYear
		return []models.Expense{row}
	}

	totalCents := int64(math.Round(req.TotalAmount * 100))
	perCents := totalCents / int64(installments)
	lastCents := totalCents - perCents*int64(installments-1)

	rows := make([]models.Expense, 0, installments)
	for i := 0; i < installments; i++ {
		cents := perCents
		if i == installments-1 {
			cents = lastCents
		}
		row := base
		row.Description = fmt.Sprintf("%s (%d/%d)", req.Description, i+1, installments)
		row.AmountBilled = float64(cents) / 100
		row.CompetenceMonth = int(cursor.Month())
		row.CompetenceYear = cursor.Year()
		rows = append(rows, row)
		cursor = AddMonths(cursor, 1)
	}
	return rows
}

// Settle records a payment against an expense and moves its status. Paying
// within a cent of the billed amount counts as fully settled.
func (s *ExpenseService) Settle(ctx context.Context, id int64, req SettleExpenseRequest) (*models.Expense, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settlement payload")
	}

	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "expense not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expense")
	}
	if expense.Status == models.ExpenseStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "expense already settled")
	}

	expense.AmountPaid = money.Round(expense.AmountPaid + req.Amount)
	if req.Method != "" {
		expense.Method = req.Method
	}
	paidAt := dateOnly(s.now())
	if req.PaidAt != nil {
		paidAt = dateOnly(*req.PaidAt)
	}
	expense.PaidAt = &paidAt

	switch {
	case expense.Outstanding() <= s.settledEpsilon:
		expense.Status = models.ExpenseStatusPaid
	case expense.AmountPaid > 0:
		expense.Status = models.ExpenseStatusPartial
	default:
		expense.Status = models.ExpenseStatusPending
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update expense")
	}

	s.logger.Info("expense settled",
		zap.Int64("expenseId", expense.ID),
		zap.Float64("amount", req.Amount),
		zap.String("status", string(expense.Status)))
	return expense, nil
}

// List returns expenses matching the filter.
func (s *ExpenseService) List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	expenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expenses")
	}
	return expenses, nil
}
