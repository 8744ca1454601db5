package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
)

type fakeExpenseRepo struct {
	byID    map[int64]*models.Expense
	nextID  int64
	updated []*models.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{byID: make(map[int64]*models.Expense), nextID: 1}
}

func (f *fakeExpenseRepo) Create(_ context.Context, expense *models.Expense) error {
	expense.ID = f.nextID
	f.nextID++
	clone := *expense
	f.byID[expense.ID] = &clone
	return nil
}

func (f *fakeExpenseRepo) FindByID(_ context.Context, id int64) (*models.Expense, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *e
	return &clone, nil
}

func (f *fakeExpenseRepo) Update(_ context.Context, expense *models.Expense) error {
	f.updated = append(f.updated, expense)
	clone := *expense
	f.byID[expense.ID] = &clone
	return nil
}

func (f *fakeExpenseRepo) List(_ context.Context, _ models.ExpenseFilter) ([]models.Expense, error) {
	var out []models.Expense
	for _, e := range f.byID {
		out = append(out, *e)
	}
	return out, nil
}

func newExpenseFixture() (*ExpenseService, *fakeExpenseRepo) {
	repo := newFakeExpenseRepo()
	svc := NewExpenseService(repo, 12, 0.01, nil, nil)
	svc.now = func() time.Time { return date(2024, time.March, 10) }
	return svc, repo
}

func TestExpenseServiceCreateSingle(t *testing.T) {
	svc, _ := newExpenseFixture()

	rows, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description:     "Manutenção ar-condicionado",
		TotalAmount:     350,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		Category:        models.ExpenseCategoryOneOff,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 350.0, rows[0].AmountBilled, 1e-9)
	assert.Equal(t, models.ExpenseStatusPending, rows[0].Status)
}

func TestExpenseServiceCreateInstallmentsRemainderOnLast(t *testing.T) {
	svc, _ := newExpenseFixture()

	rows, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description:     "Tatame novo",
		TotalAmount:     1000,
		CompetenceMonth: 11,
		CompetenceYear:  2024,
		Category:        models.ExpenseCategoryOneOff,
		Installments:    3,
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.InDelta(t, 333.33, rows[0].AmountBilled, 1e-9)
	assert.InDelta(t, 333.33, rows[1].AmountBilled, 1e-9)
	assert.InDelta(t, 333.34, rows[2].AmountBilled, 1e-9)

	total := rows[0].AmountBilled + rows[1].AmountBilled + rows[2].AmountBilled
	assert.InDelta(t, 1000.0, total, 1e-9)

	// Competence months advance and wrap across the year boundary.
	assert.Equal(t, 11, rows[0].CompetenceMonth)
	assert.Equal(t, 12, rows[1].CompetenceMonth)
	assert.Equal(t, 1, rows[2].CompetenceMonth)
	assert.Equal(t, 2025, rows[2].CompetenceYear)

	assert.Equal(t, "Tatame novo (1/3)", rows[0].Description)
	assert.Equal(t, "Tatame novo (3/3)", rows[2].Description)
}

func TestExpenseServiceCreateRecurring(t *testing.T) {
	svc, _ := newExpenseFixture()

	rows, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description:     "Aluguel",
		TotalAmount:     2000,
		CompetenceMonth: 1,
		CompetenceYear:  2024,
		Category:        models.ExpenseCategoryFixed,
		Recurring:       true,
	})
	require.NoError(t, err)
	require.Len(t, rows, 12)
	for i, row := range rows {
		assert.InDelta(t, 2000.0, row.AmountBilled, 1e-9)
		assert.Equal(t, i+1, row.CompetenceMonth)
		assert.Equal(t, 2024, row.CompetenceYear)
		assert.True(t, row.Recurring)
	}
}

func TestExpenseServiceCreateRejectsRecurringInstallments(t *testing.T) {
	svc, _ := newExpenseFixture()

	_, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description:     "Conflito",
		TotalAmount:     100,
		CompetenceMonth: 1,
		CompetenceYear:  2024,
		Category:        models.ExpenseCategoryFixed,
		Recurring:       true,
		Installments:    3,
	})
	require.Error(t, err)
}

func TestExpenseServiceSettleTransitions(t *testing.T) {
	svc, repo := newExpenseFixture()
	rows, err := svc.Create(context.Background(), CreateExpenseRequest{
		Description:     "Energia",
		TotalAmount:     300,
		CompetenceMonth: 3,
		CompetenceYear:  2024,
		Category:        models.ExpenseCategoryVariable,
	})
	require.NoError(t, err)
	id := rows[0].ID

	expense, err := svc.Settle(context.Background(), id, SettleExpenseRequest{Amount: 120, Method: "Pix"})
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseStatusPartial, expense.Status)
	assert.InDelta(t, 180.0, expense.Outstanding(), 1e-9)

	expense, err = svc.Settle(context.Background(), id, SettleExpenseRequest{Amount: 179.995})
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseStatusPaid, expense.Status)
	require.NotNil(t, expense.PaidAt)
	assert.Equal(t, date(2024, time.March, 10), *expense.PaidAt)

	// A settled expense rejects further payments.
	_, err = svc.Settle(context.Background(), id, SettleExpenseRequest{Amount: 10})
	require.Error(t, err)
	require.NotEmpty(t, repo.updated)
}

func TestExpenseServiceSettleNotFound(t *testing.T) {
	svc, _ := newExpenseFixture()

	_, err := svc.Settle(context.Background(), 42, SettleExpenseRequest{Amount: 10})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
