package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type activeEnrollmentLister interface {
	ListByStatus(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error)
}

type planLister interface {
	List(ctx context.Context) ([]models.Plan, error)
}

type competencePaymentReader interface {
	ListByCompetence(ctx context.Context, month, year int) ([]models.Payment, error)
}

type competenceExpenseReader interface {
	ListByCompetence(ctx context.Context, month, year int) ([]models.Expense, error)
}

// FinanceServiceConfig tunes report behaviour.
type FinanceServiceConfig struct {
	CacheTTL       time.Duration
	SettledEpsilon float64
	ProjectionSpan int
}

// FinanceService composes the monthly financial report: forecast vs realized
// revenue, expenses, per-member settlement and the rolling projection. It
// performs no writes; everything derives from the four collections.
type FinanceService struct {
	enrollments activeEnrollmentLister
	plans       planLister
	payments    competencePaymentReader
	expenses    competenceExpenseReader
	cache       *CacheService
	logger      *zap.Logger
	cfg         FinanceServiceConfig
}

// FinanceServiceParams groups constructor dependencies.
type FinanceServiceParams struct {
	Enrollments activeEnrollmentLister
	Plans       planLister
	Payments    competencePaymentReader
	Expenses    competenceExpenseReader
	Cache       *CacheService
	Logger      *zap.Logger
	Config      FinanceServiceConfig
}

// NewFinanceService constructs a FinanceService with sane defaults.
func NewFinanceService(params FinanceServiceParams) *FinanceService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.SettledEpsilon <= 0 {
		cfg.SettledEpsilon = 0.01
	}
	if cfg.ProjectionSpan <= 0 {
		cfg.ProjectionSpan = 12
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{
		enrollments: params.Enrollments,
		plans:       params.Plans,
		payments:    params.Payments,
		expenses:    params.Expenses,
		cache:       params.Cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// MonthlyReport returns the report for one competence month and indicates
// cache utilisation.
func (s *FinanceService) MonthlyReport(ctx context.Context, month, year int) (*dto.MonthlyReportResponse, bool, error) {
	if month < 1 || month > 12 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "competence month must be between 1 and 12")
	}
	if year <= 0 {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "competence year is required")
	}

	cacheKey := fmt.Sprintf("finance:report:%04d-%02d", year, month)
	if s.cache != nil {
		var cached dto.MonthlyReportResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	report, err := s.composeReport(ctx, month, year)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("finance report cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return report, false, nil
}

// Projection returns the rolling forecast starting at the given competence
// month: billed revenue, provisioned expenses and conceded discounts for each
// of the configured span of months.
func (s *FinanceService) Projection(ctx context.Context, month, year int) (*dto.ProjectionResponse, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "competence month must be between 1 and 12")
	}
	billables, err := s.loadBillables(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProjectionResponse{StartMonth: month, StartYear: year}
	cursor := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < s.cfg.ProjectionSpan; i++ {
		m, y := int(cursor.Month()), cursor.Year()

		point := dto.ProjectionPoint{Month: m, Year: y}
		for _, b := range billables {
			if !ActiveInMonth(b.enrollment.CycleStart, b.plan.DurationMonths, cursor.Month(), y) {
				continue
			}
			point.RevenueForecast += b.billed
			point.DiscountTotal += b.discounted
		}

		expenses, err := s.expenses.ListByCompetence(ctx, m, y)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expenses")
		}
		for _, e := range expenses {
			point.ExpenseForecast += e.AmountBilled
		}

		point.RevenueForecast = money.Round(point.RevenueForecast)
		point.ExpenseForecast = money.Round(point.ExpenseForecast)
		point.DiscountTotal = money.Round(point.DiscountTotal)
		resp.Points = append(resp.Points, point)

		cursor = AddMonths(cursor, 1)
	}
	return resp, nil
}

// billable pairs an active enrollment with its resolved plan and the
// discounted monthly value.
type billable struct {
	enrollment models.Enrollment
	plan       models.Plan
	billed     float64
	discounted float64
}

func (s *FinanceService) loadBillables(ctx context.Context) ([]billable, error) {
	enrollments, err := s.enrollments.ListByStatus(ctx, models.EnrollmentStatusActive)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plans")
	}
	planByName := make(map[string]models.Plan, len(plans))
	for _, p := range plans {
		planByName[p.Name] = p
	}

	billables := make([]billable, 0, len(enrollments))
	for _, e := range enrollments {
		plan, ok := planByName[e.PlanName]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrMissingPlan,
				fmt.Sprintf("enrollment %d references unknown plan %q", e.ID, e.PlanName))
		}
		billed := plan.MonthlyPrice * (1 - e.DiscountPercent/100)
		billables = append(billables, billable{
			enrollment: e,
			plan:       plan,
			billed:     billed,
			discounted: plan.MonthlyPrice - billed,
		})
	}
	return billables, nil
}

func (s *FinanceService) composeReport(ctx context.Context, month, year int) (*dto.MonthlyReportResponse, error) {
	billables, err := s.loadBillables(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByCompetence(ctx, month, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payments")
	}
	expenses, err := s.expenses.ListByCompetence(ctx, month, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expenses")
	}

	report := &dto.MonthlyReportResponse{Month: month, Year: year}

	grossByMember := make(map[int64]float64)
	for _, p := range payments {
		report.Revenue.RealizedGross += p.GrossAmount
		report.Revenue.RealizedNet += p.EffectiveNet()
		grossByMember[p.EnrollmentID] += p.GrossAmount
	}

	for _, b := range billables {
		if !ActiveInMonth(b.enrollment.CycleStart, b.plan.DurationMonths, time.Month(month), year) {
			continue
		}
		report.Revenue.Forecast += b.billed
		report.Result.DiscountTotal += b.discounted

		paid := grossByMember[b.enrollment.ID]
		outstanding := b.billed - paid
		report.MemberStatuses = append(report.MemberStatuses, dto.MemberPaymentStatus{
			EnrollmentID:    b.enrollment.ID,
			MemberName:      b.enrollment.FullName,
			PlanName:        b.plan.Name,
			ListPrice:       b.plan.MonthlyPrice,
			DiscountPercent: b.enrollment.DiscountPercent,
			Billed:          money.Round(b.billed),
			Paid:            money.Round(paid),
			Outstanding:     money.Round(outstanding),
			Settlement:      s.classifySettlement(outstanding, b.billed),
		})
		if b.discounted > 0 {
			report.Discounts = append(report.Discounts, dto.DiscountLine{
				EnrollmentID:    b.enrollment.ID,
				MemberName:      b.enrollment.FullName,
				PlanName:        b.plan.Name,
				ListPrice:       b.plan.MonthlyPrice,
				DiscountPercent: b.enrollment.DiscountPercent,
				Discounted:      money.Round(b.discounted),
				Reason:          b.enrollment.DiscountReason,
			})
		}
	}

	for _, e := range expenses {
		report.Expenses.Forecast += e.AmountBilled
		report.Expenses.Realized += e.AmountPaid
	}

	report.Revenue.Forecast = money.Round(report.Revenue.Forecast)
	report.Revenue.RealizedGross = money.Round(report.Revenue.RealizedGross)
	report.Revenue.RealizedNet = money.Round(report.Revenue.RealizedNet)
	report.Revenue.FeesPaid = money.Round(report.Revenue.RealizedGross - report.Revenue.RealizedNet)
	// The receivable balance uses gross: the member's debt is unaffected by
	// card fees the studio pays.
	report.Revenue.Receivable = money.Round(report.Revenue.Forecast - report.Revenue.RealizedGross)
	report.Expenses.Forecast = money.Round(report.Expenses.Forecast)
	report.Expenses.Realized = money.Round(report.Expenses.Realized)
	report.Expenses.Payable = money.Round(report.Expenses.Forecast - report.Expenses.Realized)
	report.Result.CashProfit = money.Round(report.Revenue.RealizedNet - report.Expenses.Realized)
	report.Result.DiscountTotal = money.Round(report.Result.DiscountTotal)

	sort.Slice(report.MemberStatuses, func(i, j int) bool {
		return report.MemberStatuses[i].MemberName < report.MemberStatuses[j].MemberName
	})
	sort.Slice(report.Discounts, func(i, j int) bool {
		return report.Discounts[i].MemberName < report.Discounts[j].MemberName
	})

	return report, nil
}

func (s *FinanceService) classifySettlement(outstanding, billed float64) dto.PaymentSettlement {
	switch {
	case outstanding <= s.cfg.SettledEpsilon:
		return dto.SettlementPaid
	case outstanding < billed:
		return dto.SettlementPartial
	default:
		return dto.SettlementNotPaid
	}
}
