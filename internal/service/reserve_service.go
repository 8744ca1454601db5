package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type reserveRepository interface {
	Create(ctx context.Context, movement *models.ReserveMovement) error
	List(ctx context.Context) ([]models.ReserveMovement, error)
}

type monthlyExpenseAverager interface {
	MonthlyFixedAverage(ctx context.Context) (float64, error)
}

// ReserveMovementRequest records a deposit or withdrawal.
type ReserveMovementRequest struct {
	Date        *time.Time                 `json:"date"`
	Type        models.ReserveMovementType `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Product     string                     `json:"product" validate:"required"`
	Amount      float64                    `json:"amount" validate:"required,gt=0"`
	Description string                     `json:"description"`
}

// ReserveServiceConfig tunes projection math.
type ReserveServiceConfig struct {
	AnnualRate         float64
	TradingDaysPerYear int
	ProjectionSpan     int
	TargetRatio        float64
}

// ReserveService tracks the opportunity reserve: principal per product, the
// coverage against a fixed-cost target and compound projections at the
// reference rate.
type ReserveService struct {
	repo      reserveRepository
	expenses  monthlyExpenseAverager
	products  map[string]models.ReserveProduct
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReserveServiceConfig
	now       func() time.Time
}

// NewReserveService constructs ReserveService. Unknown products earn the
// full reference rate.
func NewReserveService(repo reserveRepository, expenses monthlyExpenseAverager, products []models.ReserveProduct, cfg ReserveServiceConfig, validate *validator.Validate, logger *zap.Logger) *ReserveService {
	if cfg.AnnualRate <= 0 {
		cfg.AnnualRate = 0.105
	}
	if cfg.TradingDaysPerYear <= 0 {
		cfg.TradingDaysPerYear = 252
	}
	if cfg.ProjectionSpan <= 0 {
		cfg.ProjectionSpan = 12
	}
	if cfg.TargetRatio <= 0 {
		cfg.TargetRatio = 12
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	index := make(map[string]models.ReserveProduct, len(products))
	for _, p := range products {
		index[p.Name] = p
	}
	return &ReserveService{repo: repo, expenses: expenses, products: index, validator: validate, logger: logger, cfg: cfg, now: time.Now}
}

// Record persists one movement. Withdrawals are stored negative and may not
// exceed the product's balance.
func (s *ReserveService) Record(ctx context.Context, req ReserveMovementRequest) (*models.ReserveMovement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reserve movement")
	}

	amount := money.Round(req.Amount)
	if req.Type == models.ReserveMovementWithdrawal {
		balances, err := s.balances(ctx)
		if err != nil {
			return nil, err
		}
		if balances[req.Product] < amount {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "withdrawal exceeds product balance")
		}
		amount = -amount
	}

	movement := &models.ReserveMovement{
		Type:        req.Type,
		Product:     req.Product,
		Amount:      amount,
		Description: req.Description,
	}
	movement.Date = dateOnly(s.now())
	if req.Date != nil {
		movement.Date = dateOnly(*req.Date)
	}

	if err := s.repo.Create(ctx, movement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record reserve movement")
	}
	s.logger.Info("reserve movement recorded",
		zap.String("type", string(req.Type)),
		zap.String("product", req.Product),
		zap.Float64("amount", amount))
	return movement, nil
}

func (s *ReserveService) balances(ctx context.Context) (map[string]float64, error) {
	movements, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reserve movements")
	}
	balances := make(map[string]float64)
	for _, m := range movements {
		balances[m.Product] += m.Amount
	}
	return balances, nil
}

// Overview reports principal per product and coverage against the target of
// TargetRatio months of average fixed costs.
func (s *ReserveService) Overview(ctx context.Context) (*dto.ReserveOverviewResponse, error) {
	balances, err := s.balances(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ReserveOverviewResponse{}
	for name, principal := range balances {
		share := 1.0
		if p, ok := s.products[name]; ok {
			share = p.RateShare
		}
		resp.Balances = append(resp.Balances, dto.ReserveBalance{
			Product:   name,
			RateShare: share,
			Principal: money.Round(principal),
		})
		resp.TotalPrincipal += principal
	}
	resp.TotalPrincipal = money.Round(resp.TotalPrincipal)

	if s.expenses != nil {
		avg, err := s.expenses.MonthlyFixedAverage(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fixed cost average")
		}
		resp.TargetAmount = money.Round(avg * s.cfg.TargetRatio)
		if resp.TargetAmount > 0 {
			resp.TargetCoverage = resp.TotalPrincipal / resp.TargetAmount
		}
	}
	return resp, nil
}

// Projection compounds the current principal forward month by month. Each
// product earns its share of the reference rate, converted to a daily rate
// over the trading-day year and applied for a month's worth of trading days.
func (s *ReserveService) Projection(ctx context.Context) (*dto.ReserveProjectionResponse, error) {
	balances, err := s.balances(ctx)
	if err != nil {
		return nil, err
	}

	type holding struct {
		value float64
		daily float64
	}
	tradingDaysPerMonth := float64(s.cfg.TradingDaysPerYear) / 12
	holdings := make([]holding, 0, len(balances))
	principal := 0.0
	for name, value := range balances {
		share := 1.0
		if p, ok := s.products[name]; ok {
			share = p.RateShare
		}
		daily := math.Pow(1+s.cfg.AnnualRate*share, 1/float64(s.cfg.TradingDaysPerYear)) - 1
		holdings = append(holdings, holding{value: value, daily: daily})
		principal += value
	}

	resp := &dto.ReserveProjectionResponse{
		Principal:  money.Round(principal),
		AnnualRate: s.cfg.AnnualRate,
	}
	for month := 1; month <= s.cfg.ProjectionSpan; month++ {
		total := 0.0
		for i := range holdings {
			holdings[i].value *= math.Pow(1+holdings[i].daily, tradingDaysPerMonth)
			total += holdings[i].value
		}
		resp.Points = append(resp.Points, dto.ReserveProjectionPoint{
			MonthOffset: month,
			Value:       money.Round(total),
			Earnings:    money.Round(total - principal),
		})
	}
	return resp, nil
}

// Movements returns the full movement ledger, oldest first.
func (s *ReserveService) Movements(ctx context.Context) ([]models.ReserveMovement, error) {
	movements, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reserve movements")
	}
	return movements, nil
}
