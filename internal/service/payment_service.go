package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/models"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	ListByCompetence(ctx context.Context, month, year int) ([]models.Payment, error)
	ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Payment, error)
}

type paymentEnrollmentReader interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
}

// RecordPaymentRequest describes an incoming payment. Card payments carry
// Brand, TransactionType and Installments and have their net derived from the
// rate table; other payments carry Method directly and settle at face value.
type RecordPaymentRequest struct {
	EnrollmentID    int64      `json:"enrollment_id" validate:"required"`
	PaidAt          *time.Time `json:"paid_at"`
	CompetenceMonth int        `json:"competence_month" validate:"required,min=1,max=12"`
	CompetenceYear  int        `json:"competence_year" validate:"required,min=2000"`
	GrossAmount     float64    `json:"gross_amount" validate:"required,gt=0"`
	Brand           string     `json:"brand"`
	TransactionType string     `json:"transaction_type"`
	Installments    string     `json:"installments"`
	Method          string     `json:"method"`
	Notes           string     `json:"notes"`
}

// PaymentService records member payments, deriving card fees through the
// rate table.
type PaymentService struct {
	repo        paymentRepository
	enrollments paymentEnrollmentReader
	fees        *FeeService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, enrollments paymentEnrollmentReader, fees *FeeService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, enrollments: enrollments, fees: fees, validator: validate, logger: logger, now: time.Now}
}

// Record validates and persists one payment. The payment is blocked, not
// recorded with a guessed fee, when a card combination has no rate.
func (s *PaymentService) Record(ctx context.Context, req RecordPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if req.Brand == "" && req.Method == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment needs a card brand or a method")
	}

	enrollment, err := s.enrollments.FindByID(ctx, req.EnrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	gross := money.Round(req.GrossAmount)
	payment := &models.Payment{
		EnrollmentID:    enrollment.ID,
		MemberName:      enrollment.FullName,
		CompetenceMonth: req.CompetenceMonth,
		CompetenceYear:  req.CompetenceYear,
		GrossAmount:     gross,
		Method:          req.Method,
		Notes:           req.Notes,
	}
	payment.PaidAt = dateOnly(s.now())
	if req.PaidAt != nil {
		payment.PaidAt = dateOnly(*req.PaidAt)
	}

	if req.Brand != "" {
		resolved, err := s.fees.Resolve(ctx, req.Brand, req.TransactionType, req.Installments, gross)
		if err != nil {
			return nil, err
		}
		payment.NetAmount = &resolved.Net
		payment.Method = resolved.Method
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	s.logger.Info("payment recorded",
		zap.Int64("enrollmentId", payment.EnrollmentID),
		zap.String("method", payment.Method),
		zap.Float64("gross", payment.GrossAmount))
	return payment, nil
}

// ListByCompetence returns the payments attributed to one month.
func (s *PaymentService) ListByCompetence(ctx context.Context, month, year int) ([]models.Payment, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "competence month must be between 1 and 12")
	}
	payments, err := s.repo.ListByCompetence(ctx, month, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// ListByEnrollment returns one member's payments, newest first.
func (s *PaymentService) ListByEnrollment(ctx context.Context, enrollmentID int64) ([]models.Payment, error) {
	payments, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}
