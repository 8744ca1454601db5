package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/money"
)

// LegacyPaymentRow is one payment line copied from the legacy spreadsheet.
// Monetary cells keep their original formatting ("R$ 1.234,56") and dates
// the sheet's dd/mm/yyyy form.
type LegacyPaymentRow struct {
	EnrollmentID    int64  `json:"enrollment_id"`
	PaidAt          string `json:"paid_at"`
	CompetenceMonth int    `json:"competence_month"`
	CompetenceYear  int    `json:"competence_year"`
	GrossAmount     string `json:"gross_amount"`
	Brand           string `json:"brand"`
	TransactionType string `json:"transaction_type"`
	Installments    string `json:"installments"`
	Method          string `json:"method"`
	Notes           string `json:"notes"`
}

// LegacyFeeRateRow is one line of the legacy card-fee sheet. Fee keeps the
// sheet's percentage form ("4,59%").
type LegacyFeeRateRow struct {
	Brand            string `json:"brand"`
	TransactionType  string `json:"transaction_type"`
	InstallmentLabel string `json:"installment_label"`
	Fee              string `json:"fee"`
}

// ImportPaymentsRequest carries a batch of legacy payment rows.
type ImportPaymentsRequest struct {
	Rows []LegacyPaymentRow `json:"rows"`
}

// ImportFeeRatesRequest carries a batch of legacy fee-rate rows.
type ImportFeeRatesRequest struct {
	Rows []LegacyFeeRateRow `json:"rows"`
}

// ImportRowError points at a rejected row. Row is 1-based, matching how the
// sheet is read.
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary reports how a batch fared. Bad rows are skipped, never
// guessed at; the rest of the batch still goes through.
type ImportSummary struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

const legacyDateLayout = "02/01/2006"

// ImportService replays legacy spreadsheet rows through the regular write
// paths, normalising the sheet's monetary formatting on the way in.
type ImportService struct {
	payments *PaymentService
	fees     *FeeService
	logger   *zap.Logger
}

// NewImportService constructs ImportService.
func NewImportService(payments *PaymentService, fees *FeeService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{payments: payments, fees: fees, logger: logger}
}

// Payments records each legacy payment row through PaymentService. Rows
// whose amount cannot be parsed, or that the payment rules reject, are
// reported in the summary and skipped.
func (s *ImportService) Payments(ctx context.Context, req ImportPaymentsRequest) (*ImportSummary, error) {
	if len(req.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rows are required")
	}

	summary := &ImportSummary{}
	for i, row := range req.Rows {
		gross := money.ParseAmount(row.GrossAmount)
		if gross <= 0 {
			summary.Errors = append(summary.Errors, ImportRowError{
				Row:    i + 1,
				Reason: fmt.Sprintf("unparseable gross amount %q", row.GrossAmount),
			})
			continue
		}

		var paidAt *time.Time
		if raw := strings.TrimSpace(row.PaidAt); raw != "" {
			parsed, err := time.Parse(legacyDateLayout, raw)
			if err != nil {
				summary.Errors = append(summary.Errors, ImportRowError{
					Row:    i + 1,
					Reason: fmt.Sprintf("unparseable payment date %q", row.PaidAt),
				})
				continue
			}
			paidAt = &parsed
		}

		_, err := s.payments.Record(ctx, RecordPaymentRequest{
			EnrollmentID:    row.EnrollmentID,
			PaidAt:          paidAt,
			CompetenceMonth: row.CompetenceMonth,
			CompetenceYear:  row.CompetenceYear,
			GrossAmount:     gross,
			Brand:           row.Brand,
			TransactionType: row.TransactionType,
			Installments:    row.Installments,
			Method:          row.Method,
			Notes:           row.Notes,
		})
		if err != nil {
			summary.Errors = append(summary.Errors, ImportRowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		summary.Imported++
	}

	s.logger.Info("legacy payments imported",
		zap.Int("imported", summary.Imported),
		zap.Int("rejected", len(summary.Errors)))
	return summary, nil
}

// FeeRates upserts each legacy fee row, converting the sheet's percentage
// cells into fractions.
func (s *ImportService) FeeRates(ctx context.Context, req ImportFeeRatesRequest) (*ImportSummary, error) {
	if len(req.Rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rows are required")
	}

	summary := &ImportSummary{}
	for i, row := range req.Rows {
		// Zero-fee rows (Pix, debit promos) are legitimate, so only an
		// empty or out-of-range cell is rejected here.
		fraction := money.ParsePercent(row.Fee)
		if strings.TrimSpace(row.Fee) == "" || fraction < 0 || fraction > 1 {
			summary.Errors = append(summary.Errors, ImportRowError{
				Row:    i + 1,
				Reason: fmt.Sprintf("unparseable fee %q", row.Fee),
			})
			continue
		}

		_, err := s.fees.Upsert(ctx, UpsertFeeRateRequest{
			Brand:            row.Brand,
			TransactionType:  row.TransactionType,
			InstallmentLabel: row.InstallmentLabel,
			FeeFraction:      fraction,
		})
		if err != nil {
			summary.Errors = append(summary.Errors, ImportRowError{Row: i + 1, Reason: err.Error()})
			continue
		}
		summary.Imported++
	}

	s.logger.Info("legacy fee rates imported",
		zap.Int("imported", summary.Imported),
		zap.Int("rejected", len(summary.Errors)))
	return summary, nil
}
