package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inspire-studio/studio-api/internal/dto"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/export"
	"github.com/inspire-studio/studio-api/pkg/money"
	"github.com/inspire-studio/studio-api/pkg/storage"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       dto.ExportFormat
	ExpiresAt    time.Time
}

// ExportService renders report files and hands out signed download links.
type ExportService struct {
	finance  *FinanceService
	renewals *RenewalService
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(finance *FinanceService, renewals *RenewalService, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		finance:  finance,
		renewals: renewals,
		storage:  files,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// MonthlyReport renders the per-member payment table for one competence
// month and stores the file.
func (s *ExportService) MonthlyReport(ctx context.Context, req dto.ExportRequest) (*ExportResult, error) {
	report, _, err := s.finance.MonthlyReport(ctx, req.Month, req.Year)
	if err != nil {
		return nil, err
	}

	headers := []string{"Member", "Plan", "List Price", "Discount (%)", "Billed", "Paid", "Outstanding", "Status"}
	rows := make([]map[string]string, 0, len(report.MemberStatuses))
	for _, row := range report.MemberStatuses {
		rows = append(rows, map[string]string{
			"Member":       row.MemberName,
			"Plan":         row.PlanName,
			"List Price":   money.Format(row.ListPrice),
			"Discount (%)": fmt.Sprintf("%.1f", row.DiscountPercent),
			"Billed":       money.Format(row.Billed),
			"Paid":         money.Format(row.Paid),
			"Outstanding":  money.Format(row.Outstanding),
			"Status":       string(row.Settlement),
		})
	}
	dataset := export.Dataset{Headers: headers, Rows: rows}
	title := fmt.Sprintf("Monthly Report %02d/%04d", req.Month, req.Year)
	name := fmt.Sprintf("monthly_report_%04d%02d", req.Year, req.Month)

	return s.render(name, title, dataset, req.Format)
}

// ContractHistory renders the contract rows started within one year.
func (s *ExportService) ContractHistory(ctx context.Context, year int, format dto.ExportFormat) (*ExportResult, error) {
	summary, err := s.renewals.YearSummary(ctx, year)
	if err != nil {
		return nil, err
	}
	entries, err := s.renewals.repo.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract history")
	}

	headers := []string{"Member", "Plan", "Cycle Start", "Monthly Value"}
	rows := make([]map[string]string, 0, len(entries)+1)
	for _, entry := range entries {
		rows = append(rows, map[string]string{
			"Member":        entry.MemberName,
			"Plan":          entry.PlanName,
			"Cycle Start":   entry.CycleStart.Format("2006-01-02"),
			"Monthly Value": money.Format(entry.MonthlyValue),
		})
	}
	rows = append(rows, map[string]string{
		"Member":        fmt.Sprintf("TOTAL (%d contracts)", summary.ContractCount),
		"Monthly Value": money.Format(summary.MonthlyTotal),
	})

	dataset := export.Dataset{Headers: headers, Rows: rows}
	title := fmt.Sprintf("Contracts %d", year)
	name := fmt.Sprintf("contracts_%04d", year)

	return s.render(name, title, dataset, format)
}

func (s *ExportService) render(name, title string, dataset export.Dataset, format dto.ExportFormat) (*ExportResult, error) {
	var payload []byte
	var err error
	switch format {
	case dto.ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case dto.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", name, timestamp, format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	// The signer splits tokens on dots, so the embedded name must not carry
	// the file extension; Download derives it from the stored path.
	token, expiresAt, err := s.signer.Generate(name, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("export generated", zap.String("file", relPath), zap.String("format", string(format)))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (name, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}
