package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inspire-studio/studio-api/internal/dto"
	"github.com/inspire-studio/studio-api/internal/service"
	appErrors "github.com/inspire-studio/studio-api/pkg/errors"
	"github.com/inspire-studio/studio-api/pkg/response"
)

// ExportHandler produces downloadable report files.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// MonthlyReport godoc
// @Summary Export monthly report
// @Description Renders the monthly report as CSV or PDF and returns a signed download link
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Router /exports/report [post]
func (h *ExportHandler) MonthlyReport(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.exports.MonthlyReport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{
		URL:       result.URL,
		Format:    string(result.Format),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// ContractHistory godoc
// @Summary Export contract history
// @Description Renders the renewal history for a year as CSV or PDF
// @Tags Exports
// @Produce json
// @Param year query int false "Year (default current)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 201 {object} response.Envelope
// @Router /exports/contracts [post]
func (h *ExportHandler) ContractHistory(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
			return
		}
		year = parsed
	}
	format := dto.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	if format != dto.ExportFormatCSV && format != dto.ExportFormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	result, err := h.exports.ContractHistory(c.Request.Context(), year, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ExportResponse{
		URL:       result.URL,
		Format:    string(result.Format),
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	})
}

// Download godoc
// @Summary Download an exported file
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	_, relPath, _, err := h.exports.ParseToken(token, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Open(relPath)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}

	// The stored path keeps the extension; the token name does not.
	fileName := filepath.Base(relPath)
	mimeType := "text/csv"
	if strings.HasSuffix(fileName, ".pdf") {
		mimeType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), mimeType, file, nil)
}
