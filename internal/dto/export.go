package dto

// ExportFormat selects the rendered file type.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportRequest asks for a downloadable report file.
type ExportRequest struct {
	Format ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Month  int          `json:"month" validate:"required,min=1,max=12"`
	Year   int          `json:"year" validate:"required,min=2000"`
}

// ExportResponse carries the signed download link.
type ExportResponse struct {
	URL       string `json:"url"`
	Format    string `json:"format"`
	ExpiresAt string `json:"expiresAt"`
}
