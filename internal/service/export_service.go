package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radmosaic/rostergen-api/internal/dto"
	"github.com/radmosaic/rostergen-api/internal/models"
	appErrors "github.com/radmosaic/rostergen-api/pkg/errors"
	"github.com/radmosaic/rostergen-api/pkg/export"
)

type exportRosterReader interface {
	ListDetailsByPeriod(ctx context.Context, organizationID string, year, month int) ([]models.AssignmentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
	Title   string
}

// ExportFile is a rendered roster ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders the period roster as CSV or PDF.
type ExportService struct {
	rosters   exportRosterReader
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(rosters exportRosterReader, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Monthly Radiology Roster"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{rosters: rosters, csv: csv, pdf: pdf, validator: validate, logger: logger, cfg: cfg}
}

// Export renders the period roster in the requested format.
func (s *ExportService) Export(ctx context.Context, query dto.PeriodQuery, format string) (*ExportFile, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "roster export is disabled")
	}
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period query")
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	details, err := s.rosters.ListDetailsByPeriod(ctx, query.OrganizationID, query.Year, query.Month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	if len(details) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no assignments found for this period")
	}

	dataset := buildRosterDataset(details)
	title := fmt.Sprintf("%s %04d-%02d", s.cfg.Title, query.Year, query.Month)

	var payload []byte
	var contentType string
	switch format {
	case "csv":
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster export")
	}

	filename := fmt.Sprintf("roster_%s_%04d-%02d.%s", sanitizeFilename(query.OrganizationID), query.Year, query.Month, format)
	return &ExportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildRosterDataset(details []models.AssignmentDetail) export.Dataset {
	headers := []string{"Date", "Shift", "Staff", "Email", "Type", "Score"}
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, map[string]string{
			"Date":  d.Date.Format("2006-01-02"),
			"Shift": d.ShiftCode,
			"Staff": d.StaffName,
			"Email": d.StaffEmail,
			"Type":  string(d.Type),
			"Score": fmt.Sprintf("%.3f", d.Score),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
