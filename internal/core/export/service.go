package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// Service provides high-level export functionality
type Service struct {
	exporters map[ExportFormat]Exporter
	invoices  *InvoiceRenderer
}

// NewService wires the table exporters and the invoice renderer
func NewService(logos *LogoLoader) *Service {
	return &Service{
		exporters: map[ExportFormat]Exporter{
			FormatPDF:   NewPDFExporter(),
			FormatExcel: NewExcelExporter(),
			FormatCSV:   NewCSVExporter(),
		},
		invoices: NewInvoiceRenderer(logos),
	}
}

// Export exports data to the specified format
func (s *Service) Export(data *ExportData, format ExportFormat) ([]byte, string, error) {
	exporter, err := s.exporter(format)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := exporter.Export(data, &buf); err != nil {
		return nil, "", fmt.Errorf("export failed: %w", err)
	}
	return buf.Bytes(), exporter.GetContentType(), nil
}

// ExportToWriter exports data to a writer
func (s *Service) ExportToWriter(data *ExportData, format ExportFormat, writer io.Writer) error {
	exporter, err := s.exporter(format)
	if err != nil {
		return err
	}
	return exporter.Export(data, writer)
}

// ExportTable is a convenience method for simple table exports
func (s *Service) ExportTable(title string, table TableData, format ExportFormat, now time.Time) ([]byte, string, error) {
	return s.Export(table.ToExportData(title, now), format)
}

// RenderInvoice renders a single invoice PDF
func (s *Service) RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.invoices.Render(ctx, doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetContentType returns the content type for the given format
func (s *Service) GetContentType(format ExportFormat) string {
	if e, ok := s.exporters[format]; ok {
		return e.GetContentType()
	}
	return "application/octet-stream"
}

// GetFileExtension returns the file extension for the given format
func (s *Service) GetFileExtension(format ExportFormat) string {
	if e, ok := s.exporters[format]; ok {
		return e.GetFileExtension()
	}
	return ".bin"
}

func (s *Service) exporter(format ExportFormat) (Exporter, error) {
	e, ok := s.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	return e, nil
}
