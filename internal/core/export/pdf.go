package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cast"
)

const defaultColumnWeight = 12.0

// PDFExporter renders tables with gofpdf
type PDFExporter struct{}

// NewPDFExporter creates a new PDF exporter
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export renders the table, repeating the header row on every page
func (p *PDFExporter) Export(data *ExportData, writer io.Writer) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("no headers provided")
	}

	orientation := "P"
	if data.Style.Orientation == "landscape" {
		orientation = "L"
	}
	pageSize := data.Style.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	fontSize := data.Style.FontSize
	if fontSize == 0 {
		fontSize = 10
	}

	pdf := gofpdf.New(orientation, "mm", pageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	text := textEncoder(pdf)
	// core fonts only
	font := "Arial"

	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont(font, "B", 16)
		pdf.Cell(0, 10, text(data.Title))
		pdf.Ln(12)
	}
	if data.Description != "" {
		pdf.SetFont(font, "", fontSize)
		pdf.MultiCell(0, 5, text(data.Description), "", "", false)
		pdf.Ln(4)
	}
	if !data.CreatedAt.IsZero() {
		meta := fmt.Sprintf("Generated: %s", data.CreatedAt.Format("2006-01-02 15:04:05"))
		if data.Author != "" {
			meta += " | Author: " + data.Author
		}
		pdf.SetFont(font, "I", 8)
		pdf.Cell(0, 5, text(meta))
		pdf.Ln(8)
	}

	widths := columnWidths(pdf, data)

	drawHeader := func() {
		pdf.SetFont(font, "B", fontSize)
		fill := data.Style.HeaderBgColor != ""
		if fill {
			r, g, b := hexToRGB(data.Style.HeaderBgColor)
			pdf.SetFillColor(r, g, b)
			pdf.SetTextColor(255, 255, 255)
		}
		for i, header := range data.Headers {
			pdf.CellFormat(widths[i], 7, text(header), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont(font, "", fontSize)
	}
	drawHeader()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	const rowHeight = 6.0

	for i, row := range data.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom-5 {
			pdf.AddPage()
			drawHeader()
		}

		fill := false
		if data.Style.AlternateRows {
			color := data.Style.RowBgColor1
			if i%2 == 1 {
				color = data.Style.RowBgColor2
			}
			r, g, b := hexToRGB(color)
			pdf.SetFillColor(r, g, b)
			fill = true
		}

		for j := range data.Headers {
			var value interface{}
			if j < len(row) {
				value = row[j]
			}
			align := "L"
			switch value.(type) {
			case int, int64, float32, float64:
				align = "R"
			}
			s := truncate(pdf, text(cast.ToString(value)), widths[j]-2)
			pdf.CellFormat(widths[j], rowHeight, s, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(writer); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for PDF files
func (p *PDFExporter) GetContentType() string {
	return "application/pdf"
}

// GetFileExtension returns the file extension for PDF files
func (p *PDFExporter) GetFileExtension() string {
	return ".pdf"
}

// columnWidths spreads the usable width using ColumnWidths as relative weights
func columnWidths(pdf *gofpdf.Fpdf, data *ExportData) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	weights := make([]float64, len(data.Headers))
	var sum float64
	for i := range weights {
		weights[i] = defaultColumnWeight
		if w, ok := data.Style.ColumnWidths[i]; ok && w > 0 {
			weights[i] = w
		}
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = usable * weights[i] / sum
	}
	return weights
}

// truncate shortens s with an ellipsis until it fits width
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

// symbols outside cp1252 are spelled out for the core fonts
var symbolReplacer = strings.NewReplacer(
	"₹", "Rs.",
	"₩", "KRW ",
	"₫", "VND ",
	"₱", "PHP ",
	"₪", "ILS ",
)

func textEncoder(pdf *gofpdf.Fpdf) func(string) string {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	return func(s string) string {
		return tr(symbolReplacer.Replace(s))
	}
}

// hexToRGB converts hex color to RGB values, white when invalid
func hexToRGB(hex string) (int, int, int) {
	hex = stripHash(hex)
	if len(hex) != 6 {
		return 255, 255, 255
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
