package export

import (
	"io"
	"time"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatPDF   ExportFormat = "pdf"
	FormatExcel ExportFormat = "excel"
	FormatCSV   ExportFormat = "csv"
)

// ParseFormat accepts the format names used in URLs and CLI flags
func ParseFormat(s string) (ExportFormat, bool) {
	switch s {
	case "pdf":
		return FormatPDF, true
	case "excel", "xlsx":
		return FormatExcel, true
	case "csv":
		return FormatCSV, true
	}
	return "", false
}

// Exporter is the interface for all table export formats
type Exporter interface {
	Export(data *ExportData, writer io.Writer) error
	GetContentType() string
	GetFileExtension() string
}

// ExportData represents the data to be exported
type ExportData struct {
	Title       string
	Description string
	Author      string
	CreatedAt   time.Time

	// Table data
	Headers []string
	Rows    [][]interface{}

	// Styling options
	Style ExportStyle
}

// ExportStyle defines styling options for exports
type ExportStyle struct {
	// PDF specific
	Orientation string // "portrait" or "landscape"
	PageSize    string // "A4", "Letter", etc.

	// Common styling
	HeaderBold    bool
	HeaderBgColor string // Hex color
	AlternateRows bool
	RowBgColor1   string // Hex color for odd rows
	RowBgColor2   string // Hex color for even rows

	// Font settings
	FontFamily string
	FontSize   float64

	// Excel specific
	SheetName    string
	FreezeHeader bool
	AutoFilter   bool
	ColumnWidths map[int]float64 // Column index -> width
}

// DefaultStyle returns default export styling
func DefaultStyle() ExportStyle {
	return ExportStyle{
		Orientation:   "landscape",
		PageSize:      "A4",
		HeaderBold:    true,
		HeaderBgColor: "#4F46E5",
		AlternateRows: true,
		RowBgColor1:   "#FFFFFF",
		RowBgColor2:   "#F1F5F9",
		FontFamily:    "Arial",
		FontSize:      9,
		SheetName:     "Invoices",
		FreezeHeader:  true,
		AutoFilter:    true,
		ColumnWidths:  map[int]float64{0: 20, 2: 24, 4: 40, 8: 30},
	}
}

// TableData is a convenience struct for simple table exports
type TableData struct {
	Headers []string
	Rows    [][]interface{}
}

// ToExportData converts TableData to ExportData with defaults
func (t *TableData) ToExportData(title string, createdAt time.Time) *ExportData {
	return &ExportData{
		Title:     title,
		CreatedAt: createdAt,
		Headers:   t.Headers,
		Rows:      t.Rows,
		Style:     DefaultStyle(),
	}
}

// Party is a name and address block on an invoice
type Party struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxID   string
}

// DocumentLine is one printed invoice row; amounts are preformatted
type DocumentLine struct {
	Description string
	Quantity    string
	Price       string
	Amount      string
}

// TotalLine is a label/value pair in the totals block
type TotalLine struct {
	Label    string
	Value    string
	Emphasis bool
}

// InvoiceDocument is a print-ready invoice
type InvoiceDocument struct {
	Number  string
	Date    string
	DueDate string

	// ShowCompany renders the company header block
	ShowCompany bool
	Company     Party
	// Logo is a data URL or http(s) URL
	Logo string

	BillTo Party
	Lines  []DocumentLine
	Totals []TotalLine
	Notes  string

	// QRPayload is encoded into a QR code in the footer when set
	QRPayload string
}
