package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter implements Excel export using excelize
type ExcelExporter struct{}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes the table to a single worksheet
func (e *ExcelExporter) Export(data *ExportData, writer io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := data.Style.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	if data.Title != "" {
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14, Family: data.Style.FontFamily},
		})
		if err != nil {
			return fmt.Errorf("failed to create title style: %w", err)
		}
		f.SetCellValue(sheet, cell(1, row), data.Title)
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), titleStyle)
		row++

		if data.Description != "" {
			f.SetCellValue(sheet, cell(1, row), data.Description)
			row++
		}
		row++
	}

	headerStyle, err := e.createHeaderStyle(f, data.Style)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := row
	for i, header := range data.Headers {
		f.SetCellValue(sheet, cell(i+1, row), header)
		f.SetCellStyle(sheet, cell(i+1, row), cell(i+1, row), headerStyle)

		if width, ok := data.Style.ColumnWidths[i]; ok {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sheet, col, col, width)
		}
	}
	row++

	oddStyle, err := e.createRowStyle(f, data.Style, data.Style.RowBgColor1)
	if err != nil {
		return fmt.Errorf("failed to create row style: %w", err)
	}
	evenStyle := oddStyle
	if data.Style.AlternateRows {
		if evenStyle, err = e.createRowStyle(f, data.Style, data.Style.RowBgColor2); err != nil {
			return fmt.Errorf("failed to create row style: %w", err)
		}
	}

	for i, values := range data.Rows {
		style := oddStyle
		if i%2 == 1 {
			style = evenStyle
		}
		for j, value := range values {
			f.SetCellValue(sheet, cell(j+1, row), value)
		}
		if len(values) > 0 {
			f.SetCellStyle(sheet, cell(1, row), cell(len(values), row), style)
		}
		row++
	}

	if data.Style.FreezeHeader {
		f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: cell(1, headerRow+1),
			ActivePane:  "bottomLeft",
		})
	}

	if data.Style.AutoFilter && len(data.Headers) > 0 {
		lastRow := headerRow + len(data.Rows)
		f.AutoFilter(sheet, cell(1, headerRow)+":"+cell(len(data.Headers), lastRow), nil)
	}

	if err := f.Write(writer); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// GetContentType returns the MIME type for Excel files
func (e *ExcelExporter) GetContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// GetFileExtension returns the file extension for Excel files
func (e *ExcelExporter) GetFileExtension() string {
	return ".xlsx"
}

func (e *ExcelExporter) createHeaderStyle(f *excelize.File, style ExportStyle) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   style.HeaderBold,
			Size:   style.FontSize,
			Family: style.FontFamily,
			Color:  "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHash(style.HeaderBgColor)},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

func (e *ExcelExporter) createRowStyle(f *excelize.File, style ExportStyle, bgColor string) (int, error) {
	rowStyle := &excelize.Style{
		Font: &excelize.Font{
			Size:   style.FontSize,
			Family: style.FontFamily,
		},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}

	// white rows get no fill
	if bgColor != "" && bgColor != "#FFFFFF" {
		rowStyle.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{stripHash(bgColor)},
		}
	}

	return f.NewStyle(rowStyle)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func stripHash(color string) string {
	if len(color) > 0 && color[0] == '#' {
		return color[1:]
	}
	return color
}
