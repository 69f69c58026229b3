package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// CSVExporter writes the header row followed by one record per row.
// Title and styling are ignored.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (c *CSVExporter) Export(data *ExportData, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write(data.Headers); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range data.Rows {
		record := lo.Map(row, func(v interface{}, _ int) string { return cast.ToString(v) })
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

func (c *CSVExporter) GetContentType() string {
	return "text/csv"
}

func (c *CSVExporter) GetFileExtension() string {
	return ".csv"
}
