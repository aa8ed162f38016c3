package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Employees"

// XLSXExporter renders datasets into a single-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the header row in bold followed by one row per record.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if err := writeXLSXRow(f, 1, data.Headers); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(data.Headers), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range data.Rows {
		if err := writeXLSXRow(f, i+2, data.record(row)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeXLSXRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
