package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Jadwal"

// XLSXExporter renders datasets into a single-sheet Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an Excel exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType implements Renderer.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension implements Renderer.
func (e *XLSXExporter) Extension() string { return "xlsx" }

// Render writes the title (when present) on row 1, headers below it, then rows.
func (e *XLSXExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	row := 1
	if data.Title != "" {
		if err := f.SetCellValue(xlsxSheet, cellName(1, row), data.Title); err != nil {
			return nil, err
		}
		if len(data.Headers) > 1 {
			if err := f.MergeCell(xlsxSheet, cellName(1, row), cellName(len(data.Headers), row)); err != nil {
				return nil, fmt.Errorf("merge title: %w", err)
			}
		}
		row++
	}

	for i, header := range data.Headers {
		if err := f.SetCellValue(xlsxSheet, cellName(i+1, row), header); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(xlsxSheet, cellName(1, row), cellName(len(data.Headers), row), headerStyle); err != nil {
		return nil, fmt.Errorf("style headers: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(data.Headers))
	_ = f.SetColWidth(xlsxSheet, "A", lastCol, 18)

	for _, values := range data.Rows {
		row++
		for i, value := range data.record(values) {
			if err := f.SetCellValue(xlsxSheet, cellName(i+1, row), value); err != nil {
				return nil, err
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
