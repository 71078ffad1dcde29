package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column describes one spreadsheet column
type Column struct {
	Header string
	Width  float64
}

// Sheet is a single-sheet table export
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Workbook renders the sheet into an xlsx file with a styled, frozen header row
func Workbook(sheet Sheet) (data []byte, err error) {
	if sheet.Name == "" {
		return nil, errors.New("sheet name is required")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	index, err := f.NewSheet(sheet.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet.Name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range sheet.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet.Name, cell, col.Header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, fmt.Errorf("failed to convert column number: %w", err)
			}
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return nil, fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			if value == nil {
				continue
			}
			if err := setCellValue(f, sheet.Name, c+1, r+2, value); err != nil {
				return nil, fmt.Errorf("failed to set cell at row %d, col %d: %w", r+2, c+1, err)
			}
		}
	}

	if err := f.SetPanes(sheet.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCellValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		value = v.Format("2006-01-02 15:04")
	case *time.Time:
		if v == nil {
			return nil
		}
		value = v.Format("2006-01-02")
	}
	return f.SetCellValue(sheet, cell, value)
}
