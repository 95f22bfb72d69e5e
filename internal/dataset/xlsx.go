package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads a calendar sheet from one worksheet of an xlsx workbook.
func LoadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s!%s: empty worksheet", path, sheet)
	}

	t := New(rows[0])
	if _, ok := t.ColumnIndex(DateColumn); !ok {
		return nil, fmt.Errorf("read %s!%s: missing %q column", path, sheet, DateColumn)
	}
	for _, rec := range rows[1:] {
		row := t.AppendRow()
		for i, cell := range rec {
			if i < len(t.columns) {
				t.rows[row][i] = cell
			}
		}
	}
	return t, nil
}

// SaveXLSX writes the sheet into a fresh workbook with a single worksheet.
func SaveXLSX(t *Table, path, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	for i, name := range t.columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for r, row := range t.rows {
		for i, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}
