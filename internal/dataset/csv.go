package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
)

// LoadCSV reads a calendar sheet from a CSV file. The first record is the
// header row; short records are padded so every row spans all columns.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: empty file", path)
	}

	t := New(records[0])
	if _, ok := t.ColumnIndex(DateColumn); !ok {
		return nil, fmt.Errorf("read %s: missing %q column", path, DateColumn)
	}
	for _, rec := range records[1:] {
		row := t.AppendRow()
		for i, cell := range rec {
			if i < len(t.columns) {
				t.rows[row][i] = cell
			}
		}
	}
	return t, nil
}

// SaveCSV writes the sheet back, header first.
func SaveCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write(t.columns); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
