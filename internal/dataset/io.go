package dataset

import "fmt"

// Load reads a calendar sheet in the configured format.
func Load(path, format, sheet string) (*Table, error) {
	switch format {
	case "csv":
		return LoadCSV(path)
	case "xlsx":
		return LoadXLSX(path, sheet)
	}
	return nil, fmt.Errorf("unsupported dataset format %q", format)
}

// Save writes a calendar sheet in the configured format.
func Save(t *Table, path, format, sheet string) error {
	switch format {
	case "csv":
		return SaveCSV(t, path)
	case "xlsx":
		return SaveXLSX(t, path, sheet)
	}
	return fmt.Errorf("unsupported dataset format %q", format)
}
