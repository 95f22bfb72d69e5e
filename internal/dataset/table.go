package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"market-calendar/internal/expiry"
)

// Column names shared with the upstream spreadsheet.
const (
	DateColumn       = "Calendar Date"
	TradingDayColumn = "Trading Day"
	NiftyCloseColumn = "Nifty50 Close Price"
)

// Table is the in-memory form of the calendar spreadsheet: one row per
// calendar date, string cells, column-name index. Cells hold raw text so a
// round trip preserves whatever the sheet already contains.
type Table struct {
	columns []string
	rows    [][]string
	index   map[string]int
}

// New creates an empty table with the given columns.
func New(columns []string) *Table {
	t := &Table{columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, c := range t.columns {
		t.index[c] = i
	}
}

// Columns returns the column names in sheet order.
func (t *Table) Columns() []string { return t.columns }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// ColumnIndex returns the position of a named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// EnsureColumn returns the index of name, appending a new empty column when
// the sheet does not have it yet.
func (t *Table) EnsureColumn(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	t.columns = append(t.columns, name)
	i := len(t.columns) - 1
	t.index[name] = i
	for r := range t.rows {
		t.rows[r] = append(t.rows[r], "")
	}
	return i
}

// AppendRow adds an empty row and returns its index.
func (t *Table) AppendRow() int {
	t.rows = append(t.rows, make([]string, len(t.columns)))
	return len(t.rows) - 1
}

// Get returns the raw cell text, or "" for a missing column.
func (t *Table) Get(row int, col string) string {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][i]
}

// Set writes a cell, creating the column if needed.
func (t *Table) Set(row int, col, value string) {
	i := t.EnsureColumn(col)
	t.rows[row][i] = value
}

// parseCellDate accepts the date shapes seen in existing calendar sheets.
func parseCellDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "02-01-2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return expiry.DateOf(d), true
		}
	}
	return time.Time{}, false
}

// Dates returns the row-aligned calendar dates. Unparseable cells yield the
// zero time, mirroring coercion to missing rather than failing the sheet.
func (t *Table) Dates() []time.Time {
	dates := make([]time.Time, len(t.rows))
	for r := range t.rows {
		if d, ok := parseCellDate(t.Get(r, DateColumn)); ok {
			dates[r] = d
		}
	}
	return dates
}

// Numeric coerces a column to numbers; blank or malformed cells become nil.
func (t *Table) Numeric(col string) []*float64 {
	out := make([]*float64, len(t.rows))
	for r := range t.rows {
		s := strings.ReplaceAll(strings.TrimSpace(t.Get(r, col)), ",", "")
		if s == "" || s == "-" {
			continue
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			out[r] = &v
		}
	}
	return out
}

// Closes builds the date -> closing-value mapping for the given column,
// suitable for expiry.NewTradingCalendar. Rows without a valid date are
// skipped.
func (t *Table) Closes(col string) map[time.Time]*float64 {
	dates := t.Dates()
	values := t.Numeric(col)
	closes := make(map[time.Time]*float64, len(dates))
	for r := range dates {
		if dates[r].IsZero() {
			continue
		}
		closes[dates[r]] = values[r]
	}
	return closes
}

// TradingDays builds the date -> flag mapping for expiry.NewTradingCalendar
// from the Trading Day column: rows flagged 1 carry a non-nil value, every
// other dated row nil. The Trading Day column is authoritative even where a
// historical row has no close price, so this, not Closes, feeds the
// calendar. Call it after UpdateTradingDays so appended rows are flagged.
func (t *Table) TradingDays() map[time.Time]*float64 {
	dates := t.Dates()
	flags := t.Numeric(TradingDayColumn)
	days := make(map[time.Time]*float64, len(dates))
	for r := range dates {
		if dates[r].IsZero() {
			continue
		}
		if flags[r] != nil && *flags[r] == 1 {
			days[dates[r]] = flags[r]
		} else {
			days[dates[r]] = nil
		}
	}
	return days
}

// RowForDate finds the row holding date d.
func (t *Table) RowForDate(d time.Time) (int, bool) {
	d = expiry.DateOf(d)
	for r, rd := range t.Dates() {
		if !rd.IsZero() && rd.Equal(d) {
			return r, true
		}
	}
	return -1, false
}

// SetClose writes a closing value for date d into col, appending a fresh
// row when the sheet has no row for that date yet.
func (t *Table) SetClose(d time.Time, col string, value float64) {
	cell := strconv.FormatFloat(value, 'f', -1, 64)
	if r, ok := t.RowForDate(d); ok {
		t.Set(r, col, cell)
		return
	}
	r := t.AppendRow()
	t.Set(r, DateColumn, expiry.DateOf(d).Format("2006-01-02"))
	t.Set(r, col, cell)
}

// SetFlags writes a row-aligned boolean column as 1/0 cells.
func (t *Table) SetFlags(col string, flags []bool) error {
	if len(flags) != len(t.rows) {
		return fmt.Errorf("column %q: %d flags for %d rows", col, len(flags), len(t.rows))
	}
	i := t.EnsureColumn(col)
	for r, f := range flags {
		if f {
			t.rows[r][i] = "1"
		} else {
			t.rows[r][i] = "0"
		}
	}
	return nil
}

// SortByDate orders rows chronologically; rows without a parseable date
// sink to the end in their original order.
func (t *Table) SortByDate() {
	dates := t.Dates()
	order := make([]int, len(t.rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := dates[order[a]], dates[order[b]]
		if da.IsZero() || db.IsZero() {
			return db.IsZero() && !da.IsZero()
		}
		return da.Before(db)
	})
	rows := make([][]string, len(t.rows))
	for i, o := range order {
		rows[i] = t.rows[o]
	}
	t.rows = rows
}

// UpdateTradingDays extends the Trading Day column: every row dated after
// the last confirmed trading day is marked 1 when its Nifty close is
// present and 0 otherwise. Earlier rows are left untouched.
func (t *Table) UpdateTradingDays() {
	dates := t.Dates()
	flags := t.Numeric(TradingDayColumn)
	closes := t.Numeric(NiftyCloseColumn)

	var lastConfirmed time.Time
	for r := range t.rows {
		if flags[r] != nil && *flags[r] == 1 && !dates[r].IsZero() && dates[r].After(lastConfirmed) {
			lastConfirmed = dates[r]
		}
	}

	i := t.EnsureColumn(TradingDayColumn)
	for r := range t.rows {
		if dates[r].IsZero() || !dates[r].After(lastConfirmed) {
			continue
		}
		if closes[r] != nil {
			t.rows[r][i] = "1"
		} else {
			t.rows[r][i] = "0"
		}
	}
}
