package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calendar.csv")
	src := "Calendar Date,Trading Day,Nifty50 Close Price\n" +
		"2024-01-15,1,\"22,097.45\"\n" +
		"2024-01-16,1,22032.30\n" +
		"2024-01-17\n" // short row, padded on load
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows: got %d want 3", tbl.Len())
	}
	if got := tbl.Get(0, NiftyCloseColumn); got != "22,097.45" {
		t.Errorf("quoted cell: got %q", got)
	}
	if got := tbl.Get(2, TradingDayColumn); got != "" {
		t.Errorf("padded cell: got %q", got)
	}

	tbl.Set(2, TradingDayColumn, "0")
	if err := SaveCSV(tbl, path); err != nil {
		t.Fatalf("SaveCSV: %v", err)
	}

	again, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Len() != 3 {
		t.Fatalf("reload rows: got %d", again.Len())
	}
	if got := again.Get(2, TradingDayColumn); got != "0" {
		t.Errorf("written cell lost: got %q", got)
	}
}

func TestLoadCSVRequiresDateColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("Day,Close\n1,100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected missing date column error")
	}
}
