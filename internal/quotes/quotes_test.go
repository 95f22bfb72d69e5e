package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"market-calendar/internal/dataset"
	"market-calendar/internal/expiry"
)

type stubSource struct {
	name   string
	closes []Close
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) ([]Close, error) { return s.closes, s.err }

func TestServiceAppliesCloses(t *testing.T) {
	sheet := dataset.New([]string{dataset.DateColumn, dataset.NiftyCloseColumn})
	r := sheet.AppendRow()
	sheet.Set(r, dataset.DateColumn, "2024-01-16")

	svc := NewService(&stubSource{
		name: "stub",
		closes: []Close{
			{Column: dataset.NiftyCloseColumn, Date: expiry.Date(2024, time.January, 16), Value: 22032.30},
			{Column: "Sensex Close Price", Date: expiry.Date(2024, time.January, 17), Value: 73128.77},
		},
	})

	if written := svc.Apply(context.Background(), sheet); written != 2 {
		t.Fatalf("written: got %d want 2", written)
	}
	if got := sheet.Get(0, dataset.NiftyCloseColumn); got != "22032.3" {
		t.Errorf("updated cell: %q", got)
	}
	if sheet.Len() != 2 {
		t.Fatalf("rows: got %d want 2", sheet.Len())
	}
	if got := sheet.Get(1, "Sensex Close Price"); got != "73128.77" {
		t.Errorf("appended cell: %q", got)
	}
}

func TestServiceSkipsFailedSource(t *testing.T) {
	sheet := dataset.New([]string{dataset.DateColumn})

	svc := NewService(
		&stubSource{name: "broken", err: errors.New("boom")},
		&stubSource{name: "ok", closes: []Close{
			{Column: dataset.NiftyCloseColumn, Date: expiry.Date(2024, time.January, 16), Value: 22032.30},
		}},
	)

	if written := svc.Apply(context.Background(), sheet); written != 1 {
		t.Fatalf("written: got %d want 1", written)
	}
	if sheet.Len() != 1 {
		t.Errorf("rows: got %d", sheet.Len())
	}
}
