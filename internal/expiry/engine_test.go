package expiry

import (
	"errors"
	"testing"
	"time"
)

// historyCalendar spans the full default-table history so every series can
// materialize from its launch.
func historyCalendar(t *testing.T) *TradingCalendar {
	t.Helper()
	return weekdayCalendar(Date(2000, time.June, 1), Date(2025, time.June, 30))
}

func TestEngineUnknownPair(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	_, err = eng.Classify(Instrument("midcap"), Weekly, Date(2024, time.January, 4))
	if !errors.Is(err, ErrUnknownSeries) {
		t.Fatalf("got %v, want ErrUnknownSeries", err)
	}
	_, err = eng.Dates(Nifty, Frequency("quarterly"), Date(2024, time.January, 1), Date(2024, time.December, 31))
	if !errors.Is(err, ErrUnknownSeries) {
		t.Fatalf("got %v, want ErrUnknownSeries", err)
	}
}

func TestEngineClassifyWeekly(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	// First Nifty weekly expiry after the 2019-02-11 launch.
	ok, err := eng.Classify(Nifty, Weekly, Date(2019, time.February, 14))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("2019-02-14 should be the first Nifty weekly expiry")
	}

	// Before launch: false, not an error.
	ok, err = eng.Classify(Nifty, Weekly, Date(2019, time.February, 7))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("pre-launch Thursday classified as expiry")
	}

	// BankNifty weekly is discontinued after 2024-11-13.
	ok, err = eng.Classify(BankNifty, Weekly, Date(2024, time.November, 20))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("post-discontinuation Wednesday classified as expiry")
	}
}

func TestEngineClassifyMonthlyIdempotent(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	d := Date(2023, time.June, 29) // last Thursday of June 2023
	first, err := eng.Classify(Nifty, Monthly, d)
	if err != nil {
		t.Fatal(err)
	}
	second, err := eng.Classify(Nifty, Monthly, d)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("classification not idempotent: %v then %v", first, second)
	}
	if !first {
		t.Error("2023-06-29 should be the Nifty monthly expiry")
	}
}

func TestEngineDatesRange(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	dates, err := eng.Dates(Nifty, Weekly, Date(2019, time.March, 1), Date(2019, time.March, 31))
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 4 {
		t.Fatalf("got %d weekly expiries in March 2019, want 4: %v", len(dates), dates)
	}
	for i, d := range dates {
		if d.Before(Date(2019, time.March, 1)) || d.After(Date(2019, time.March, 31)) {
			t.Errorf("date %v outside requested range", d)
		}
		if i > 0 && !dates[i-1].Before(d) {
			t.Errorf("dates not ascending at %d", i)
		}
	}

	monthly, err := eng.Dates(Bankex, Monthly, Date(2023, time.May, 1), Date(2023, time.December, 31))
	if err != nil {
		t.Fatal(err)
	}
	if len(monthly) != 8 {
		t.Fatalf("got %d Bankex monthly expiries in 2023, want 8: %v", len(monthly), monthly)
	}
	// Rule switched from Friday to Monday effective 2023-10-16; the October
	// month key (Oct 1) still uses Friday, November onward uses Monday.
	if !monthly[5].Equal(Date(2023, time.October, 27)) {
		t.Errorf("October 2023 expiry %v, want Friday 2023-10-27", monthly[5])
	}
	if !monthly[6].Equal(Date(2023, time.November, 27)) {
		t.Errorf("November 2023 expiry %v, want Monday 2023-11-27", monthly[6])
	}
}

func TestEngineFlagColumn(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	dates := []time.Time{
		Date(2019, time.February, 13),
		Date(2019, time.February, 14),
		Date(2019, time.February, 15),
		Date(2019, time.February, 21),
	}
	flags, err := eng.FlagColumn(Nifty, Weekly, dates)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, false, true}
	for i := range want {
		if flags[i] != want[i] {
			t.Errorf("flag[%d] for %v = %v, want %v", i, dates[i], flags[i], want[i])
		}
	}
}

func TestEngineScheduleFlagsFollowGeneratedSet(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}

	// Bankex monthly flipped Friday -> Monday effective 2023-10-16. The
	// generated October set keys the rule at Oct 1 and lands on Friday
	// 2023-10-27; Classify re-derives the rule on the queried date and
	// prefers Monday 2023-10-30. The written column follows the set.
	fri := Date(2023, time.October, 27)
	mon := Date(2023, time.October, 30)

	flags, err := eng.ScheduleFlags(Bankex, Monthly, []time.Time{fri, mon})
	if err != nil {
		t.Fatal(err)
	}
	if !flags[0] || flags[1] {
		t.Errorf("schedule flags [%v %v], want [true false]", flags[0], flags[1])
	}

	ok, err := eng.Classify(Bankex, Monthly, fri)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Classify(2023-10-27) should follow the rule at the queried date")
	}

	// Weekly columns match FlagColumn exactly: both read the generated set.
	dates := []time.Time{Date(2019, time.February, 14), Date(2019, time.February, 15)}
	sched, err := eng.ScheduleFlags(Nifty, Weekly, dates)
	if err != nil {
		t.Fatal(err)
	}
	classified, err := eng.FlagColumn(Nifty, Weekly, dates)
	if err != nil {
		t.Fatal(err)
	}
	for i := range dates {
		if sched[i] != classified[i] {
			t.Errorf("weekly flag mismatch at %v: %v vs %v", dates[i], sched[i], classified[i])
		}
	}

	if _, err := eng.ScheduleFlags(Instrument("midcap"), Weekly, dates); !errors.Is(err, ErrUnknownSeries) {
		t.Fatalf("got %v, want ErrUnknownSeries", err)
	}
}

func TestEnginePairsStable(t *testing.T) {
	eng, err := New(historyCalendar(t), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	pairs := eng.Pairs()
	if len(pairs) != 12 {
		t.Fatalf("got %d pairs, want 12", len(pairs))
	}
	for i := 1; i < len(pairs); i++ {
		a, b := pairs[i-1], pairs[i]
		if a.Instrument > b.Instrument || (a.Instrument == b.Instrument && a.Frequency >= b.Frequency) {
			t.Errorf("pairs not in stable order at %d: %v, %v", i, a, b)
		}
	}
}

func TestEngineEmptyCalendar(t *testing.T) {
	eng, err := New(NewTradingCalendar(nil), DefaultTable())
	if err != nil {
		t.Fatal(err)
	}
	ok, err := eng.Classify(Nifty, Weekly, Date(2024, time.June, 27))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("empty calendar produced an expiry classification")
	}
}
