package expiry

import (
	"testing"
	"time"
)

func TestLastWeekdayOfMonth(t *testing.T) {
	cases := []struct {
		in     time.Time
		target time.Weekday
		want   time.Time
	}{
		{Date(2024, time.June, 10), time.Thursday, Date(2024, time.June, 27)},
		{Date(2024, time.December, 1), time.Tuesday, Date(2024, time.December, 31)},
		{Date(2024, time.February, 15), time.Thursday, Date(2024, time.February, 29)},
		{Date(2023, time.December, 25), time.Friday, Date(2023, time.December, 29)},
	}
	for _, c := range cases {
		if got := lastWeekdayOfMonth(c.in, c.target); !got.Equal(c.want) {
			t.Errorf("lastWeekdayOfMonth(%s, %v) = %v, want %v",
				c.in.Format("2006-01-02"), c.target, got, c.want)
		}
	}
}

func TestMonthlyExpiries(t *testing.T) {
	s := &Series{
		Instrument: Nifty, Frequency: Monthly,
		Launch: Date(2024, time.January, 15),
		Epochs: []Epoch{{Date(2024, time.January, 15), time.Thursday}},
	}
	cal := weekdayCalendar(Date(2024, time.January, 1), Date(2024, time.June, 30))

	set, err := monthlyExpiries(cal, s, Date(2024, time.June, 30))
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		Date(2024, time.January, 25),
		Date(2024, time.February, 29),
		Date(2024, time.March, 28),
		Date(2024, time.April, 25),
		Date(2024, time.May, 30),
		Date(2024, time.June, 27),
	}
	if len(set) != len(want) {
		t.Fatalf("got %d monthly expiries, want %d: %v", len(set), len(want), sortedDates(set))
	}
	for _, d := range want {
		if !set[d] {
			t.Errorf("missing expiry %v", d)
		}
	}
}

func TestMonthlyHolidayShift(t *testing.T) {
	// Last Wednesday of December 2024 is the 25th; with it closed, the
	// actual expiry shifts to the 24th.
	s := &Series{
		Instrument: BankNifty, Frequency: Monthly,
		Launch: Date(2024, time.December, 1),
		Epochs: []Epoch{{Date(2024, time.December, 1), time.Wednesday}},
	}
	cal := weekdayCalendar(Date(2024, time.December, 1), Date(2024, time.December, 31),
		Date(2024, time.December, 25))

	set, err := monthlyExpiries(cal, s, Date(2024, time.December, 31))
	if err != nil {
		t.Fatal(err)
	}
	if !set[Date(2024, time.December, 24)] {
		t.Errorf("expected 2024-12-24, got %v", sortedDates(set))
	}

	ok, err := classifyMonthly(cal, s, Date(2024, time.December, 24))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("2024-12-24 not classified as monthly expiry")
	}
	ok, err = classifyMonthly(cal, s, Date(2024, time.December, 25))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("holiday 2024-12-25 classified as monthly expiry")
	}
}

func TestMonthlyDiscontinuationExcludesMonth(t *testing.T) {
	// November's adjusted expiry lands after the 2024-11-13 cutoff, so the
	// whole month is excluded from the generated set.
	s := &Series{
		Instrument: BankNifty, Frequency: Monthly,
		Launch:      Date(2024, time.August, 1),
		Discontinue: datePtr(Date(2024, time.November, 13)),
		Epochs:      []Epoch{{Date(2024, time.August, 1), time.Thursday}},
	}
	cal := weekdayCalendar(Date(2024, time.August, 1), Date(2024, time.December, 31))

	set, err := monthlyExpiries(cal, s, Date(2024, time.December, 31))
	if err != nil {
		t.Fatal(err)
	}
	want := []time.Time{
		Date(2024, time.August, 29),
		Date(2024, time.September, 26),
		Date(2024, time.October, 31),
	}
	if len(set) != len(want) {
		t.Fatalf("got %v, want exactly %v", sortedDates(set), want)
	}
	for _, d := range want {
		if !set[d] {
			t.Errorf("missing expiry %v", d)
		}
	}
}

func TestClassifyMonthlyBeforeLaunch(t *testing.T) {
	s := &Series{
		Instrument: Sensex50, Frequency: Monthly,
		Launch: Date(2017, time.March, 14),
		Epochs: []Epoch{{Date(2017, time.March, 14), time.Friday}},
	}
	cal := weekdayCalendar(Date(2017, time.January, 1), Date(2017, time.December, 29))

	// 2017-02-24 is the last Friday of February but precedes the launch.
	ok, err := classifyMonthly(cal, s, Date(2017, time.February, 24))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("date before series launch classified as expiry")
	}
}

func TestClassifyMonthlyRuleAtQueriedDate(t *testing.T) {
	// A mid-month epoch flip: set generation keys the rule on the first of
	// the month, classification re-derives it at the queried date. The two
	// intentionally disagree for the flip month.
	s := &Series{
		Instrument: Sensex, Frequency: Monthly,
		Launch: Date(2025, time.January, 1),
		Epochs: []Epoch{
			{Date(2025, time.January, 1), time.Thursday},
			{Date(2025, time.June, 15), time.Tuesday},
		},
	}
	cal := allDaysCalendar(Date(2025, time.January, 1), Date(2025, time.June, 30))

	set, err := monthlyExpiries(cal, s, Date(2025, time.June, 30))
	if err != nil {
		t.Fatal(err)
	}
	// June 1 is before the flip, so the set holds the last Thursday.
	if !set[Date(2025, time.June, 26)] {
		t.Error("set generation should use the rule at the first of the month")
	}
	if set[Date(2025, time.June, 24)] {
		t.Error("set generation unexpectedly used the post-flip rule")
	}

	// Classification of June 24 sees the Tuesday rule (June 24 >= June 15)
	// and accepts the last Tuesday.
	ok, err := classifyMonthly(cal, s, Date(2025, time.June, 24))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("classification should re-derive the rule at the queried date")
	}
	// June 26 queried under the Tuesday rule is no longer the expiry.
	ok, err = classifyMonthly(cal, s, Date(2025, time.June, 26))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("classification of 2025-06-26 should use the post-flip rule")
	}
}
