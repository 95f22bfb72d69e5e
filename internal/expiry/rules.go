package expiry

import (
	"fmt"
	"time"
)

// Frequency distinguishes weekly and monthly contract cycles.
type Frequency string

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Instrument identifies a tracked index.
type Instrument string

const (
	Nifty     Instrument = "nifty"
	BankNifty Instrument = "banknifty"
	FinNifty  Instrument = "finnifty"
	Sensex    Instrument = "sensex"
	Sensex50  Instrument = "sensex50"
	Bankex    Instrument = "bankex"
)

// Epoch says "from EffectiveFrom (inclusive) the scheduled expiry weekday is
// Weekday", until the next epoch takes over.
type Epoch struct {
	EffectiveFrom time.Time
	Weekday       time.Weekday
}

// Series holds the rule history for one instrument/frequency pair.
//
// Launch is the first date on which cycles are generated (for monthly series
// it doubles as the historical floor below which classification is false).
// Discontinue, when set, is the last date on which an expiry may fall.
// Column names the output flag column the persistence layer writes.
type Series struct {
	Instrument  Instrument
	Frequency   Frequency
	Launch      time.Time
	Discontinue *time.Time
	Epochs      []Epoch
	Column      string
}

// Validate checks the epoch-chain invariants: at least one epoch, epochs
// strictly ascending by EffectiveFrom, and the first epoch effective on or
// before Launch.
func (s *Series) Validate() error {
	if s.Instrument == "" || (s.Frequency != Weekly && s.Frequency != Monthly) {
		return fmt.Errorf("series %s/%s: missing instrument or bad frequency", s.Instrument, s.Frequency)
	}
	if len(s.Epochs) == 0 {
		return fmt.Errorf("series %s/%s: no weekday epochs", s.Instrument, s.Frequency)
	}
	for i := 1; i < len(s.Epochs); i++ {
		if !s.Epochs[i-1].EffectiveFrom.Before(s.Epochs[i].EffectiveFrom) {
			return fmt.Errorf("series %s/%s: epochs not strictly ascending at index %d", s.Instrument, s.Frequency, i)
		}
	}
	if s.Launch.Before(s.Epochs[0].EffectiveFrom) {
		return fmt.Errorf("series %s/%s: launch %s precedes first epoch %s",
			s.Instrument, s.Frequency,
			s.Launch.Format("2006-01-02"), s.Epochs[0].EffectiveFrom.Format("2006-01-02"))
	}
	if s.Discontinue != nil && s.Discontinue.Before(s.Launch) {
		return fmt.Errorf("series %s/%s: discontinue precedes launch", s.Instrument, s.Frequency)
	}
	return nil
}

// WeekdayOn returns the scheduled expiry weekday in effect on d: the epoch
// with the greatest EffectiveFrom that is <= d. Dates before the first epoch
// clamp to it; this only matters for monthly set generation, which keys the
// lookup on the first day of the launch month.
func (s *Series) WeekdayOn(d time.Time) time.Weekday {
	d = DateOf(d)
	wd := s.Epochs[0].Weekday
	for _, e := range s.Epochs {
		if d.Before(e.EffectiveFrom) {
			break
		}
		wd = e.Weekday
	}
	return wd
}

// ActiveOn reports whether the series generates cycles covering d: on or
// after Launch and, when discontinued, on or before Discontinue. Inactive
// dates classify as false; they are not errors.
func (s *Series) ActiveOn(d time.Time) bool {
	d = DateOf(d)
	if d.Before(s.Launch) {
		return false
	}
	if s.Discontinue != nil && d.After(*s.Discontinue) {
		return false
	}
	return true
}

// Table maps instrument/frequency pairs to their rule series.
type Table map[Pair]*Series

// Pair is a rule-table key.
type Pair struct {
	Instrument Instrument
	Frequency  Frequency
}

// NewTable validates every series and indexes them by pair.
func NewTable(series ...*Series) (Table, error) {
	t := make(Table, len(series))
	for _, s := range series {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		k := Pair{s.Instrument, s.Frequency}
		if _, dup := t[k]; dup {
			return nil, fmt.Errorf("duplicate series %s/%s", s.Instrument, s.Frequency)
		}
		t[k] = s
	}
	return t, nil
}

// Lookup returns the series for the pair or ErrUnknownSeries.
func (t Table) Lookup(in Instrument, fr Frequency) (*Series, error) {
	s, ok := t[Pair{in, fr}]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", in, fr, ErrUnknownSeries)
	}
	return s, nil
}

func datePtr(d time.Time) *time.Time { return &d }

// DefaultTable returns the exchange rule history for the six tracked indices,
// weekly and monthly each. Dates follow NSE/BSE circulars on expiry-day
// changes, launches, and the BankNifty weekly discontinuation.
func DefaultTable() Table {
	t, err := NewTable(
		&Series{
			Instrument: Nifty, Frequency: Weekly,
			Launch: Date(2019, time.February, 11),
			Epochs: []Epoch{
				{Date(2019, time.February, 11), time.Thursday},
				{Date(2025, time.April, 4), time.Monday},
			},
			Column: "NSE Nifty Weekly Expiry",
		},
		&Series{
			Instrument: Nifty, Frequency: Monthly,
			Launch: Date(2000, time.June, 12),
			Epochs: []Epoch{
				{Date(2000, time.June, 12), time.Thursday},
				{Date(2025, time.April, 4), time.Monday},
			},
			Column: "NSE Nifty Monthly Expiry",
		},
		&Series{
			Instrument: BankNifty, Frequency: Weekly,
			Launch:      Date(2016, time.May, 27),
			Discontinue: datePtr(Date(2024, time.November, 13)),
			Epochs: []Epoch{
				{Date(2016, time.May, 27), time.Thursday},
				{Date(2023, time.September, 6), time.Wednesday},
			},
			Column: "NSE BankNifty Weekly Expiry",
		},
		&Series{
			Instrument: BankNifty, Frequency: Monthly,
			Launch: Date(2005, time.June, 13),
			Epochs: []Epoch{
				{Date(2005, time.June, 13), time.Thursday},
				{Date(2024, time.March, 1), time.Wednesday},
				{Date(2025, time.January, 1), time.Thursday},
			},
			Column: "NSE BankNifty Monthly Expiry",
		},
		&Series{
			Instrument: FinNifty, Frequency: Weekly,
			Launch: Date(2021, time.January, 11),
			Epochs: []Epoch{
				{Date(2021, time.January, 11), time.Thursday},
				{Date(2021, time.October, 14), time.Tuesday},
				{Date(2025, time.April, 4), time.Monday},
			},
			Column: "NSE FinNifty Weekly Expiry",
		},
		&Series{
			Instrument: FinNifty, Frequency: Monthly,
			Launch: Date(2021, time.January, 11),
			Epochs: []Epoch{
				{Date(2021, time.January, 11), time.Thursday},
				{Date(2021, time.October, 14), time.Tuesday},
				{Date(2025, time.April, 4), time.Monday},
			},
			Column: "NSE FinNifty Monthly Expiry",
		},
		&Series{
			Instrument: Sensex, Frequency: Weekly,
			Launch: Date(2020, time.June, 29),
			Epochs: []Epoch{
				{Date(2020, time.June, 29), time.Monday},
				{Date(2023, time.May, 15), time.Friday},
				{Date(2025, time.January, 2), time.Tuesday},
			},
			Column: "BSE Sensex Weekly Expiry",
		},
		&Series{
			Instrument: Sensex, Frequency: Monthly,
			Launch: Date(2000, time.June, 9),
			Epochs: []Epoch{
				{Date(2000, time.June, 9), time.Thursday},
				{Date(2023, time.May, 15), time.Friday},
				{Date(2025, time.January, 1), time.Tuesday},
			},
			Column: "BSE Sensex Monthly Expiry",
		},
		&Series{
			Instrument: Sensex50, Frequency: Weekly,
			Launch: Date(2018, time.October, 26),
			Epochs: []Epoch{
				{Date(2018, time.October, 26), time.Friday},
				{Date(2025, time.January, 1), time.Wednesday},
			},
			Column: "BSE Sensex50 Weekly Expiry",
		},
		&Series{
			Instrument: Sensex50, Frequency: Monthly,
			Launch: Date(2017, time.March, 14),
			Epochs: []Epoch{
				{Date(2017, time.March, 14), time.Friday},
				{Date(2025, time.January, 1), time.Tuesday},
			},
			Column: "BSE Sensex50 Monthly Expiry",
		},
		&Series{
			Instrument: Bankex, Frequency: Weekly,
			Launch: Date(2023, time.May, 15),
			Epochs: []Epoch{
				{Date(2023, time.May, 15), time.Friday},
				{Date(2025, time.January, 1), time.Tuesday},
			},
			Column: "BSE Bankex Weekly Expiry",
		},
		&Series{
			Instrument: Bankex, Frequency: Monthly,
			Launch: Date(2023, time.May, 15),
			Epochs: []Epoch{
				{Date(2023, time.May, 15), time.Friday},
				{Date(2023, time.October, 16), time.Monday},
				{Date(2025, time.January, 1), time.Tuesday},
			},
			Column: "BSE Bankex Monthly Expiry",
		},
	)
	if err != nil {
		// The built-in table is static data; a validation failure here is a
		// programming error.
		panic(err)
	}
	return t
}
