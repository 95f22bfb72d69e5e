package expiry

import (
	"sort"
	"time"
)

// Engine classifies calendar dates as contract expiries. It is a pure
// function of the trading calendar and rule table it is built from: weekly
// expiry sets are materialized once at construction, monthly classification
// is computed per query, and nothing mutates after New returns, so a single
// Engine may be shared across goroutines.
type Engine struct {
	cal    *TradingCalendar
	table  Table
	weekly map[Pair]map[time.Time]bool
}

// New builds an engine over cal and table. Weekly expiry sets for every
// weekly series run from launch through the calendar's latest known date;
// a series whose scheduled expiry cannot be resolved to a trading day fails
// construction with ErrNoTradingDay.
func New(cal *TradingCalendar, table Table) (*Engine, error) {
	e := &Engine{
		cal:    cal,
		table:  table,
		weekly: make(map[Pair]map[time.Time]bool),
	}
	end, ok := cal.Latest()
	for pair, s := range table {
		if s.Frequency != Weekly {
			continue
		}
		if !ok {
			e.weekly[pair] = map[time.Time]bool{}
			continue
		}
		set, err := weeklyExpiries(cal, s, end)
		if err != nil {
			return nil, err
		}
		e.weekly[pair] = set
	}
	return e, nil
}

// Calendar returns the trading calendar the engine was built over.
func (e *Engine) Calendar() *TradingCalendar { return e.cal }

// Table returns the engine's rule table.
func (e *Engine) Table() Table { return e.table }

// Classify reports whether d is an actual expiry date for the pair.
// Dates before launch or after discontinuation are false, not errors.
func (e *Engine) Classify(in Instrument, fr Frequency, d time.Time) (bool, error) {
	s, err := e.table.Lookup(in, fr)
	if err != nil {
		return false, err
	}
	d = DateOf(d)
	switch s.Frequency {
	case Monthly:
		return classifyMonthly(e.cal, s, d)
	default:
		return e.weekly[Pair{in, fr}][d], nil
	}
}

// Dates returns all actual expiry dates for the pair within [from, to],
// ascending.
func (e *Engine) Dates(in Instrument, fr Frequency, from, to time.Time) ([]time.Time, error) {
	s, err := e.table.Lookup(in, fr)
	if err != nil {
		return nil, err
	}
	from, to = DateOf(from), DateOf(to)

	var set map[time.Time]bool
	if s.Frequency == Monthly {
		end, ok := e.cal.Latest()
		if !ok {
			return nil, nil
		}
		if to.Before(end) {
			end = to
		}
		set, err = monthlyExpiries(e.cal, s, end)
		if err != nil {
			return nil, err
		}
	} else {
		set = e.weekly[Pair{in, fr}]
	}

	dates := make([]time.Time, 0, len(set))
	for d := range set {
		if !d.Before(from) && !d.After(to) {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// FlagColumn classifies every date in dates for the pair and returns the
// aligned boolean column.
func (e *Engine) FlagColumn(in Instrument, fr Frequency, dates []time.Time) ([]bool, error) {
	flags := make([]bool, len(dates))
	for i, d := range dates {
		ok, err := e.Classify(in, fr, d)
		if err != nil {
			return nil, err
		}
		flags[i] = ok
	}
	return flags, nil
}

// ScheduleFlags marks the dates that appear in the pair's generated expiry
// set, aligned with dates. This is the column the persistence layer writes:
// the generated monthly set keys each month's weekday rule at the first of
// the month, so around a mid-month rule change it can disagree with
// Classify, which re-derives the rule at the queried date. The sheet follows
// the generated set.
func (e *Engine) ScheduleFlags(in Instrument, fr Frequency, dates []time.Time) ([]bool, error) {
	s, err := e.table.Lookup(in, fr)
	if err != nil {
		return nil, err
	}

	set := e.weekly[Pair{in, fr}]
	if s.Frequency == Monthly {
		set = map[time.Time]bool{}
		if end, ok := e.cal.Latest(); ok {
			set, err = monthlyExpiries(e.cal, s, end)
			if err != nil {
				return nil, err
			}
		}
	}

	flags := make([]bool, len(dates))
	for i, d := range dates {
		flags[i] = set[DateOf(d)]
	}
	return flags, nil
}

// Pairs lists the table's instrument/frequency pairs in a stable order.
func (e *Engine) Pairs() []Pair {
	pairs := make([]Pair, 0, len(e.table))
	for p := range e.table {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Instrument != pairs[j].Instrument {
			return pairs[i].Instrument < pairs[j].Instrument
		}
		return pairs[i].Frequency < pairs[j].Frequency
	})
	return pairs
}
