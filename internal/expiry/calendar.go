package expiry

import (
	"fmt"
	"sort"
	"time"
)

// TradingCalendar records, per calendar date, whether the market was open.
// A date is a trading day iff a closing value is present for it. Dates past
// the latest ingested date are unknown and are never treated as trading days.
//
// The calendar is immutable after construction and safe for concurrent reads.
type TradingCalendar struct {
	trading  map[time.Time]bool
	earliest time.Time // earliest ingested date, trading or not
	latest   time.Time // latest ingested date
	empty    bool
}

// NewTradingCalendar builds a calendar from a date -> closing-value mapping.
// A nil value means the close is missing (holiday or data gap); any non-nil
// value marks the date as a trading day.
func NewTradingCalendar(closes map[time.Time]*float64) *TradingCalendar {
	c := &TradingCalendar{
		trading: make(map[time.Time]bool, len(closes)),
		empty:   len(closes) == 0,
	}
	first := true
	for d, v := range closes {
		d = DateOf(d)
		if v != nil {
			c.trading[d] = true
		}
		if first || d.Before(c.earliest) {
			c.earliest = d
		}
		if first || d.After(c.latest) {
			c.latest = d
		}
		first = false
	}
	return c
}

// IsTradingDay reports whether d is a known trading day. Unknown and future
// dates report false.
func (c *TradingCalendar) IsTradingDay(d time.Time) bool {
	return c.trading[DateOf(d)]
}

// Earliest returns the earliest ingested date. ok is false for an empty
// calendar.
func (c *TradingCalendar) Earliest() (time.Time, bool) {
	return c.earliest, !c.empty
}

// Latest returns the latest ingested date. ok is false for an empty calendar.
func (c *TradingCalendar) Latest() (time.Time, bool) {
	return c.latest, !c.empty
}

// TradingDaysUpTo returns all trading days on or before d, ascending.
func (c *TradingCalendar) TradingDaysUpTo(d time.Time) []time.Time {
	d = DateOf(d)
	days := make([]time.Time, 0, len(c.trading))
	for t := range c.trading {
		if !t.After(d) {
			days = append(days, t)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// PreviousTradingDay resolves candidate to the nearest trading day at or
// before it. If candidate is itself a trading day it is returned unchanged.
//
// The scan is bounded by the earliest ingested date: stepping past it returns
// ErrNoTradingDay instead of looping forever on an empty or short calendar.
func (c *TradingCalendar) PreviousTradingDay(candidate time.Time) (time.Time, error) {
	d := DateOf(candidate)
	if c.empty {
		return time.Time{}, fmt.Errorf("resolve %s: %w", d.Format("2006-01-02"), ErrNoTradingDay)
	}
	for !c.trading[d] {
		if d.Before(c.earliest) {
			return time.Time{}, fmt.Errorf("resolve %s: %w", DateOf(candidate).Format("2006-01-02"), ErrNoTradingDay)
		}
		d = addDays(d, -1)
	}
	return d, nil
}
