package expiry

import "time"

// monthlyExpiries generates the actual monthly expiry for every month from
// the series launch month through the month containing end.
//
// The weekday rule is keyed on the first day of each month; rule flips never
// land mid-month in the exchange history, so the first-of-month key and any
// other in-month key agree. Months whose adjusted expiry falls past the
// discontinuation date are excluded.
func monthlyExpiries(cal *TradingCalendar, s *Series, end time.Time) (map[time.Time]bool, error) {
	set := make(map[time.Time]bool)
	end = DateOf(end)

	for month := monthStart(s.Launch); !month.After(end); month = month.AddDate(0, 1, 0) {
		if s.Discontinue != nil && month.After(*s.Discontinue) {
			break
		}

		scheduled := lastWeekdayOfMonth(month, s.WeekdayOn(month))
		actual, err := cal.PreviousTradingDay(scheduled)
		if err != nil {
			return nil, err
		}
		if s.Discontinue == nil || !actual.After(*s.Discontinue) {
			set[actual] = true
		}
	}
	return set, nil
}

// classifyMonthly reports whether d is the actual monthly expiry of its own
// month.
//
// Unlike set generation, the weekday rule is re-derived at d itself rather
// than at the first of the month. The asymmetry is inherited from the rule
// history this table reproduces and is deliberate; do not unify the two
// lookups.
func classifyMonthly(cal *TradingCalendar, s *Series, d time.Time) (bool, error) {
	d = DateOf(d)
	if !s.ActiveOn(d) {
		return false, nil
	}
	scheduled := lastWeekdayOfMonth(d, s.WeekdayOn(d))
	actual, err := cal.PreviousTradingDay(scheduled)
	if err != nil {
		return false, err
	}
	return d.Equal(actual), nil
}
