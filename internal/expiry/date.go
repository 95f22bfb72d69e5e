package expiry

import "time"

// Dates in this package are time.Time values normalized to midnight UTC so
// they can be used directly as map keys and compared with Before/After.

// Date builds a normalized calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf strips the time-of-day and location from t.
func DateOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func addDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// monthStart returns the first day of d's month.
func monthStart(d time.Time) time.Time {
	return Date(d.Year(), d.Month(), 1)
}

// monthEnd returns the last day of d's month.
func monthEnd(d time.Time) time.Time {
	return monthStart(d).AddDate(0, 1, -1)
}

// lastWeekdayOfMonth scans backward from the end of the month containing d
// until the weekday matches target.
func lastWeekdayOfMonth(d time.Time, target time.Weekday) time.Time {
	last := monthEnd(d)
	for last.Weekday() != target {
		last = addDays(last, -1)
	}
	return last
}
