package expiry

import "time"

// weeklyExpiries walks weekly cycles from the series launch through end and
// returns the set of actual (holiday-adjusted) expiry dates.
//
// Each cycle schedules the next occurrence of the weekday in effect at the
// cycle pointer. A pointer already on the target weekday schedules a full
// week out, never the same day, so the cadence is strictly weekly. The
// scheduled date shifts backward to the nearest trading day. A cycle whose
// scheduled date falls past end is not recorded at all.
func weeklyExpiries(cal *TradingCalendar, s *Series, end time.Time) (map[time.Time]bool, error) {
	set := make(map[time.Time]bool)
	end = DateOf(end)

	pointer := s.Launch
	for !pointer.After(end) {
		if s.Discontinue != nil && pointer.After(*s.Discontinue) {
			break
		}

		target := s.WeekdayOn(pointer)
		daysAhead := (int(target) - int(pointer.Weekday()) + 7) % 7
		if daysAhead == 0 {
			daysAhead = 7
		}
		scheduled := addDays(pointer, daysAhead)

		// A cycle scheduled past end would resolve backward onto the last
		// known date and fake an extra expiry there; leave the tail cycle
		// for when the calendar covers it.
		if scheduled.After(end) {
			break
		}

		actual, err := cal.PreviousTradingDay(scheduled)
		if err != nil {
			return nil, err
		}
		if s.Discontinue == nil || !actual.After(*s.Discontinue) {
			set[actual] = true
		}

		pointer = addDays(scheduled, 1)
	}
	return set, nil
}
