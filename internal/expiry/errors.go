package expiry

import "errors"

var (
	// ErrNoTradingDay is returned when a backward scan for a trading day
	// reaches the calendar's earliest known date without finding one.
	ErrNoTradingDay = errors.New("no trading day at or before candidate date")

	// ErrUnknownSeries is returned when a caller asks for an
	// instrument/frequency pair the rule table does not define.
	ErrUnknownSeries = errors.New("unknown instrument/frequency pair")
)
