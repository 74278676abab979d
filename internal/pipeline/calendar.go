package pipeline

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether a date is a trading day on the target
// exchange. When the MIC calendar cannot be loaded it falls back to a plain
// Mon-Fri check, which misses exchange holidays but still catches weekends;
// holiday dates then resolve through the quote fetcher's no-session path.
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Loc      *time.Location
}

// NewTradingCalendar loads the exchange calendar for a MIC code (ISO 10383),
// e.g. "xtai" for the Taiwan exchange.
func NewTradingCalendar(mic, timezone string) *TradingCalendar {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("[WARN] load timezone %q: %v, using UTC", timezone, err)
		loc = time.UTC
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		log.Printf("[WARN] no calendar for MIC %q, using Mon-Fri fallback", mic)
		return &TradingCalendar{Fallback: true, Loc: loc}
	}
	return &TradingCalendar{Calendar: cal, Loc: cal.Loc}
}

// IsTradingDay reports whether the exchange trades on the given date.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Loc != nil {
		date = date.In(tc.Loc)
	}
	if tc.Fallback {
		wd := date.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}
