package model

import (
	"fmt"
	"strings"
	"time"
)

// PeriodLength is the length of one settlement period.
const PeriodLength = 30 * time.Minute

// MaxSettlementPeriod allows for the 50-period day at the autumn clock change.
const MaxSettlementPeriod = 50

// settlementDateLayouts are the date formats seen in BMRS and NESO payloads.
var settlementDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02-Jan-2006",
}

// ParseSettlementDate parses a settlement date in any of the known upstream layouts
// and returns it as a UTC instant.
func ParseSettlementDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range settlementDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised settlement date %q", s)
}

// SettlementTime returns the start of a settlement period:
// date + (period-1) * 30 minutes. Periods are 1-based.
func SettlementTime(date time.Time, period int) (time.Time, error) {
	if period < 1 || period > MaxSettlementPeriod {
		return time.Time{}, fmt.Errorf("settlement period %d out of range 1..%d", period, MaxSettlementPeriod)
	}
	return date.UTC().Add(time.Duration(period-1) * PeriodLength), nil
}

// Window is an inclusive UTC time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// LookbackWindow returns [now-hours, now] in UTC.
func LookbackWindow(now time.Time, hours int) Window {
	now = now.UTC()
	return Window{
		Start: now.Add(-time.Duration(hours) * time.Hour),
		End:   now,
	}
}

// IsEmpty reports whether the window has no duration. An empty window contains
// nothing, so a zero-hour lookback selects no rows.
func (w Window) IsEmpty() bool {
	return !w.End.After(w.Start)
}

// Contains reports whether t lies within the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	if w.IsEmpty() {
		return false
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}
