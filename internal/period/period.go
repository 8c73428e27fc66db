// Package period handles calendar dates. A date is a day: it is stored as
// midnight UTC and every range bound is inclusive.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the on-disk and CLI date layout.
const DateFormat = "2006-01-02"

// MonthFormat is the layout of budget periods.
const MonthFormat = "2006-01"

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Day drops the clock and zone of t, keeping its calendar day as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Format renders a date as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateFormat)
}

// Parse parses YYYY-MM-DD.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// AddDays shifts a date by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of whole days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Month renders the YYYY-MM period a date falls in.
func Month(t time.Time) string {
	return t.Format(MonthFormat)
}

// ParseMonth validates a YYYY-MM period string.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing period %q: %w", s, err)
	}
	return t, nil
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), 1)
}

// FiscalYearStart returns the first day of the fiscal year containing asOf,
// given the year start as "MM-DD" (empty means "01-01").
func FiscalYearStart(asOf time.Time, yearStart string) (time.Time, error) {
	month, day := time.January, 1
	if yearStart != "" {
		parts := strings.SplitN(yearStart, "-", 2)
		if len(parts) != 2 {
			return time.Time{}, fmt.Errorf("invalid fiscal year start %q (want MM-DD)", yearStart)
		}
		m, err := strconv.Atoi(parts[0])
		if err != nil || m < 1 || m > 12 {
			return time.Time{}, fmt.Errorf("invalid fiscal year start month %q", yearStart)
		}
		d, err := strconv.Atoi(parts[1])
		if err != nil || d < 1 || d > 31 {
			return time.Time{}, fmt.Errorf("invalid fiscal year start day %q", yearStart)
		}
		month, day = time.Month(m), d
	}

	asOf = Day(asOf)
	start := Date(asOf.Year(), month, day)
	if start.After(asOf) {
		start = Date(asOf.Year()-1, month, day)
	}
	return start, nil
}
