package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies one calendar-month partition of the ledger by its
// two-digit month code ("01".."12").
type Period string

// PeriodOf maps a point in time to its period. Total: every valid date falls
// in exactly one of the twelve periods.
func PeriodOf(t time.Time) Period {
	return Period(fmt.Sprintf("%02d", int(t.Month())))
}

// CurrentPeriod is the period the clock falls in right now.
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

// PeriodOfDate extracts the period from an ISO date string (YYYY-MM-DD).
func PeriodOfDate(date string) (Period, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return "", ErrInvalidDate
	}
	return PeriodOf(t), nil
}

// ParsePeriod accepts a month code ("7" or "07") and returns its canonical
// zero-padded form.
func ParsePeriod(s string) (Period, error) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || m < 1 || m > 12 {
		return "", fmt.Errorf("invalid month code %q", s)
	}
	return Period(fmt.Sprintf("%02d", m)), nil
}
