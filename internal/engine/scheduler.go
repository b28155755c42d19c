package engine

import (
	"fmt"
	"time"

	"trivia-settlement-service/internal/domain"
)

// IsActive reports whether now falls inside [start, end], inclusive on both
// ends. Pure function of its arguments.
func IsActive(start, end, now time.Time) bool {
	return !now.Before(start) && !now.After(end)
}

// NextPeriodStart returns the first boundary strictly after now:
// for WEEKLY the next Monday 00:00 UTC (a full week ahead if now is exactly
// Monday 00:00 UTC), for MONTHLY the 1st of the next calendar month 00:00 UTC.
func NextPeriodStart(periodType domain.PeriodType, now time.Time) (time.Time, error) {
	now = now.UTC()
	switch periodType {
	case domain.PeriodWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		days := (int(time.Monday) - int(midnight.Weekday()) + 7) % 7
		if days == 0 {
			// "Next" is always strictly future: on a Monday, roll a full week.
			days = 7
		}
		next := midnight.AddDate(0, 0, days)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil
	case domain.PeriodMonthly:
		return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported period type %q", periodType)
	}
}

// CurrentWindow returns the [start, end) boundaries of the period enclosing
// now. Weekly windows run Monday 00:00 UTC to the next Monday; monthly
// windows cover the calendar month.
func CurrentWindow(periodType domain.PeriodType, now time.Time) (time.Time, time.Time, error) {
	now = now.UTC()
	switch periodType {
	case domain.PeriodWeekly:
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		back := (int(midnight.Weekday()) - int(time.Monday) + 7) % 7
		start := midnight.AddDate(0, 0, -back)
		return start, start.AddDate(0, 0, 7), nil
	case domain.PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unsupported period type %q", periodType)
	}
}

// WindowID derives a stable period identifier from a mode and window start,
// so every settlement participant agrees on which row a period lives in.
func WindowID(mode domain.ModeType, periodType domain.PeriodType, start time.Time) string {
	return fmt.Sprintf("%s:%s:%s", mode, periodType, start.UTC().Format("2006-01-02"))
}
